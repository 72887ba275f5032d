// Package report renders the plain-text metrics report of a graph and its
// benchmark validation.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/validate"
)

// TopDegrees is the number of nodes listed in the degree section.
const TopDegrees = 10

// Write renders the report for summary and, when not nil, the validation
// result.
func Write(w io.Writer, summary graph.Summary, validation *validate.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "=== Semantic Graph Metrics ===\n\n")
	fmt.Fprintln(bw, "Graph Structure:")
	fmt.Fprintf(bw, "  - Nodes: %d\n", summary.Nodes)
	fmt.Fprintf(bw, "  - Edges: %d\n", summary.Edges)
	fmt.Fprintf(bw, "  - Density: %.4f (complete graph = 1.0, tree = ~2/n)\n", summary.Density)
	fmt.Fprintf(bw, "  - Average Degree: %.4f\n", summary.AverageDegree)
	fmt.Fprintf(bw, "  - Connected Components: %d\n", summary.Components)
	fmt.Fprintf(bw, "  - Largest Component: %d nodes (%.1f%% of total)\n", summary.LargestComponent, percent(summary.LargestComponent, summary.Nodes))
	fmt.Fprintf(bw, "  - Clustering Coefficient: %.4f (0-1, higher = more clustered)\n", summary.Clustering)

	fmt.Fprint(bw, "\nNode Degrees (sample):\n")
	for _, d := range summary.TopDegrees {
		fmt.Fprintf(bw, "    %s: %d\n", d.Key, d.Degree)
	}
	if rest := summary.Nodes - len(summary.TopDegrees); rest > 0 {
		fmt.Fprintf(bw, "    ... and %d more\n", rest)
	}

	if validation != nil {
		fmt.Fprint(bw, "\nSemantic Validation (WordSim353):\n")
		fmt.Fprintf(bw, "  - Pairs Found: %d of %d\n", validation.Found, validation.Total)
		fmt.Fprintf(bw, "  - Spearman Correlation: %.4f\n", validation.Correlation)
		fmt.Fprintf(bw, "  - P-value: %.4f\n", validation.PValue)
	}

	return bw.Flush()
}

// WriteFile writes the report to path, creating parent directories, and
// copies it to echo when echo is not nil.
func WriteFile(path string, echo io.Writer, summary graph.Summary, validation *validate.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	var w io.Writer = f
	if echo != nil {
		w = io.MultiWriter(f, echo)
	}
	if err := Write(w, summary, validation); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// WritePairs prints the per-pair validation table.
func WritePairs(w io.Writer, res validate.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%-15s %-15s %-10s %-10s %-10s\n", "Word 1", "Word 2", "Human", "In Graph", "Similarity")
	fmt.Fprintln(bw, "----------------------------------------------------------------")
	for _, p := range res.Pairs {
		if p.Found() {
			fmt.Fprintf(bw, "%-15s %-15s %-10.2f %-10s %-10.4f\n", p.Word1, p.Word2, p.Human, "YES", p.Score)
			continue
		}
		status := fmt.Sprintf("%t/%t", p.InGraph1, p.InGraph2)
		fmt.Fprintf(bw, "%-15s %-15s %-10.2f %-10s %-10s\n", p.Word1, p.Word2, p.Human, status, "N/A")
	}

	fmt.Fprintf(bw, "\nTotal pairs: %d\n", res.Total)
	fmt.Fprintf(bw, "Pairs found in graph: %d\n", res.Found)
	fmt.Fprintf(bw, "Pairs missing from graph: %d\n", res.Missing)
	if res.Found >= 2 {
		fmt.Fprintf(bw, "Human scores range: %.2f - %.2f\n", res.HumanRange.Min, res.HumanRange.Max)
		fmt.Fprintf(bw, "Graph scores range: %.4f - %.4f\n", res.GraphRange.Min, res.GraphRange.Max)
	}

	return bw.Flush()
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
