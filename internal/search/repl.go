package search

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
)

// Interactive command defaults.
const (
	replTopN      = 5
	replMaxPaths  = 3
	replRadius    = 2
	replLayerShow = 8
)

const replUsage = "Unknown command. Try 'sim <word>', 'path <word1> <word2>', 'neigh <word>', or 'exit'"

// REPL is an interactive command loop over an Engine.
type REPL struct {
	engine *Engine
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a REPL reading commands from in and writing to out.
func NewREPL(engine *Engine, in io.Reader, out io.Writer) *REPL {
	return &REPL{engine: engine, in: in, out: out}
}

// Run processes commands until "exit", end of input or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	g := r.engine.Graph()
	fmt.Fprintf(r.out, "Loaded graph with %d nodes and %d edges\n", g.NodeCount(), g.EdgeCount())
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  sim <word> - Find similar words")
	fmt.Fprintln(r.out, "  path <word1> <word2> - Find paths between words")
	fmt.Fprintln(r.out, "  neigh <word> - Show semantic neighborhood")
	fmt.Fprintln(r.out, "  exit - Quit the program")

	sc := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "\n> ")
		if !sc.Scan() {
			fmt.Fprintln(r.out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Exec(sc.Text()) {
			return nil
		}
	}
}

// Exec runs one command line and reports whether it asked to exit.
func (r *REPL) Exec(line string) bool {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return false
	}

	switch cmd := parts[0]; {
	case cmd == "exit" || cmd == "quit":
		return true
	case cmd == "sim" && len(parts) > 1:
		r.similar(strings.Join(parts[1:], " "))
	case cmd == "path" && len(parts) > 2:
		r.paths(strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1])
	case cmd == "neigh" && len(parts) > 1:
		r.neighborhood(strings.Join(parts[1:], " "))
	default:
		fmt.Fprintln(r.out, replUsage)
	}
	return false
}

func (r *REPL) similar(word string) {
	var results []Scored
	for _, k := range r.engine.Keys(word) {
		s, err := r.engine.SimilarWords(k, replTopN)
		if err != nil {
			r.fail(err)
			return
		}
		results = append(results, s...)
	}
	if len(results) == 0 {
		fmt.Fprintf(r.out, "No similar words found for '%s'\n", word)
		return
	}
	fmt.Fprintf(r.out, "\nWords most similar to '%s':\n", word)
	for _, s := range results[:min(len(results), replTopN)] {
		fmt.Fprintf(r.out, "- %s (score: %.3f)\n", s.Key, s.Score)
	}
}

func (r *REPL) paths(w1, w2 string) {
	var found [][]graph.Key
	for _, a := range r.engine.Keys(w1) {
		for _, b := range r.engine.Keys(w2) {
			if len(found) >= replMaxPaths {
				break
			}
			ps, err := r.engine.ConnectingPaths(a, b, replMaxPaths-len(found))
			if errors.Is(err, domain.ErrNoPath) {
				continue
			}
			if err != nil {
				r.fail(err)
				return
			}
			found = append(found, ps...)
		}
	}
	if len(found) == 0 {
		fmt.Fprintf(r.out, "No paths found between '%s' and '%s'\n", w1, w2)
		return
	}
	fmt.Fprintf(r.out, "\nPaths connecting '%s' to '%s':\n", w1, w2)
	for i, p := range found {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, joinKeys(p, " -> "))
	}
}

func (r *REPL) neighborhood(word string) {
	keys := r.engine.Keys(word)
	if len(keys) == 0 {
		fmt.Fprintf(r.out, "No neighborhood found for '%s'\n", word)
		return
	}
	for _, k := range keys {
		layers, err := r.engine.Layers(k, replRadius)
		if err != nil {
			r.fail(err)
			return
		}
		fmt.Fprintf(r.out, "\nSemantic neighborhood of '%s':\n", k)
		for d := 1; d < len(layers); d++ {
			unit := "hop"
			if d > 1 {
				unit = "hops"
			}
			shown := layers[d][:min(len(layers[d]), replLayerShow)]
			more := ""
			if len(layers[d]) > replLayerShow {
				more = "..."
			}
			fmt.Fprintf(r.out, "  %d %s away: %s%s\n", d, unit, joinKeys(shown, ", "), more)
		}
	}
}

func (r *REPL) fail(err error) {
	fmt.Fprintf(r.out, "Error: %v\n", err)
}

func joinKeys(keys []graph.Key, sep string) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = k.String()
	}
	return strings.Join(s, sep)
}
