package validate

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/metrics"
)

// Scorer scores word pairs against a graph. *search.Engine implements it.
type Scorer interface {
	Resolve(word string) []graph.Key
	WordSimilarity(w1, w2 string) (float64, bool, error)
}

// PairResult is the outcome for one benchmark pair.
type PairResult struct {
	Pair
	InGraph1 bool    `json:"in_graph1"`
	InGraph2 bool    `json:"in_graph2"`
	Score    float64 `json:"score"`
}

// Found reports whether both words have a node in the graph.
func (r PairResult) Found() bool { return r.InGraph1 && r.InGraph2 }

// Range is the closed interval spanned by a set of scores.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Result summarizes a validation run.
type Result struct {
	Total       int          `json:"total"`
	Found       int          `json:"found"`
	Missing     int          `json:"missing"`
	Correlation float64      `json:"correlation"`
	PValue      float64      `json:"p_value"`
	HumanRange  Range        `json:"human_range"`
	GraphRange  Range        `json:"graph_range"`
	Pairs       []PairResult `json:"pairs"`
}

// MissingPairs returns the pairs with at least one word absent from the
// graph, in benchmark order.
func (r Result) MissingPairs() []PairResult {
	var out []PairResult
	for _, p := range r.Pairs {
		if !p.Found() {
			out = append(out, p)
		}
	}
	return out
}

// Validator compares graph similarity with human judgments.
type Validator struct {
	log     *slog.Logger
	workers int
}

// New creates a Validator that scores up to workers pairs concurrently.
func New(logger *slog.Logger, workers int) *Validator {
	return &Validator{log: logger.With("component", "validator"), workers: max(1, workers)}
}

// Validate scores every pair and correlates the scores of pairs found in
// the graph with their human scores. Pairs are scored concurrently; the
// scorer must be safe for concurrent reads. Fewer than two found pairs
// return domain.ErrInsufficientPairs along with the per-pair details.
func (v *Validator) Validate(ctx context.Context, scorer Scorer, pairs []Pair) (Result, error) {
	res := Result{Total: len(pairs), Pairs: make([]PairResult, len(pairs))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pr := PairResult{
				Pair:     p,
				InGraph1: len(scorer.Resolve(p.Word1)) > 0,
				InGraph2: len(scorer.Resolve(p.Word2)) > 0,
			}
			if pr.Found() {
				score, _, err := scorer.WordSimilarity(p.Word1, p.Word2)
				if err != nil {
					return fmt.Errorf("score %s/%s: %w", p.Word1, p.Word2, err)
				}
				pr.Score = score
			}
			res.Pairs[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var human, scores []float64
	for _, pr := range res.Pairs {
		if !pr.Found() {
			v.log.DebugContext(ctx, "pair missing from graph",
				slog.String("word1", pr.Word1), slog.Bool("in_graph1", pr.InGraph1),
				slog.String("word2", pr.Word2), slog.Bool("in_graph2", pr.InGraph2))
			continue
		}
		human = append(human, pr.Human)
		scores = append(scores, pr.Score)
	}
	res.Found = len(human)
	res.Missing = res.Total - res.Found
	metrics.ValidationPairs.WithLabelValues("found").Set(float64(res.Found))
	metrics.ValidationPairs.WithLabelValues("missing").Set(float64(res.Missing))

	if res.Found < 2 {
		v.log.WarnContext(ctx, "not enough overlapping pairs",
			slog.Int("total", res.Total), slog.Int("found", res.Found))
		return res, fmt.Errorf("found %d of %d pairs: %w", res.Found, res.Total, domain.ErrInsufficientPairs)
	}

	rho, p, err := Spearman(human, scores)
	if err != nil {
		return res, err
	}
	res.Correlation, res.PValue = rho, p
	res.HumanRange = span(human)
	res.GraphRange = span(scores)
	metrics.ValidationCorrelation.Set(rho)

	v.log.InfoContext(ctx, "validation finished",
		slog.Int("total", res.Total),
		slog.Int("found", res.Found),
		slog.Float64("spearman", rho),
		slog.Float64("p_value", p),
	)
	return res, nil
}

func span(v []float64) Range {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, x := range v {
		r.Min = min(r.Min, x)
		r.Max = max(r.Max, x)
	}
	return r
}
