// Package builder grows a semantic graph from a seed word by following
// dictionary definitions breadth-first.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/metrics"
	"github.com/heartmarshall/wordgraph/internal/parser"
	"github.com/heartmarshall/wordgraph/internal/provider"
)

// Source answers dictionary lookups. Implementations report a missing word
// with domain.ErrLookupNotFound and a transport failure with
// domain.ErrSourceUnavailable.
type Source interface {
	Lookup(ctx context.Context, word string) (*provider.DictionaryResult, error)
}

// Options bounds a build.
type Options struct {
	// MaxDepth is the depth at which nodes stop being expanded.
	MaxDepth int
	// MaxNodesPerDefinition caps the candidates taken from one definition.
	MaxNodesPerDefinition int
	// MaxDefinitionsPerNode caps the definitions expanded per node; 0 means all.
	MaxDefinitionsPerNode int
	// MaxNodes stops the build once the graph holds this many nodes; 0 means
	// no limit.
	MaxNodes int
	// TimeBudget stops the build after this much time; 0 means no limit.
	TimeBudget time.Duration
	// ContextKeywords are preferred when candidates are truncated.
	ContextKeywords []string
}

func (o Options) validate() error {
	var errs []domain.FieldError
	if o.MaxDepth < 0 {
		errs = append(errs, domain.FieldError{Field: "max_depth", Message: "must be >= 0"})
	}
	if o.MaxNodesPerDefinition <= 0 {
		errs = append(errs, domain.FieldError{Field: "max_nodes_per_definition", Message: "must be > 0"})
	}
	if o.MaxDefinitionsPerNode < 0 {
		errs = append(errs, domain.FieldError{Field: "max_definitions_per_node", Message: "must be >= 0"})
	}
	if o.MaxNodes < 0 {
		errs = append(errs, domain.FieldError{Field: "max_nodes", Message: "must be >= 0"})
	}
	if o.TimeBudget < 0 {
		errs = append(errs, domain.FieldError{Field: "time_budget", Message: "must be >= 0"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StopReason explains why a build ended before the frontier was empty.
type StopReason string

const (
	StopNone       StopReason = ""
	StopMaxNodes   StopReason = "max_nodes"
	StopTimeBudget StopReason = "time_budget"
)

// Stats describes a finished build.
type Stats struct {
	Expanded             int
	Lookups              int
	LookupFailures       int
	Candidates           int
	Truncated            int
	SelfReferences       int
	MalformedDefinitions int
	Stopped              StopReason
	Duration             time.Duration
}

// Builder builds graphs from a Source. A Builder holds no per-build state
// and may be reused.
type Builder struct {
	src Source
	log *slog.Logger
	now func() time.Time
}

// New creates a Builder.
func New(src Source, logger *slog.Logger) *Builder {
	return &Builder{src: src, log: logger.With("component", "builder"), now: time.Now}
}

type frontierItem struct {
	key   graph.Key
	depth int
}

// run carries the state of a single Build call.
type run struct {
	*Builder
	opts     Options
	parser   *parser.Parser
	g        *graph.Graph
	frontier []frontierItem
	queued   map[graph.Key]bool
	stats    Stats
	start    time.Time
}

// Build expands seed breadth-first. Every node is expanded at most once, at
// the depth it was first discovered, which is its minimum depth. Nodes at
// MaxDepth are kept as leaves. Lookup failures leave the affected node
// without definitions. The returned graph is frozen. A cancelled context
// aborts the build with the context's error.
func (b *Builder) Build(ctx context.Context, seed string, opts Options) (*graph.Graph, Stats, error) {
	if err := opts.validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("build options: %w", err)
	}
	seedWord := domain.NormalizeText(seed)
	if seedWord == "" {
		return nil, Stats{}, fmt.Errorf("build: %w", domain.NewValidationError("seed", "required"))
	}

	r := &run{
		Builder: b,
		opts:    opts,
		parser:  parser.New(opts.ContextKeywords),
		g:       graph.New(),
		queued:  make(map[graph.Key]bool),
		start:   b.now(),
	}

	b.log.InfoContext(ctx, "build started",
		slog.String("seed", seedWord),
		slog.Int("max_depth", opts.MaxDepth),
		slog.Int("max_nodes_per_definition", opts.MaxNodesPerDefinition),
		slog.Int("max_nodes", opts.MaxNodes),
	)

	if err := r.addSeed(ctx, seedWord); err != nil {
		return nil, r.stats, err
	}
	if err := r.loop(ctx); err != nil {
		return nil, r.stats, err
	}

	r.g.Freeze()
	r.stats.Duration = b.now().Sub(r.start)
	metrics.BuildDuration.Observe(r.stats.Duration.Seconds())
	metrics.ObserveGraph(r.g.NodeCount(), r.g.EdgeCount())

	b.log.InfoContext(ctx, "build finished",
		slog.Int("nodes", r.g.NodeCount()),
		slog.Int("edges", r.g.EdgeCount()),
		slog.Int("expanded", r.stats.Expanded),
		slog.Int("lookup_failures", r.stats.LookupFailures),
		slog.Int("truncated", r.stats.Truncated),
		slog.String("stopped", string(r.stats.Stopped)),
		slog.Duration("duration", r.stats.Duration),
	)
	return r.g, r.stats, nil
}

func (r *run) addSeed(ctx context.Context, word string) error {
	res, err := r.lookup(ctx, word)
	if err != nil {
		return err
	}

	pos, ok := res.PrimaryPOS()
	if !ok {
		pos = domain.PartOfSpeechNoun
	}
	key := graph.NewKey(word, pos)
	if _, err := r.g.AddNode(key, res.DefinitionsFor(pos), 0); err != nil {
		return fmt.Errorf("add seed: %w", err)
	}
	r.enqueue(key, 0)
	return nil
}

func (r *run) loop(ctx context.Context) error {
	for len(r.frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.opts.TimeBudget > 0 && r.now().Sub(r.start) >= r.opts.TimeBudget {
			r.stats.Stopped = StopTimeBudget
			r.log.WarnContext(ctx, "time budget exhausted", slog.Int("frontier", len(r.frontier)))
			return nil
		}

		item := r.frontier[0]
		r.frontier = r.frontier[1:]
		if item.depth >= r.opts.MaxDepth {
			continue
		}

		stop, err := r.expand(ctx, item)
		if err != nil {
			return err
		}
		if stop {
			r.log.WarnContext(ctx, "node budget exhausted", slog.Int("max_nodes", r.opts.MaxNodes))
			return nil
		}
	}
	return nil
}

// expand links item to the candidates of its definitions. It reports
// whether the node budget stopped the build.
func (r *run) expand(ctx context.Context, item frontierItem) (bool, error) {
	node, _ := r.g.Node(item.key)
	r.stats.Expanded++

	defs := node.Definitions
	if r.opts.MaxDefinitionsPerNode > 0 && len(defs) > r.opts.MaxDefinitionsPerNode {
		defs = defs[:r.opts.MaxDefinitionsPerNode]
	}

	for i, def := range defs {
		if err := parser.Check(def); err != nil {
			r.stats.MalformedDefinitions++
			r.log.DebugContext(ctx, "skipping definition", slog.String("node", item.key.String()), slog.String("error", err.Error()))
			continue
		}

		cands := r.parser.Parse(def, item.key.POS, item.key.Lemma)
		r.stats.Candidates += len(cands)
		if len(cands) > r.opts.MaxNodesPerDefinition {
			r.stats.Truncated += len(cands) - r.opts.MaxNodesPerDefinition
			cands = cands[:r.opts.MaxNodesPerDefinition]
		}

		for _, c := range cands {
			stop, err := r.link(ctx, item, i, c)
			if err != nil || stop {
				return stop, err
			}
		}
	}
	return false, nil
}

func (r *run) link(ctx context.Context, from frontierItem, defIndex int, c parser.Candidate) (bool, error) {
	res, err := r.lookup(ctx, c.Lemma)
	if err != nil {
		return false, err
	}
	pos := resolvePOS(res, c.PartOfSpeech)
	key := graph.NewKey(c.Lemma, pos)

	if key == from.key {
		r.stats.SelfReferences++
		return false, nil
	}

	if !r.g.Has(key) {
		if r.opts.MaxNodes > 0 && r.g.NodeCount() >= r.opts.MaxNodes {
			r.stats.Stopped = StopMaxNodes
			return true, nil
		}
		if _, err := r.g.AddNode(key, res.DefinitionsFor(pos), from.depth+1); err != nil {
			return false, fmt.Errorf("add node %s: %w", key, err)
		}
	}

	edge := graph.Edge{Source: from.key, Target: key, DefinitionIndex: defIndex, POS: from.key.POS}
	if _, err := r.g.AddEdge(edge); err != nil {
		return false, fmt.Errorf("add edge %s -> %s: %w", from.key, key, err)
	}

	r.enqueue(key, from.depth+1)
	return false, nil
}

func (r *run) enqueue(key graph.Key, depth int) {
	if r.queued[key] {
		return
	}
	r.queued[key] = true
	r.frontier = append(r.frontier, frontierItem{key: key, depth: depth})
}

// lookup returns nil (not an error) when the word cannot be looked up; the
// node then becomes a leaf. Only context errors are returned.
func (r *run) lookup(ctx context.Context, word string) (*provider.DictionaryResult, error) {
	r.stats.Lookups++
	res, err := r.src.Lookup(ctx, word)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	r.stats.LookupFailures++
	if domain.IsLookupFailure(err) {
		r.log.DebugContext(ctx, "lookup failed", slog.String("word", word), slog.String("error", err.Error()))
	} else {
		r.log.WarnContext(ctx, "unexpected lookup error", slog.String("word", word), slog.String("error", err.Error()))
	}
	return nil, nil
}

// resolvePOS picks the sense of a candidate: the tagged part of speech if
// the word's entry has it, else the entry's first content sense, else the
// tagged part of speech.
func resolvePOS(res *provider.DictionaryResult, tagged domain.PartOfSpeech) domain.PartOfSpeech {
	if res.HasPOS(tagged) {
		return tagged
	}
	if p, ok := res.PrimaryPOS(); ok {
		return p
	}
	return tagged
}
