// Package app wires configuration, adapters and domain packages into the
// operations exposed by the wordgraph command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordgraph/internal/adapter/cache"
	"github.com/heartmarshall/wordgraph/internal/adapter/provider/freedict"
	"github.com/heartmarshall/wordgraph/internal/builder"
	"github.com/heartmarshall/wordgraph/internal/config"
	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/metrics"
	"github.com/heartmarshall/wordgraph/internal/search"
	"github.com/heartmarshall/wordgraph/internal/source"
)

// App holds the loaded configuration and the resources opened on demand by
// its operations. Call Close when done.
type App struct {
	cfg *config.Config
	log *slog.Logger
	in  io.Reader
	out io.Writer

	pool *pgxpool.Pool
}

// New creates an App. Command output goes to out; interactive input is read
// from in.
func New(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) *App {
	return &App{cfg: cfg, log: logger, in: in, out: out}
}

// Config returns the configuration the App was created with.
func (a *App) Config() *config.Config { return a.cfg }

// Close releases the database pool, if one was opened.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

// BuildResult describes a finished build.
type BuildResult struct {
	Graph  *graph.Graph
	Stats  builder.Stats
	Source source.Stats
	// Path is where the graph was written; empty when not saved.
	Path string
}

// Build constructs a graph from the configured seed and limits and writes it
// to the configured output path.
func (a *App) Build(ctx context.Context) (BuildResult, error) {
	bc := a.cfg.Build

	src, closeStore, err := a.openSource()
	if err != nil {
		return BuildResult{}, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.log.Warn("close cache", slog.String("error", err.Error()))
		}
	}()

	a.log.Info("building graph",
		slog.String("seed", bc.Seed),
		slog.Int("max_depth", bc.MaxDepth),
		slog.Int("max_nodes_per_definition", bc.MaxNodesPerDefinition),
		slog.Int("max_nodes", bc.MaxNodes),
		slog.String("cache", a.cfg.Cache.Backend),
		slog.Bool("offline", a.cfg.Dictionary.Offline),
	)

	g, stats, err := builder.New(src, a.log).Build(ctx, bc.Seed, builder.Options{
		MaxDepth:              bc.MaxDepth,
		MaxNodesPerDefinition: bc.MaxNodesPerDefinition,
		MaxDefinitionsPerNode: bc.MaxDefinitionsPerNode,
		MaxNodes:              bc.MaxNodes,
		TimeBudget:            bc.TimeBudget,
		ContextKeywords:       bc.ContextKeywords(),
	})
	if err != nil {
		return BuildResult{}, fmt.Errorf("build graph: %w", err)
	}

	res := BuildResult{Graph: g, Stats: stats, Source: src.Stats()}
	if bc.OutputPath != "" {
		if err := graph.WriteFile(bc.OutputPath, g); err != nil {
			return res, fmt.Errorf("save graph: %w", err)
		}
		res.Path = bc.OutputPath
	}

	a.log.Info("graph built",
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()),
		slog.Int("expanded", stats.Expanded),
		slog.Int("lookup_failures", stats.LookupFailures),
		slog.String("stopped", string(stats.Stopped)),
		slog.Duration("duration", stats.Duration),
		slog.Int64("cache_hits", res.Source.CacheHits),
		slog.Int64("fetched", res.Source.Fetched),
		slog.String("path", res.Path),
	)
	return res, nil
}

// LoadGraph reads a graph file written by Build.
func (a *App) LoadGraph(path string) (*graph.Graph, error) {
	g, err := graph.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	metrics.ObserveGraph(g.NodeCount(), g.EdgeCount())
	a.log.Debug("graph loaded",
		slog.String("path", path),
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()),
	)
	return g, nil
}

// Engine creates a search engine over g with the configured options.
func (a *App) Engine(g *graph.Graph) (*search.Engine, error) {
	dir, err := search.ParseDirection(a.cfg.Search.Direction)
	if err != nil {
		return nil, err
	}
	return search.New(g, search.Options{
		Direction: dir,
		Alpha:     a.cfg.Search.Alpha,
		MaxPaths:  a.cfg.Search.MaxPaths,
	})
}

// Search runs the interactive search loop over g.
func (a *App) Search(ctx context.Context, g *graph.Graph) error {
	engine, err := a.Engine(g)
	if err != nil {
		return err
	}
	return search.NewREPL(engine, a.in, a.out).Run(ctx)
}

// Export writes the neighborhood of word within radius hops as Graphviz DOT.
func (a *App) Export(g *graph.Graph, word string, radius int, w io.Writer) error {
	engine, err := a.Engine(g)
	if err != nil {
		return err
	}
	keys := engine.Keys(word)
	if len(keys) == 0 {
		return fmt.Errorf("%q: %w", word, domain.ErrNodeNotFound)
	}
	sub, err := engine.NeighborhoodGraph(keys, radius)
	if err != nil {
		return err
	}
	return graph.WriteDOT(w, sub, word)
}

// openSource assembles the cache-first definition source. The returned
// function closes the persistent cache.
func (a *App) openSource() (*source.Source, func() error, error) {
	var (
		store   source.Store
		closeFn = func() error { return nil }
	)

	switch a.cfg.Cache.Backend {
	case config.CacheBackendFile:
		fs, err := cache.OpenFile(a.cfg.Cache.Path, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("open file cache: %w", err)
		}
		store, closeFn = fs, fs.Close
	case config.CacheBackendBadger:
		bs, err := cache.OpenBadger(cache.BadgerConfig{Path: a.cfg.Cache.Path, Logger: a.log}, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger cache: %w", err)
		}
		store, closeFn = bs, bs.Close
	case config.CacheBackendNone:
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", a.cfg.Cache.Backend)
	}

	if a.cfg.Dictionary.Offline {
		if store == nil {
			return nil, nil, errors.New("offline mode needs a cache backend")
		}
		return source.New(nil, store, a.log), closeFn, nil
	}

	d := a.cfg.Dictionary
	upstream := freedict.NewProvider(freedict.Options{
		BaseURL:           d.BaseURL,
		Timeout:           d.Timeout,
		RequestsPerSecond: d.RequestsPerSecond,
		RetryDelay:        d.RetryDelay,
		MaxAttempts:       d.MaxAttempts,
	}, a.log)
	return source.New(upstream, store, a.log), closeFn, nil
}

// graphMeta recovers the build parameters of a stored graph: the seed is the
// first node and the depth the deepest node.
func graphMeta(g *graph.Graph) (seed string, maxDepth int) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return "", 0
	}
	depths := make([]int, len(nodes))
	for i, n := range nodes {
		depths[i] = n.Depth
	}
	return nodes[0].Key.Lemma, slices.Max(depths)
}
