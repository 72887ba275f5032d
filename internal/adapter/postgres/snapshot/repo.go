// Package snapshot stores frozen graphs in PostgreSQL. Each saved graph is a
// run; nodes and edges keep their insertion order so a loaded graph is
// structurally equal to the saved one.
package snapshot

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/wordgraph/internal/adapter/postgres"
	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
)

const (
	tableRuns  = "graph_runs"
	tableNodes = "graph_nodes"
	tableEdges = "graph_edges"

	defaultListLimit = 20
	maxListLimit     = 200
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Run describes a stored graph.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Seed      string    `json:"seed"`
	MaxDepth  int       `json:"max_depth"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Meta is the build information saved alongside a graph.
type Meta struct {
	Seed     string
	MaxDepth int
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo provides graph snapshot persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
	tx txManager
}

// New creates a new snapshot repository. db is usually a *pgxpool.Pool.
func New(db postgres.Querier, tx txManager) *Repo {
	return &Repo{db: db, tx: tx}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Save stores g as a new run in a single transaction. g must be frozen.
func (r *Repo) Save(ctx context.Context, g *graph.Graph, meta Meta) (Run, error) {
	if !g.Frozen() {
		return Run{}, domain.NewValidationError("graph", "must be frozen")
	}

	run := Run{
		ID:        uuid.New(),
		Seed:      meta.Seed,
		MaxDepth:  meta.MaxDepth,
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		sql, args, err := psql.Insert(tableRuns).
			Columns("id", "seed", "max_depth", "node_count", "edge_count", "created_at").
			Values(run.ID, run.Seed, run.MaxDepth, run.NodeCount, run.EdgeCount, run.CreatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert run: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return postgres.MapError(err, "graph_run", run.ID)
		}

		batch := &pgx.Batch{}
		for i, n := range g.Nodes() {
			defs := n.Definitions
			if defs == nil {
				defs = []string{}
			}
			sql, args, err := psql.Insert(tableNodes).
				Columns("run_id", "position", "lemma", "pos", "depth", "definitions").
				Values(run.ID, i, n.Key.Lemma, string(n.Key.POS), n.Depth, defs).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert node: %w", err)
			}
			batch.Queue(sql, args...)
		}
		for i, e := range g.Edges() {
			sql, args, err := psql.Insert(tableEdges).
				Columns("run_id", "position", "source_lemma", "source_pos", "target_lemma", "target_pos", "definition_index", "pos").
				Values(run.ID, i, e.Source.Lemma, string(e.Source.POS), e.Target.Lemma, string(e.Target.POS), e.DefinitionIndex, string(e.POS)).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert edge: %w", err)
			}
			batch.Queue(sql, args...)
		}

		if batch.Len() == 0 {
			return nil
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return postgres.MapError(err, "graph_run", run.ID)
		}
		return nil
	})
	if err != nil {
		return Run{}, fmt.Errorf("save graph: %w", err)
	}
	return run, nil
}

// Delete removes a run with its nodes and edges.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Delete(tableRuns).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete run: %w", err)
	}
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "graph_run", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("graph_run %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the run metadata for id.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	sql, args, err := runColumns().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Run{}, fmt.Errorf("build select run: %w", err)
	}
	run, err := scanRun(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return Run{}, postgres.MapError(err, "graph_run", id)
	}
	return run, nil
}

// Latest returns the most recently saved run.
func (r *Repo) Latest(ctx context.Context) (Run, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("graph_run latest: %w", domain.ErrNotFound)
	}
	return runs[0], nil
}

// List returns up to limit runs, newest first. A non-positive limit uses the
// default; the limit is capped.
func (r *Repo) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	sql, args, err := runColumns().OrderBy("created_at DESC", "id").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list runs: %w", err)
	}
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list graph_runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan graph_run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list graph_runs: %w", err)
	}
	return runs, nil
}

// Load rebuilds the frozen graph stored as run id. The run row is locked for
// the duration of the read, and a graph whose rows do not add up to the
// run's counts is rejected with domain.ErrSerialization.
func (r *Repo) Load(ctx context.Context, id uuid.UUID) (*graph.Graph, Run, error) {
	var (
		g   *graph.Graph
		run Run
	)
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		sql, args, err := runColumns().Where(sq.Eq{"id": id}).Suffix("FOR SHARE").ToSql()
		if err != nil {
			return fmt.Errorf("build select run: %w", err)
		}
		if run, err = scanRun(q.QueryRow(ctx, sql, args...)); err != nil {
			return postgres.MapError(err, "graph_run", id)
		}

		g = graph.New()
		if err := loadNodes(ctx, q, id, g); err != nil {
			return err
		}
		if err := loadEdges(ctx, q, id, g); err != nil {
			return err
		}
		if g.NodeCount() != run.NodeCount || g.EdgeCount() != run.EdgeCount {
			return fmt.Errorf("graph_run %s: loaded %d nodes and %d edges, run has %d and %d: %w",
				id, g.NodeCount(), g.EdgeCount(), run.NodeCount, run.EdgeCount, domain.ErrSerialization)
		}
		return nil
	})
	if err != nil {
		return nil, Run{}, fmt.Errorf("load graph: %w", err)
	}
	g.Freeze()
	return g, run, nil
}

func loadNodes(ctx context.Context, q postgres.Querier, id uuid.UUID, g *graph.Graph) error {
	sql, args, err := psql.Select("lemma", "pos", "depth", "definitions").
		From(tableNodes).
		Where(sq.Eq{"run_id": id}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return fmt.Errorf("build select nodes: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("select graph_nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			lemma, pos string
			depth      int
			defs       []string
		)
		if err := rows.Scan(&lemma, &pos, &depth, &defs); err != nil {
			return fmt.Errorf("scan graph_node: %w", err)
		}
		key := graph.Key{Lemma: lemma, POS: domain.PartOfSpeech(pos)}
		if _, err := g.AddNode(key, defs, depth); err != nil {
			return fmt.Errorf("graph_run %s node %s: %w", id, key, err)
		}
	}
	return rows.Err()
}

func loadEdges(ctx context.Context, q postgres.Querier, id uuid.UUID, g *graph.Graph) error {
	sql, args, err := psql.Select("source_lemma", "source_pos", "target_lemma", "target_pos", "definition_index", "pos").
		From(tableEdges).
		Where(sq.Eq{"run_id": id}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return fmt.Errorf("build select edges: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("select graph_edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			srcLemma, srcPOS, dstLemma, dstPOS, pos string
			defIndex                                int
		)
		if err := rows.Scan(&srcLemma, &srcPOS, &dstLemma, &dstPOS, &defIndex, &pos); err != nil {
			return fmt.Errorf("scan graph_edge: %w", err)
		}
		e := graph.Edge{
			Source:          graph.Key{Lemma: srcLemma, POS: domain.PartOfSpeech(srcPOS)},
			Target:          graph.Key{Lemma: dstLemma, POS: domain.PartOfSpeech(dstPOS)},
			DefinitionIndex: defIndex,
			POS:             domain.PartOfSpeech(pos),
		}
		if _, err := g.AddEdge(e); err != nil {
			return fmt.Errorf("graph_run %s edge %s -> %s: %w", id, e.Source, e.Target, err)
		}
	}
	return rows.Err()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func runColumns() sq.SelectBuilder {
	return psql.Select("id", "seed", "max_depth", "node_count", "edge_count", "created_at").From(tableRuns)
}

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Seed, &run.MaxDepth, &run.NodeCount, &run.EdgeCount, &run.CreatedAt)
	return run, err
}
