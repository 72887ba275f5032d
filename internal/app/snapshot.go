package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordgraph/internal/adapter/postgres"
	"github.com/heartmarshall/wordgraph/internal/adapter/postgres/snapshot"
	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/metrics"
)

// LatestSnapshot is the snapshot reference that selects the newest run.
const LatestSnapshot = "latest"

// snapshots connects to the snapshot store on first use, applying pending
// migrations.
func (a *App) snapshots(ctx context.Context) (*snapshot.Repo, error) {
	if !a.cfg.Database.Enabled() {
		return nil, domain.NewValidationError("database.dsn", "snapshot store is not configured")
	}
	if a.pool == nil {
		pool, err := postgres.NewPool(ctx, a.cfg.Database, a.log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool, a.log); err != nil {
			pool.Close()
			return nil, err
		}
		a.pool = pool
	}
	return snapshot.New(a.pool, postgres.NewTxManager(a.pool)), nil
}

// ConnectStore opens the snapshot store when one is configured, so that
// health checks can report it. It is a no-op otherwise.
func (a *App) ConnectStore(ctx context.Context) error {
	if !a.cfg.Database.Enabled() {
		return nil
	}
	_, err := a.snapshots(ctx)
	return err
}

// SaveSnapshot stores g as a new run.
func (a *App) SaveSnapshot(ctx context.Context, g *graph.Graph) (snapshot.Run, error) {
	repo, err := a.snapshots(ctx)
	if err != nil {
		return snapshot.Run{}, err
	}
	seed, depth := graphMeta(g)
	run, err := repo.Save(ctx, g, snapshot.Meta{Seed: seed, MaxDepth: depth})
	if err != nil {
		return snapshot.Run{}, fmt.Errorf("save snapshot: %w", err)
	}
	a.log.Info("snapshot saved",
		slog.String("id", run.ID.String()),
		slog.String("seed", run.Seed),
		slog.Int("nodes", run.NodeCount),
		slog.Int("edges", run.EdgeCount),
	)
	return run, nil
}

// LoadSnapshot loads the run named by ref: a run ID or "latest".
func (a *App) LoadSnapshot(ctx context.Context, ref string) (*graph.Graph, snapshot.Run, error) {
	repo, err := a.snapshots(ctx)
	if err != nil {
		return nil, snapshot.Run{}, err
	}

	var id uuid.UUID
	if strings.EqualFold(ref, LatestSnapshot) {
		run, err := repo.Latest(ctx)
		if err != nil {
			return nil, snapshot.Run{}, fmt.Errorf("latest snapshot: %w", err)
		}
		id = run.ID
	} else if id, err = parseRunID(ref); err != nil {
		return nil, snapshot.Run{}, err
	}

	g, run, err := repo.Load(ctx, id)
	if err != nil {
		return nil, snapshot.Run{}, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	metrics.ObserveGraph(g.NodeCount(), g.EdgeCount())
	return g, run, nil
}

// ListSnapshots returns the newest runs first.
func (a *App) ListSnapshots(ctx context.Context, limit int) ([]snapshot.Run, error) {
	repo, err := a.snapshots(ctx)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, limit)
}

// DeleteSnapshot removes a run and its nodes and edges.
func (a *App) DeleteSnapshot(ctx context.Context, ref string) error {
	repo, err := a.snapshots(ctx)
	if err != nil {
		return err
	}
	id, err := parseRunID(ref)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	a.log.Info("snapshot deleted", slog.String("id", id.String()))
	return nil
}

func parseRunID(ref string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", fmt.Sprintf("invalid run id %q", ref))
	}
	return id, nil
}
