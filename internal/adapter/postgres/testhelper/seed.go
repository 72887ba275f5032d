package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedRun inserts an empty graph run and returns its ID.
func SeedRun(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO graph_runs (id, seed, max_depth, node_count, edge_count)
		 VALUES ($1, $2, 0, 0, 0)`,
		id, "seed-"+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("SeedRun: %v", err)
	}
	return id
}

// RunExists checks whether a graph run row with the given ID exists.
func RunExists(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM graph_runs WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("RunExists query: %v", err)
	}
	return exists
}
