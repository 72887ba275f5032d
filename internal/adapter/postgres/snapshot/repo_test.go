package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/heartmarshall/wordgraph/internal/adapter/postgres"
	"github.com/heartmarshall/wordgraph/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return New(pool, postgres.NewTxManager(pool))
}

// diamond builds ease -> {comfort, relief} -> rest.
func diamond(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	noun := func(l string) graph.Key { return graph.NewKey(l, domain.PartOfSpeechNoun) }
	nodes := []struct {
		key   graph.Key
		depth int
		defs  []string
	}{
		{noun("ease"), 0, []string{"Freedom from difficulty."}},
		{noun("comfort"), 1, []string{"A state of ease.", "Solace."}},
		{graph.NewKey("relief", domain.PartOfSpeechNoun), 1, nil},
		{graph.NewKey("rest", domain.PartOfSpeechVerb), 2, nil},
	}
	for _, n := range nodes {
		_, err := g.AddNode(n.key, n.defs, n.depth)
		require.NoError(t, err)
	}
	for _, e := range []graph.Edge{
		{Source: noun("ease"), Target: noun("comfort"), DefinitionIndex: 0, POS: domain.PartOfSpeechNoun},
		{Source: noun("ease"), Target: noun("relief"), DefinitionIndex: 0, POS: domain.PartOfSpeechNoun},
		{Source: noun("comfort"), Target: graph.NewKey("rest", domain.PartOfSpeechVerb), DefinitionIndex: 1, POS: domain.PartOfSpeechNoun},
		{Source: noun("relief"), Target: graph.NewKey("rest", domain.PartOfSpeechVerb), DefinitionIndex: 0, POS: domain.PartOfSpeechNoun},
	} {
		_, err := g.AddEdge(e)
		require.NoError(t, err)
	}
	g.Freeze()
	return g
}

func TestRepo_SaveLoad(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	g := diamond(t)

	run, err := repo.Save(ctx, g, Meta{Seed: "ease", MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, run.NodeCount)
	assert.Equal(t, 4, run.EdgeCount)

	loaded, got, err := repo.Load(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "ease", got.Seed)
	assert.True(t, loaded.Frozen())
	assert.True(t, g.Equal(loaded), "loaded graph differs from saved graph")
}

func TestRepo_SaveEmptyGraph(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	g := graph.New()
	g.Freeze()

	run, err := repo.Save(ctx, g, Meta{Seed: "nothing"})
	require.NoError(t, err)

	loaded, _, err := repo.Load(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.NodeCount())
}

func TestRepo_SaveRequiresFrozen(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Save(context.Background(), graph.New(), Meta{Seed: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_NotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, _, err := repo.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_ListAndDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first, err := repo.Save(ctx, diamond(t), Meta{Seed: "first", MaxDepth: 1})
	require.NoError(t, err)
	second, err := repo.Save(ctx, diamond(t), Meta{Seed: "second", MaxDepth: 1})
	require.NoError(t, err)

	runs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	ids := make([]uuid.UUID, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, latest.CreatedAt.Before(second.CreatedAt))

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var nodes int
	err = repo.db.QueryRow(ctx, `SELECT count(*) FROM graph_nodes WHERE run_id = $1`, first.ID).Scan(&nodes)
	require.NoError(t, err)
	assert.Zero(t, nodes, "nodes must be removed with their run")
}
