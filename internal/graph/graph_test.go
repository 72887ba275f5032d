package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

func noun(lemma string) Key { return NewKey(lemma, domain.PartOfSpeechNoun) }

// diamond builds A→B, A→C, B→D, C→D.
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for i, k := range []Key{noun("a"), noun("b"), noun("c"), noun("d")} {
		depth := min(i, 1)
		if k == noun("d") {
			depth = 2
		}
		_, err := g.AddNode(k, []string{"definition of " + k.Lemma}, depth)
		require.NoError(t, err)
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		_, err := g.AddEdge(Edge{Source: noun(e[0]), Target: noun(e[1]), POS: domain.PartOfSpeechNoun})
		require.NoError(t, err)
	}
	return g
}

func TestKey_StringAndParse(t *testing.T) {
	t.Parallel()

	k := NewKey("  Ease ", domain.PartOfSpeechNoun)
	assert.Equal(t, "ease/noun", k.String())

	parsed, err := ParseKey("ease/noun")
	require.NoError(t, err)
	assert.Equal(t, k, parsed)

	parsed, err = ParseKey("ice cream/verb")
	require.NoError(t, err)
	assert.Equal(t, Key{Lemma: "ice cream", POS: domain.PartOfSpeechVerb}, parsed)

	for _, bad := range []string{"", "ease", "ease/", "/noun", "the/determiner"} {
		_, err := ParseKey(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, "ParseKey(%q)", bad)
	}
}

func TestGraph_AddNode_KeepsMinimumDepth(t *testing.T) {
	t.Parallel()

	g := New()
	created, err := g.AddNode(noun("comfort"), []string{"a state of ease"}, 2)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = g.AddNode(noun("comfort"), []string{"ignored"}, 1)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = g.AddNode(noun("comfort"), nil, 3)
	require.NoError(t, err)
	assert.False(t, created)

	n, ok := g.Node(noun("comfort"))
	require.True(t, ok)
	assert.Equal(t, 1, n.Depth)
	assert.Equal(t, []string{"a state of ease"}, n.Definitions)
	assert.Equal(t, 1, g.NodeCount())
}

func TestGraph_AddNode_Invalid(t *testing.T) {
	t.Parallel()

	g := New()
	_, err := g.AddNode(Key{POS: domain.PartOfSpeechNoun}, nil, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = g.AddNode(noun("x"), nil, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGraph_AddEdge(t *testing.T) {
	t.Parallel()

	g := diamond(t)

	t.Run("self-loop rejected", func(t *testing.T) {
		_, err := g.AddEdge(Edge{Source: noun("a"), Target: noun("a")})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := g.AddEdge(Edge{Source: noun("a"), Target: noun("zzz")})
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("duplicate keeps first provenance", func(t *testing.T) {
		added, err := g.AddEdge(Edge{Source: noun("a"), Target: noun("b"), DefinitionIndex: 7})
		require.NoError(t, err)
		assert.False(t, added)

		e, ok := g.Edge(noun("a"), noun("b"))
		require.True(t, ok)
		assert.Equal(t, 0, e.DefinitionIndex)
		assert.Equal(t, 4, g.EdgeCount())
	})
}

func TestGraph_Freeze(t *testing.T) {
	t.Parallel()

	g := diamond(t)
	g.Freeze()
	g.Freeze()
	assert.True(t, g.Frozen())

	_, err := g.AddNode(noun("e"), nil, 0)
	assert.True(t, errors.Is(err, domain.ErrGraphFrozen))

	_, err = g.AddEdge(Edge{Source: noun("d"), Target: noun("a")})
	assert.ErrorIs(t, err, domain.ErrGraphFrozen)
}

func TestGraph_Queries(t *testing.T) {
	t.Parallel()

	g := diamond(t)

	assert.Equal(t, []Key{noun("b"), noun("c")}, g.Neighbors(noun("a")))
	assert.Equal(t, []Key{noun("b"), noun("c")}, g.Predecessors(noun("d")))
	assert.Empty(t, g.Neighbors(noun("d")))
	assert.Empty(t, g.Neighbors(noun("missing")))
	assert.True(t, g.HasEdge(noun("a"), noun("b")))
	assert.False(t, g.HasEdge(noun("b"), noun("a")))
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
	assert.InDelta(t, 4.0/12.0, g.Density(), 1e-9)
	assert.Equal(t, []Key{noun("a"), noun("b"), noun("c"), noun("d")}, g.Keys())

	_, ok := g.Node(noun("missing"))
	assert.False(t, ok)
}

func TestGraph_NeighborsReturnsCopy(t *testing.T) {
	t.Parallel()

	g := diamond(t)
	nbs := g.Neighbors(noun("a"))
	nbs[0] = noun("zzz")

	assert.Equal(t, noun("b"), g.Neighbors(noun("a"))[0])
}

func TestGraph_Density_SmallGraphs(t *testing.T) {
	t.Parallel()

	g := New()
	assert.Zero(t, g.Density())

	_, _ = g.AddNode(noun("a"), nil, 0)
	assert.Zero(t, g.Density())
}

func TestGraph_KeysForLemma(t *testing.T) {
	t.Parallel()

	g := New()
	_, _ = g.AddNode(NewKey("ease", domain.PartOfSpeechNoun), nil, 0)
	_, _ = g.AddNode(NewKey("rest", domain.PartOfSpeechNoun), nil, 1)
	_, _ = g.AddNode(NewKey("ease", domain.PartOfSpeechVerb), nil, 1)

	assert.Equal(t, []Key{
		{Lemma: "ease", POS: domain.PartOfSpeechNoun},
		{Lemma: "ease", POS: domain.PartOfSpeechVerb},
	}, g.KeysForLemma("EASE"))
	assert.Empty(t, g.KeysForLemma("missing"))
}

func TestGraph_Induced(t *testing.T) {
	t.Parallel()

	g := diamond(t)
	sub := g.Induced([]Key{noun("d"), noun("a"), noun("b"), noun("missing")})

	assert.True(t, sub.Frozen())
	assert.Equal(t, []Key{noun("a"), noun("b"), noun("d")}, sub.Keys())
	assert.Equal(t, 2, sub.EdgeCount())
	assert.True(t, sub.HasEdge(noun("a"), noun("b")))
	assert.True(t, sub.HasEdge(noun("b"), noun("d")))
}

func TestGraph_SameStructureIgnoresOrder(t *testing.T) {
	t.Parallel()

	g := diamond(t)

	// Same nodes and edges as diamond, inserted in reverse.
	rev := New()
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		_, err := rev.AddNode(nodes[i].Key, nodes[i].Definitions, nodes[i].Depth)
		require.NoError(t, err)
	}
	edges := g.Edges()
	for i := len(edges) - 1; i >= 0; i-- {
		_, err := rev.AddEdge(edges[i])
		require.NoError(t, err)
	}

	assert.True(t, g.SameStructure(rev))
	assert.True(t, rev.SameStructure(g))
	assert.False(t, g.Equal(rev), "Equal also compares insertion order")

	t.Run("different depth", func(t *testing.T) {
		other := New()
		for _, n := range nodes {
			depth := n.Depth
			if n.Key == noun("d") {
				depth = 1
			}
			_, err := other.AddNode(n.Key, n.Definitions, depth)
			require.NoError(t, err)
		}
		for _, e := range edges {
			_, err := other.AddEdge(e)
			require.NoError(t, err)
		}
		assert.False(t, g.SameStructure(other))
	})

	t.Run("different edge provenance", func(t *testing.T) {
		other := New()
		for _, n := range nodes {
			_, err := other.AddNode(n.Key, n.Definitions, n.Depth)
			require.NoError(t, err)
		}
		for i, e := range edges {
			if i == 0 {
				e.DefinitionIndex = 1
			}
			_, err := other.AddEdge(e)
			require.NoError(t, err)
		}
		assert.False(t, g.SameStructure(other))
	})
}
