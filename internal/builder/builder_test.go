package builder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/provider"
)

// ---------------------------------------------------------------------------
// Fake source
// ---------------------------------------------------------------------------

type fakeSource struct {
	mu          sync.Mutex
	entries     map[string]*provider.DictionaryResult
	unavailable map[string]bool
	calls       []string
}

func (f *fakeSource) Lookup(_ context.Context, word string) (*provider.DictionaryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, word)
	if f.unavailable[word] {
		return nil, domain.ErrSourceUnavailable
	}
	if r, ok := f.entries[word]; ok {
		return r, nil
	}
	return nil, domain.ErrLookupNotFound
}

func entry(word, pos string, defs ...string) *provider.DictionaryResult {
	r := &provider.DictionaryResult{Word: word}
	for _, d := range defs {
		r.Senses = append(r.Senses, provider.SenseResult{PartOfSpeech: pos, Definition: d})
	}
	return r
}

// easeSource is a small dictionary around "ease".
func easeSource() *fakeSource {
	return &fakeSource{entries: map[string]*provider.DictionaryResult{
		"ease":       entry("ease", "noun", "Freedom from difficulty."),
		"freedom":    entry("freedom", "noun", "The condition of being free of restraints."),
		"difficulty": entry("difficulty", "noun", "The state of being hard to do."),
		"condition":  entry("condition", "noun", "A state."),
		"free":       entry("free", "adjective", "Not imprisoned."),
	}}
}

func newTestBuilder(src Source) *Builder {
	return New(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func defaultOptions() Options {
	return Options{MaxDepth: 2, MaxNodesPerDefinition: 2}
}

func noun(lemma string) graph.Key { return graph.NewKey(lemma, domain.PartOfSpeechNoun) }

func adj(lemma string) graph.Key { return graph.NewKey(lemma, domain.PartOfSpeechAdjective) }

func keyStrings(keys []graph.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestBuild_Ease(t *testing.T) {
	t.Parallel()

	g, stats, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", defaultOptions())
	require.NoError(t, err)

	assert.True(t, g.Frozen())
	assert.Equal(t, []string{
		"ease/noun", "freedom/noun", "difficulty/noun",
		"condition/noun", "free/adjective", "state/noun", "hard/adjective",
	}, keyStrings(g.Keys()))
	assert.Equal(t, 6, g.EdgeCount())

	for _, e := range [][2]graph.Key{
		{noun("ease"), noun("freedom")},
		{noun("ease"), noun("difficulty")},
		{noun("freedom"), noun("condition")},
		{noun("freedom"), adj("free")},
		{noun("difficulty"), noun("state")},
		{noun("difficulty"), adj("hard")},
	} {
		assert.True(t, g.HasEdge(e[0], e[1]), "missing edge %s -> %s", e[0], e[1])
	}

	wantDepth := map[string]int{
		"ease/noun": 0, "freedom/noun": 1, "difficulty/noun": 1,
		"condition/noun": 2, "free/adjective": 2, "state/noun": 2, "hard/adjective": 2,
	}
	for _, n := range g.Nodes() {
		assert.Equal(t, wantDepth[n.Key.String()], n.Depth, "depth of %s", n.Key)
	}

	free, ok := g.Node(adj("free"))
	require.True(t, ok)
	assert.Equal(t, []string{"Not imprisoned."}, free.Definitions)
	state, ok := g.Node(noun("state"))
	require.True(t, ok)
	assert.Empty(t, state.Definitions)

	assert.Equal(t, 3, stats.Expanded)
	assert.Equal(t, 7, stats.Lookups)
	assert.Equal(t, 2, stats.LookupFailures)
	assert.Equal(t, 7, stats.Candidates)
	assert.Equal(t, 1, stats.Truncated)
	assert.Equal(t, StopNone, stats.Stopped)
}

func TestBuild_EdgeCarriesSourceSense(t *testing.T) {
	t.Parallel()

	g, _, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", defaultOptions())
	require.NoError(t, err)

	e, ok := g.Edge(noun("freedom"), adj("free"))
	require.True(t, ok)
	assert.Equal(t, domain.PartOfSpeechNoun, e.POS)
	assert.Equal(t, 0, e.DefinitionIndex)
}

func TestBuild_DefinitionIndex(t *testing.T) {
	t.Parallel()

	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha": entry("alpha", "noun", "Bravo.", "Charlie."),
	}}
	g, _, err := newTestBuilder(src).Build(context.Background(), "alpha", defaultOptions())
	require.NoError(t, err)

	e, ok := g.Edge(noun("alpha"), noun("charlie"))
	require.True(t, ok)
	assert.Equal(t, 1, e.DefinitionIndex)
}

func TestBuild_Cycle(t *testing.T) {
	t.Parallel()

	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha": entry("alpha", "noun", "Bravo."),
		"bravo": entry("bravo", "noun", "Alpha."),
	}}
	g, stats, err := newTestBuilder(src).Build(context.Background(), "alpha", Options{MaxDepth: 10, MaxNodesPerDefinition: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge(noun("alpha"), noun("bravo")))
	assert.True(t, g.HasEdge(noun("bravo"), noun("alpha")))
	assert.Equal(t, 2, stats.Expanded)
}

func TestBuild_DepthIsMinimum(t *testing.T) {
	t.Parallel()

	// alpha reaches charlie directly and through bravo.
	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha":   entry("alpha", "noun", "Bravo charlie."),
		"bravo":   entry("bravo", "noun", "Charlie."),
		"charlie": entry("charlie", "noun", "Delta."),
		"delta":   entry("delta", "noun", "Echo."),
	}}
	g, _, err := newTestBuilder(src).Build(context.Background(), "alpha", Options{MaxDepth: 2, MaxNodesPerDefinition: 5})
	require.NoError(t, err)

	charlie, ok := g.Node(noun("charlie"))
	require.True(t, ok)
	assert.Equal(t, 1, charlie.Depth)
	assert.True(t, g.HasEdge(noun("bravo"), noun("charlie")))

	delta, ok := g.Node(noun("delta"))
	require.True(t, ok)
	assert.Equal(t, 2, delta.Depth)
	assert.False(t, g.Has(noun("echo")), "nodes at max depth must not be expanded")
	assert.Empty(t, g.Neighbors(noun("delta")))

	for _, n := range g.Nodes() {
		assert.LessOrEqual(t, n.Depth, 2)
	}
}

func TestBuild_ZeroDepth(t *testing.T) {
	t.Parallel()

	g, stats, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", Options{MaxDepth: 0, MaxNodesPerDefinition: 5})
	require.NoError(t, err)

	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 0, stats.Expanded)
}

func TestBuild_MaxNodes(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.MaxNodes = 4
	g, stats, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", opts)
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, StopMaxNodes, stats.Stopped)
	assert.True(t, g.Frozen())
}

func TestBuild_TimeBudget(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(easeSource())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	opts := defaultOptions()
	opts.TimeBudget = 1500 * time.Millisecond
	g, stats, err := b.Build(context.Background(), "ease", opts)
	require.NoError(t, err)

	assert.Equal(t, StopTimeBudget, stats.Stopped)
	assert.Equal(t, 1, stats.Expanded)
	assert.Equal(t, 3, g.NodeCount())
	assert.Positive(t, stats.Duration)
}

func TestBuild_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, _, err := newTestBuilder(easeSource()).Build(ctx, "ease", defaultOptions())
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestBuild_SeedNotFound(t *testing.T) {
	t.Parallel()

	g, stats, err := newTestBuilder(&fakeSource{}).Build(context.Background(), "Zyzzyva", defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"zyzzyva/noun"}, keyStrings(g.Keys()))
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 1, stats.LookupFailures)
}

func TestBuild_SeedUsesPrimaryPOS(t *testing.T) {
	t.Parallel()

	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"soothe": {Word: "soothe", Senses: []provider.SenseResult{
			{PartOfSpeech: "interjection", Definition: "Hush."},
			{PartOfSpeech: "verb", Definition: "To relieve pain."},
		}},
	}}
	g, _, err := newTestBuilder(src).Build(context.Background(), "soothe", defaultOptions())
	require.NoError(t, err)

	seed := graph.NewKey("soothe", domain.PartOfSpeechVerb)
	n, ok := g.Node(seed)
	require.True(t, ok)
	assert.Equal(t, []string{"To relieve pain."}, n.Definitions)
	assert.Equal(t, []string{"relieve/verb", "pain/noun"}, keyStrings(g.Neighbors(seed)))
}

func TestBuild_CandidatePOSFollowsEntry(t *testing.T) {
	t.Parallel()

	// "bravo" is tagged as a noun but the dictionary only knows a verb sense.
	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha": entry("alpha", "noun", "Bravo."),
		"bravo": entry("bravo", "verb", "To cheer."),
	}}
	g, _, err := newTestBuilder(src).Build(context.Background(), "alpha", defaultOptions())
	require.NoError(t, err)

	bravo := graph.NewKey("bravo", domain.PartOfSpeechVerb)
	n, ok := g.Node(bravo)
	require.True(t, ok)
	assert.Equal(t, []string{"To cheer."}, n.Definitions)
	assert.False(t, g.Has(noun("bravo")))
}

func TestBuild_UnavailableWordBecomesLeaf(t *testing.T) {
	t.Parallel()

	src := easeSource()
	src.unavailable = map[string]bool{"freedom": true}
	g, stats, err := newTestBuilder(src).Build(context.Background(), "ease", defaultOptions())
	require.NoError(t, err)

	n, ok := g.Node(noun("freedom"))
	require.True(t, ok)
	assert.Empty(t, n.Definitions)
	assert.Empty(t, g.Neighbors(noun("freedom")))
	assert.True(t, g.Has(noun("state")), "build continues past the failure")
	assert.Equal(t, 3, stats.LookupFailures)
}

func TestBuild_MaxDefinitionsPerNode(t *testing.T) {
	t.Parallel()

	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha": entry("alpha", "noun", "Bravo.", "Charlie."),
	}}
	opts := defaultOptions()
	opts.MaxDefinitionsPerNode = 1
	g, _, err := newTestBuilder(src).Build(context.Background(), "alpha", opts)
	require.NoError(t, err)

	assert.True(t, g.Has(noun("bravo")))
	assert.False(t, g.Has(noun("charlie")))
}

func TestBuild_ContextKeywordsSurviveTruncation(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.MaxNodesPerDefinition = 1
	opts.ContextKeywords = []string{"restraint"}
	g, _, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", opts)
	require.NoError(t, err)

	assert.True(t, g.HasEdge(noun("freedom"), noun("restraint")))
	assert.False(t, g.Has(noun("condition")))
}

func TestBuild_MalformedDefinitionsSkipped(t *testing.T) {
	t.Parallel()

	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha": entry("alpha", "noun", "1, 2, 3.", "Bravo."),
	}}
	g, stats, err := newTestBuilder(src).Build(context.Background(), "alpha", defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MalformedDefinitions)
	e, ok := g.Edge(noun("alpha"), noun("bravo"))
	require.True(t, ok)
	assert.Equal(t, 1, e.DefinitionIndex)
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	first, _, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", defaultOptions())
	require.NoError(t, err)
	second, _, err := newTestBuilder(easeSource()).Build(context.Background(), "ease", defaultOptions())
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Edges(), second.Edges())
}

func TestBuild_NoSelfLoops(t *testing.T) {
	t.Parallel()

	src := &fakeSource{entries: map[string]*provider.DictionaryResult{
		"alpha": entry("alpha", "noun", "Alpha bravo."),
		"bravo": entry("bravo", "noun", "Bravos and alphas."),
	}}
	g, _, err := newTestBuilder(src).Build(context.Background(), "alpha", Options{MaxDepth: 3, MaxNodesPerDefinition: 5})
	require.NoError(t, err)

	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Source, e.Target)
	}
	assert.True(t, g.HasEdge(noun("bravo"), noun("alpha")))
}

func TestBuild_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seed string
		opts Options
	}{
		{name: "empty seed", seed: "  ", opts: defaultOptions()},
		{name: "negative depth", seed: "ease", opts: Options{MaxDepth: -1, MaxNodesPerDefinition: 1}},
		{name: "zero per definition", seed: "ease", opts: Options{MaxDepth: 1}},
		{name: "negative budget", seed: "ease", opts: Options{MaxDepth: 1, MaxNodesPerDefinition: 1, TimeBudget: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := newTestBuilder(easeSource()).Build(context.Background(), tt.seed, tt.opts)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
