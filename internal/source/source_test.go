package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordgraph/internal/adapter/cache"
	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/provider"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockUpstream struct {
	calls    atomic.Int32
	LookupFn func(ctx context.Context, word string) (*provider.DictionaryResult, error)
}

func (m *mockUpstream) Lookup(ctx context.Context, word string) (*provider.DictionaryResult, error) {
	m.calls.Add(1)
	return m.LookupFn(ctx, word)
}

type mapStore struct {
	mu      sync.Mutex
	entries map[string]cache.Entry
	putErr  error
}

func newMapStore() *mapStore { return &mapStore{entries: make(map[string]cache.Entry)} }

func (s *mapStore) Get(_ context.Context, word string) (cache.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[word]
	return e, ok, nil
}

func (s *mapStore) Put(_ context.Context, word string, e cache.Entry) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[word] = e
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func result(word string) *provider.DictionaryResult {
	return &provider.DictionaryResult{
		Word:   word,
		Senses: []provider.SenseResult{{PartOfSpeech: "noun", Definition: "Definition of " + word + "."}},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestLookup_FetchesOnceThenMemo(t *testing.T) {
	t.Parallel()

	up := &mockUpstream{LookupFn: func(_ context.Context, w string) (*provider.DictionaryResult, error) {
		return result(w), nil
	}}
	store := newMapStore()
	src := New(up, store, newTestLogger())

	r, err := src.Lookup(context.Background(), "ease")
	require.NoError(t, err)
	assert.Equal(t, "ease", r.Word)

	r, err = src.Lookup(context.Background(), "  Ease ")
	require.NoError(t, err)
	assert.Equal(t, "ease", r.Word)

	assert.EqualValues(t, 1, up.calls.Load())
	assert.Contains(t, store.entries, "ease")
	assert.Equal(t, Stats{MemoHits: 1, Fetched: 1}, src.Stats())
}

func TestLookup_CacheHitSkipsUpstream(t *testing.T) {
	t.Parallel()

	up := &mockUpstream{LookupFn: func(context.Context, string) (*provider.DictionaryResult, error) {
		t.Fatal("upstream must not be called on a cache hit")
		return nil, nil
	}}
	store := newMapStore()
	store.entries["ease"] = cache.Found(result("ease"))
	src := New(up, store, newTestLogger())

	r, err := src.Lookup(context.Background(), "ease")
	require.NoError(t, err)
	assert.Equal(t, result("ease"), r)
	assert.EqualValues(t, 1, src.Stats().CacheHits)
}

func TestLookup_NotFoundIsNegativelyCached(t *testing.T) {
	t.Parallel()

	up := &mockUpstream{LookupFn: func(context.Context, string) (*provider.DictionaryResult, error) {
		return nil, domain.ErrLookupNotFound
	}}
	store := newMapStore()
	src := New(up, store, newTestLogger())

	for range 3 {
		_, err := src.Lookup(context.Background(), "qwzx")
		assert.ErrorIs(t, err, domain.ErrLookupNotFound)
	}
	assert.EqualValues(t, 1, up.calls.Load())
	assert.True(t, store.entries["qwzx"].NotFound)

	// A fresh source over the same store answers from the negative entry.
	fresh := New(up, store, newTestLogger())
	_, err := fresh.Lookup(context.Background(), "qwzx")
	assert.ErrorIs(t, err, domain.ErrLookupNotFound)
	assert.EqualValues(t, 1, up.calls.Load())
}

func TestLookup_UnavailableIsNotCached(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	fail.Store(true)
	up := &mockUpstream{LookupFn: func(_ context.Context, w string) (*provider.DictionaryResult, error) {
		if fail.Load() {
			return nil, errors.New("connection refused")
		}
		return result(w), nil
	}}
	store := newMapStore()
	src := New(up, store, newTestLogger())

	_, err := src.Lookup(context.Background(), "ease")
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Empty(t, store.entries)

	fail.Store(false)
	r, err := src.Lookup(context.Background(), "ease")
	require.NoError(t, err)
	assert.Equal(t, "ease", r.Word)
	assert.EqualValues(t, 2, up.calls.Load())
	assert.EqualValues(t, 1, src.Stats().Unavailable)
}

func TestLookup_CacheOnly(t *testing.T) {
	t.Parallel()

	store := newMapStore()
	store.entries["ease"] = cache.Found(result("ease"))
	src := New(nil, store, newTestLogger())

	_, err := src.Lookup(context.Background(), "ease")
	require.NoError(t, err)

	_, err = src.Lookup(context.Background(), "comfort")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestLookup_EmptyWord(t *testing.T) {
	t.Parallel()

	src := New(nil, nil, newTestLogger())
	_, err := src.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrLookupNotFound)
}

func TestLookup_StoreWriteFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	up := &mockUpstream{LookupFn: func(_ context.Context, w string) (*provider.DictionaryResult, error) {
		return result(w), nil
	}}
	store := newMapStore()
	store.putErr = errors.New("disk full")
	src := New(up, store, newTestLogger())

	r, err := src.Lookup(context.Background(), "ease")
	require.NoError(t, err)
	assert.Equal(t, "ease", r.Word)
}

func TestLookup_ConcurrentCallsShareOneFetch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	up := &mockUpstream{LookupFn: func(_ context.Context, w string) (*provider.DictionaryResult, error) {
		<-release
		return result(w), nil
	}}
	src := New(up, nil, newTestLogger())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := src.Lookup(context.Background(), "ease")
			assert.NoError(t, err)
			assert.Equal(t, "ease", r.Word)
		}()
	}
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, up.calls.Load())
}

func TestLookup_ContextCancelled(t *testing.T) {
	t.Parallel()

	up := &mockUpstream{LookupFn: func(ctx context.Context, _ string) (*provider.DictionaryResult, error) {
		return nil, ctx.Err()
	}}
	src := New(up, nil, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Lookup(ctx, "ease")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, src.Stats().Unavailable)
}
