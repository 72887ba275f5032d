// Package source is the cache-first definition source used by the graph
// builder: an in-process memo in front of a persistent cache in front of the
// upstream dictionary.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/wordgraph/internal/adapter/cache"
	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/metrics"
	"github.com/heartmarshall/wordgraph/internal/provider"
)

// Upstream fetches a word from the remote dictionary.
type Upstream interface {
	Lookup(ctx context.Context, word string) (*provider.DictionaryResult, error)
}

// Store persists lookup outcomes between runs.
type Store interface {
	Get(ctx context.Context, word string) (cache.Entry, bool, error)
	Put(ctx context.Context, word string, e cache.Entry) error
}

// Stats counts lookups by where they were answered.
type Stats struct {
	MemoHits    int64
	CacheHits   int64
	Fetched     int64
	NotFound    int64
	Unavailable int64
}

// Source answers lookups from memory, then the store, then upstream.
// Successful results and not-found outcomes are written through to the
// store; unavailability is never stored, so the word is retried next run.
// Results are shared between callers and must not be modified.
type Source struct {
	upstream Upstream
	store    Store
	log      *slog.Logger

	flight singleflight.Group

	mu   sync.Mutex
	memo map[string]*provider.DictionaryResult // nil value = not found

	memoHits, cacheHits, fetched, notFound, unavailable atomic.Int64
}

// New creates a Source. upstream may be nil for cache-only operation, in
// which case misses are reported as unavailable. store may be nil to
// disable persistence.
func New(upstream Upstream, store Store, logger *slog.Logger) *Source {
	return &Source{
		upstream: upstream,
		store:    store,
		log:      logger.With("component", "source"),
		memo:     make(map[string]*provider.DictionaryResult),
	}
}

// Lookup returns the dictionary entry for word. Errors wrap
// domain.ErrLookupNotFound or domain.ErrSourceUnavailable, or are the
// context's error.
func (s *Source) Lookup(ctx context.Context, word string) (*provider.DictionaryResult, error) {
	key := domain.NormalizeText(word)
	if key == "" {
		return nil, fmt.Errorf("lookup empty word: %w", domain.ErrLookupNotFound)
	}

	if r, ok := s.fromMemo(key); ok {
		s.memoHits.Add(1)
		metrics.LookupsTotal.WithLabelValues(metrics.OutcomeMemo).Inc()
		return notFoundIfNil(key, r)
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.resolve(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*provider.DictionaryResult), nil
}

// Stats returns a snapshot of the lookup counters.
func (s *Source) Stats() Stats {
	return Stats{
		MemoHits:    s.memoHits.Load(),
		CacheHits:   s.cacheHits.Load(),
		Fetched:     s.fetched.Load(),
		NotFound:    s.notFound.Load(),
		Unavailable: s.unavailable.Load(),
	}
}

func (s *Source) resolve(ctx context.Context, key string) (*provider.DictionaryResult, error) {
	// Another flight may have finished between the memo check and Do.
	if r, ok := s.fromMemo(key); ok {
		return notFoundIfNil(key, r)
	}

	if s.store != nil {
		e, ok, err := s.store.Get(ctx, key)
		if err != nil {
			s.log.WarnContext(ctx, "cache read failed", slog.String("word", key), slog.String("error", err.Error()))
		}
		if ok {
			s.cacheHits.Add(1)
			if e.NotFound {
				metrics.LookupsTotal.WithLabelValues(metrics.OutcomeNegativeHit).Inc()
				s.remember(key, nil)
				return nil, fmt.Errorf("lookup %q (cached): %w", key, domain.ErrLookupNotFound)
			}
			metrics.LookupsTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
			s.remember(key, e.Result)
			return e.Result, nil
		}
	}

	if s.upstream == nil {
		s.unavailable.Add(1)
		metrics.LookupsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return nil, fmt.Errorf("lookup %q: not cached and no upstream: %w", key, domain.ErrSourceUnavailable)
	}

	start := time.Now()
	r, err := s.upstream.Lookup(ctx, key)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		s.fetched.Add(1)
		metrics.LookupsTotal.WithLabelValues(metrics.OutcomeFetched).Inc()
		s.persist(ctx, key, cache.Found(r))
		s.remember(key, r)
		return r, nil

	case errors.Is(err, domain.ErrLookupNotFound):
		s.notFound.Add(1)
		metrics.LookupsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		s.persist(ctx, key, cache.Missing())
		s.remember(key, nil)
		return nil, err

	case ctx.Err() != nil:
		return nil, ctx.Err()

	default:
		s.unavailable.Add(1)
		metrics.LookupsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		return nil, err
	}
}

func (s *Source) persist(ctx context.Context, key string, e cache.Entry) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, key, e); err != nil {
		s.log.WarnContext(ctx, "cache write failed", slog.String("word", key), slog.String("error", err.Error()))
	}
}

func (s *Source) fromMemo(key string) (*provider.DictionaryResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.memo[key]
	return r, ok
}

func (s *Source) remember(key string, r *provider.DictionaryResult) {
	s.mu.Lock()
	s.memo[key] = r
	s.mu.Unlock()
}

func notFoundIfNil(key string, r *provider.DictionaryResult) (*provider.DictionaryResult, error) {
	if r == nil {
		return nil, fmt.Errorf("lookup %q (memo): %w", key, domain.ErrLookupNotFound)
	}
	return r, nil
}
