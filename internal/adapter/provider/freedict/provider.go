// Package freedict implements the dictionary lookup transport against the
// FreeDictionary API (https://dictionaryapi.dev).
package freedict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/provider"
)

const (
	defaultBaseURL     = "https://api.dictionaryapi.dev/api/v2/entries/en"
	defaultTimeout     = 10 * time.Second
	defaultRetryDelay  = 500 * time.Millisecond
	defaultMaxAttempts = 2
)

// errRetryable marks a failed attempt that may succeed when repeated.
var errRetryable = errors.New("retryable")

// Options configures a Provider. Zero values fall back to defaults;
// RequestsPerSecond <= 0 disables throttling.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	RetryDelay        time.Duration
	// MaxAttempts bounds the requests made per lookup, the first included.
	MaxAttempts int
}

// Provider fetches dictionary data from the FreeDictionary API.
type Provider struct {
	baseURL     string
	client      *http.Client
	limiter     *rate.Limiter
	retryDelay  time.Duration
	maxAttempts int
	log         *slog.Logger
}

// NewProvider creates a Provider from Options.
func NewProvider(opts Options, logger *slog.Logger) *Provider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Provider{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		client:      &http.Client{Timeout: opts.Timeout},
		limiter:     rate.NewLimiter(limit, 1),
		retryDelay:  opts.RetryDelay,
		maxAttempts: opts.MaxAttempts,
		log:         logger.With("adapter", "freedict"),
	}
}

// NewProviderWithURL creates an unthrottled Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return NewProvider(Options{BaseURL: baseURL, RetryDelay: time.Millisecond}, logger)
}

// Lookup fetches the dictionary entry for word.
// Returns domain.ErrLookupNotFound on HTTP 404 and domain.ErrSourceUnavailable
// once every attempt failed on transport errors, 429 or 5xx statuses, or when
// the body cannot be decoded.
func (p *Provider) Lookup(ctx context.Context, word string) (*provider.DictionaryResult, error) {
	endpoint := p.baseURL + "/" + url.PathEscape(word)

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			p.log.WarnContext(ctx, "freedict retry",
				slog.String("word", word),
				slog.Int("attempt", attempt),
				slog.String("reason", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("freedict: %q: %w", word, ctx.Err())
			case <-time.After(p.retryDelay):
			}
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("freedict: throttle %q: %w", word, err)
		}

		entries, err := p.fetch(ctx, endpoint)
		switch {
		case err == nil:
			result := toResult(word, entries)
			p.log.DebugContext(ctx, "freedict lookup",
				slog.String("word", word),
				slog.Int("attempts", attempt),
				slog.Int("senses", len(result.Senses)),
			)
			return result, nil
		case errors.Is(err, domain.ErrLookupNotFound):
			return nil, fmt.Errorf("freedict: %q: %w", word, err)
		case errors.Is(err, errRetryable) && ctx.Err() == nil:
			lastErr = err
		default:
			return nil, fmt.Errorf("freedict: %q: %w: %v", word, domain.ErrSourceUnavailable, err)
		}
	}

	p.log.ErrorContext(ctx, "freedict lookup failed",
		slog.String("word", word),
		slog.Int("attempts", p.maxAttempts),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("freedict: %q: %w: %v", word, domain.ErrSourceUnavailable, lastErr)
}

// fetch performs a single request and decodes a 200 body.
func (p *Provider) fetch(ctx context.Context, endpoint string) ([]apiEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrLookupNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return entries, nil
}

// toResult flattens the API entries into a provider.DictionaryResult.
// Entries (one per etymology) are merged in response order and blank
// definitions are dropped.
func toResult(word string, entries []apiEntry) *provider.DictionaryResult {
	result := &provider.DictionaryResult{Word: word, Senses: []provider.SenseResult{}}
	if len(entries) > 0 && entries[0].Word != "" {
		result.Word = entries[0].Word
	}

	for _, entry := range entries {
		for _, meaning := range entry.Meanings {
			for _, def := range meaning.Definitions {
				text := strings.TrimSpace(def.Definition)
				if text == "" {
					continue
				}
				sense := provider.SenseResult{PartOfSpeech: meaning.PartOfSpeech, Definition: text}
				if ex := strings.TrimSpace(def.Example); ex != "" {
					sense.Examples = []string{ex}
				}
				result.Senses = append(result.Senses, sense)
			}
		}
	}
	return result
}
