// Package cache persists dictionary lookups between runs so that repeated
// builds over the same seed see identical definitions.
package cache

import (
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/provider"
)

// Entry is the stored outcome of one lookup: either a result or a record
// that the word does not exist upstream.
type Entry struct {
	Result   *provider.DictionaryResult `json:"result,omitempty"`
	NotFound bool                       `json:"not_found,omitempty"`
}

// Found returns an entry holding r.
func Found(r *provider.DictionaryResult) Entry { return Entry{Result: r} }

// Missing returns a negative entry.
func Missing() Entry { return Entry{NotFound: true} }

func (e Entry) valid() bool {
	return (e.Result != nil) != e.NotFound
}

func encodeEntry(e Entry) ([]byte, error) {
	if !e.valid() {
		return nil, fmt.Errorf("encode cache entry: want exactly one of result or not_found: %w", domain.ErrValidation)
	}
	return json.Marshal(e)
}

func decodeEntry(raw []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, fmt.Errorf("%v: %w", err, domain.ErrCacheCorrupt)
	}
	if !e.valid() {
		return Entry{}, domain.ErrCacheCorrupt
	}
	return e, nil
}
