package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every entry in one JSON document. The document is read
// once when the store is opened and rewritten after each Put through a
// temporary file and a rename, so a crash never leaves a half-written file.
type FileStore struct {
	path string
	log  *slog.Logger

	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// OpenFile loads the document at path. A missing file is an empty cache; an
// unreadable document is logged and replaced on the next write.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		log:     logger.With("component", "cache.file"),
		entries: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read cache file %s: %w", path, err)
	}

	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.log.Warn("cache file is corrupt, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		s.entries = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Get returns the entry for word. Corrupt entries are reported as misses.
func (s *FileStore) Get(_ context.Context, word string) (Entry, bool, error) {
	s.mu.Lock()
	raw, ok := s.entries[word]
	s.mu.Unlock()
	if !ok {
		return Entry{}, false, nil
	}

	e, err := decodeEntry(raw)
	if err != nil {
		s.log.Warn("ignoring corrupt cache entry",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores e under word and flushes the document.
func (s *FileStore) Put(_ context.Context, word string, e Entry) error {
	raw, err := encodeEntry(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[word] = raw
	return s.flushLocked()
}

// Len returns the number of stored entries, corrupt ones included.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) flushLocked() error {
	// encoding/json sorts map keys, so the document is stable across runs.
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
