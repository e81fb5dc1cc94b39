// Package store is the durable local store: one JSON blob per key, one file
// per key under a state directory. It is the offline system of record for the
// client containers. Failures never propagate: a bad read yields the caller's
// fallback, a failed write is logged and lost until the next mutation.
package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store persists values under namespaced keys. The filesystem is injected so
// tests run against an in-memory FS.
type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a store rooted at dir on the real filesystem.
func New(dir string) *Store {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs returns a store rooted at dir on the given filesystem.
func NewWithFs(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Load reads and decodes the JSON stored under key. A missing key, unreadable
// file, or value that does not decode into T returns fallback unchanged.
func Load[T any](s *Store, key string, fallback T) T {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		return fallback
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("store: discarding unreadable value for %q: %v", key, err)
		return fallback
	}
	return v
}

// Save serializes v and writes it under key. Errors (quota, permissions,
// unserializable value) are logged and swallowed; the previous value, if any,
// stays in place.
func (s *Store) Save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("store: cannot encode value for %q: %v", key, err)
		return
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("store: cannot create state dir %s: %v", s.dir, err)
		return
	}
	if err := afero.WriteFile(s.fs, s.path(key), data, 0o644); err != nil {
		log.Printf("store: write failed for %q: %v", key, err)
	}
}

// Delete removes the value under key. Missing keys are not an error.
func (s *Store) Delete(key string) {
	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		log.Printf("store: delete failed for %q: %v", key, err)
	}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
