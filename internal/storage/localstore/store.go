// Package localstore is a small durable key-value store over a local
// directory: one JSON file per logical key. It backs the session records
// (current user, pending cart) with write-through persistence.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-faster/errors"
)

// Store persists JSON-serializable values under fixed string keys. Writes go
// through a temp file and an atomic rename, so readers never observe a
// half-written record.
type Store struct {
	dir string

	// mu serializes writes to the directory. Reads of a single key are safe
	// against concurrent writes thanks to the atomic rename.
	mu sync.Mutex
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	return &Store{dir: dir}, nil
}

// Save serializes value and writes it under key, replacing any previous
// record atomically.
func (s *Store) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "marshal record %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp record")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write record %q", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "close record %q", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "replace record %q", key)
	}
	return nil
}

// Load reads the record under key into out. It returns false when no record
// exists or the stored bytes fail to deserialize: a malformed record is
// treated as absent, never as a fatal condition.
func (s *Store) Load(key string, out any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "read record %q", key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes the record under key. Deleting a missing record is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete record %q", key)
	}
	return nil
}

// Check verifies the store directory is still present and writable. Used as a
// readiness probe.
func (s *Store) Check() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return errors.Wrap(err, "stat store directory")
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// path maps a logical key to its file, keeping only safe name characters.
func (s *Store) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, name+".json")
}
