// Package safestore keeps small keyed JSON slots in one directory. Every key
// maps to one file. Failed writes never surface: the value is kept in memory
// for this process and the key is served from memory until a write succeeds.
package safestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"lockin/internal/platform/logging"
	"lockin/internal/platform/slug"
)

type Store struct {
	dir    string
	logger *slog.Logger

	mu       sync.Mutex
	memory   map[string][]byte
	degraded map[string]bool
}

// New returns a store rooted at dir. An empty dir gives a memory-only store.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:      dir,
		logger:   logging.OrDiscard(logger),
		memory:   map[string][]byte{},
		degraded: map[string]bool{},
	}
}

// NewMemory returns a store that never touches the filesystem.
func NewMemory(logger *slog.Logger) *Store {
	return New("", logger)
}

// FileName maps a slot key to the file that holds it.
func FileName(key string) string {
	return slug.Make(key) + ".json"
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, FileName(key))
}

// Read returns the raw slot content and whether the slot holds a value.
func (s *Store) Read(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" || s.degraded[key] {
		return s.cachedLocked(key)
	}
	raw, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			delete(s.memory, key)
			return nil, false
		}
		s.logger.Warn("safestore: read failed, serving memory copy", "key", key, "error", err)
		return s.cachedLocked(key)
	}
	if len(raw) == 0 {
		delete(s.memory, key)
		return nil, false
	}
	s.memory[key] = raw
	return append([]byte(nil), raw...), true
}

// Write stores value under key; a nil value removes the slot. It reports
// whether the value reached disk.
func (s *Store) Write(key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		delete(s.memory, key)
	} else {
		s.memory[key] = append([]byte(nil), value...)
	}
	if s.dir == "" {
		return false
	}
	var err error
	if value == nil {
		err = s.removeLocked(key)
	} else {
		err = s.persistLocked(key, value)
	}
	if err != nil {
		s.degraded[key] = true
		s.logger.Warn("safestore: failed to persist, keeping value in memory", "key", key, "error", err)
		return false
	}
	delete(s.degraded, key)
	return true
}

// Remove clears the slot.
func (s *Store) Remove(key string) bool {
	return s.Write(key, nil)
}

// ReadJSON decodes the slot into target. Content that does not decode is
// removed and reported as absent.
func (s *Store) ReadJSON(key string, target any) bool {
	raw, ok := s.Read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn("safestore: clearing corrupted data", "key", key, "error", err)
		s.Remove(key)
		return false
	}
	return true
}

// WriteJSON encodes value into the slot; a nil value removes it.
func (s *Store) WriteJSON(key string, value any) bool {
	if value == nil {
		return s.Remove(key)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("safestore: encode failed", "key", key, "error", err)
		return false
	}
	return s.Write(key, payload)
}

func (s *Store) cachedLocked(key string) ([]byte, bool) {
	raw, ok := s.memory[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), raw...), true
}

func (s *Store) removeLocked(key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove slot: %w", err)
	}
	return nil
}

func (s *Store) persistLocked(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create slot dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, FileName(key)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	name := tmp.Name()
	_, err = tmp.Write(value)
	if closeErr := tmp.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write temp slot: %w", err)
	}
	if err := os.Rename(name, s.Path(key)); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename slot: %w", err)
	}
	return nil
}
