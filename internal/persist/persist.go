// Package persist stores small named records that must survive restarts,
// such as the read position of followed files.
//
// The file store keeps every entry in one CBOR document encoded with Core
// Deterministic Encoding. Writes go to a temporary file in the same
// directory, are fsynced and renamed into place, so a crash never leaves a
// partial document behind.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Position is the saved read position of one file.
type Position struct {
	Offset int64  `cbor:"offset"`
	Device uint64 `cbor:"dev"`
	Inode  uint64 `cbor:"ino"`
}

// Store loads and saves positions by persist name.
type Store interface {
	Load(name string) (Position, bool, error)
	Save(name string, pos Position) error
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("persist: CBOR encoder initialization failed: " + err.Error())
	}
}

type document struct {
	Version   int                 `cbor:"version"`
	Positions map[string]Position `cbor:"positions"`
}

const documentVersion = 1

// FileStore is a Store backed by a single file.
type FileStore struct {
	path string

	mu        sync.Mutex
	positions map[string]Position
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, positions: make(map[string]Position)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading persist file %s: %w", path, err)
	}

	var doc document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding persist file %s: %w", path, err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("persist file %s has unsupported version %d", path, doc.Version)
	}
	for k, v := range doc.Positions {
		s.positions[k] = v
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

// Load returns the position saved under name.
func (s *FileStore) Load(name string) (Position, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[name]
	return pos, ok, nil
}

// Save records pos under name and rewrites the file.
func (s *FileStore) Save(name string, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.positions[name]
	s.positions[name] = pos
	if err := s.flush(); err != nil {
		if had {
			s.positions[name] = prev
		} else {
			delete(s.positions, name)
		}
		return err
	}
	return nil
}

func (s *FileStore) flush() error {
	data, err := encMode.Marshal(document{Version: documentVersion, Positions: s.positions})
	if err != nil {
		return fmt.Errorf("encoding persist state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".persist-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary persist file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing persist file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing persist file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing persist file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting persist file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming persist file into place: %w", err)
	}
	return nil
}

// MemoryStore is a Store that lives only in memory.
type MemoryStore struct {
	mu        sync.Mutex
	positions map[string]Position
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[string]Position)}
}

// Load returns the position saved under name.
func (m *MemoryStore) Load(name string) (Position, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[name]
	return pos, ok, nil
}

// Save records pos under name.
func (m *MemoryStore) Save(name string, pos Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[name] = pos
	return nil
}
