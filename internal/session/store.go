// internal/session/store.go
package session

import (
	"errors"
	"os"
	"sync"
)

// ErrNoRecord is returned by Get when no durable record exists.
var ErrNoRecord = errors.New("no session record")

// Store is the durable record behind the session manager. The medium
// (file, keychain, anything that holds one blob) is swappable without
// touching session logic.
type Store interface {
	Get() ([]byte, error)
	Set(data []byte) error
	Clear() error
}

// FileStore keeps the record in a single JSON file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Get() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return data, nil
}

func (f *FileStore) Set(data []byte) error {
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func (m *MemStore) Get() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrNoRecord
	}
	return m.data, nil
}

func (m *MemStore) Set(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}
