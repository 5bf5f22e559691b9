package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"
)

// MemoryStore keeps values in a map. Values are copied on the way in and
// out.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.values))
}

// FileStore keeps one file per key in a folder. Keys are base64 encoded to
// stay valid file names.
type FileStore struct {
	disk *DiskStorage
}

func NewFileStore(rootFolder string) *FileStore {
	return &FileStore{disk: NewDiskStorage("kv", rootFolder)}
}

func (f *FileStore) fileName(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	name, _ := f.disk.GetFileName(f.fileName(key))
	b, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	return f.disk.writeAtomic(f.fileName(key), func(w io.Writer) error {
		_, err := w.Write(value)
		return err
	})
}

func (f *FileStore) Remove(_ context.Context, key string) error {
	name, _ := f.disk.GetFileName(f.fileName(key))
	err := os.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
