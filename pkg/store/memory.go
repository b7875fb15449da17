package store

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps the most recently used blobs in memory.
type MemoryStore struct {
	cache *lru.Cache[string, []byte]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding at most entries blobs.
func NewMemoryStore(entries int) (*MemoryStore, error) {
	cache, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, fmt.Errorf("store: memory store: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

// Get returns a copy of the blob stored under key.
func (m *MemoryStore) Get(key string) ([]byte, error) {
	blob, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(blob), nil
}

// Put stores a copy of blob, evicting the least recently used entry when
// full.
func (m *MemoryStore) Put(key string, blob []byte) error {
	m.cache.Add(key, slices.Clone(blob))
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.cache.Remove(key)
	return nil
}

// Len returns the number of stored blobs.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}
