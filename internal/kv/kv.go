package kv

import (
	"context"
	"fmt"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const anonymous = "anon"

// Store is a small string-keyed byte store. Get returns nil, nil for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}

// UserKey namespaces prefix by user id, falling back to "anon" when logged out.
func UserKey(prefix, userID string) string {
	if userID == "" {
		userID = anonymous
	}
	return prefix + "." + userID
}

// DiskStore keeps each key in its own file under a base directory.
type DiskStore struct {
	d *diskv.Diskv
}

func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 256 * 1024,
	})}
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	if !s.d.Has(key) {
		return nil, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return val, nil
}

func (s *DiskStore) Set(_ context.Context, key string, val []byte) error {
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("erase %s: %w", key, err)
	}
	return nil
}

// MemoryStore is a Store held in a map, used by tests and ephemeral clients.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), val...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), val...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
