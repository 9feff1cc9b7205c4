package kv

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps values in process memory. With a quota it behaves like a
// browser's local storage: writes that would grow the total size of keys and
// values past the quota fail and leave the previous value in place.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]string
	size  int
	quota int
}

// NewMemoryStore creates a memory store. quota <= 0 means unbounded.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]string),
		quota: quota,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.size + len(value)
	if old, ok := s.data[key]; ok {
		size -= len(old)
	} else {
		size += len(key)
	}

	if s.quota > 0 && size > s.quota {
		return ErrQuotaExceeded
	}

	s.data[key] = value
	s.size = size
	return nil
}

// Size returns the bytes currently accounted against the quota.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// IsHealthy reports false once the quota is used up, since every further
// write that grows a value will fail.
func (s *MemoryStore) IsHealthy(context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quota > 0 && s.size >= s.quota {
		return false, ErrQuotaExceeded
	}
	return true, nil
}
