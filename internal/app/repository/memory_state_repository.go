package repository

import (
	"context"
	"sync"
)

// MemoryStateRepository keeps state in process memory. Nothing survives a
// restart; it backs development runs and tests.
type MemoryStateRepository struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{items: make(map[string]string)}
}

func (r *MemoryStateRepository) Load(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.items[key]
	return val, ok, nil
}

func (r *MemoryStateRepository) Save(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key)
	return nil
}

// Len reports the number of stored keys.
func (r *MemoryStateRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
