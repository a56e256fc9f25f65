package memory

import (
	"context"
	"sync"
)

// MemoryStorage - in-memory реализация storage.KV (тесты и KV_MODE=memory)
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// New создаёт пустое хранилище
func New() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
