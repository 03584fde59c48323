package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStorage - process-local fallback with the same JSON semantics as RedisStorage.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string][]byte),
	}
}

func (that *MemoryStorage) GetJSON(_ context.Context, key string, dst any) error {
	that.mu.RLock()
	data, ok := that.values[key]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return nil
}

func (that *MemoryStorage) SetJSON(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", key, err)
	}

	that.mu.Lock()
	that.values[key] = data
	that.mu.Unlock()

	return nil
}

func (that *MemoryStorage) Remove(_ context.Context, key string) error {
	that.mu.Lock()
	delete(that.values, key)
	that.mu.Unlock()

	return nil
}

func (that *MemoryStorage) Clear(_ context.Context) error {
	that.mu.Lock()
	that.values = make(map[string][]byte)
	that.mu.Unlock()

	return nil
}

func (that *MemoryStorage) Close() error {
	return nil
}
