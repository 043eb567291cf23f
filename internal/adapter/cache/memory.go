package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"todos/internal/core/port"
)

type memoryRepository struct {
	store *gocache.Cache
}

// NewMemoryRepository returns an in-process cache backend. Default when
// no CACHE_URL is configured, and what the tests run against.
func NewMemoryRepository() port.CacheRepository {
	return &memoryRepository{
		store: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (m *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

func (m *memoryRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found := m.store.Get(key)

	if !found {
		return nil, false, nil
	}

	return value.([]byte), true, nil
}

func (m *memoryRepository) Delete(ctx context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *memoryRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range m.store.Items() {
		if strings.HasPrefix(key, prefix) {
			m.store.Delete(key)
		}
	}

	return nil
}

func (m *memoryRepository) Close() error {
	m.store.Flush()
	return nil
}
