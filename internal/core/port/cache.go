package port

import (
	"context"
	"time"
)

// CacheRepository abstracts the response cache backend so the HTTP layer
// can run against an in-process store or Redis without changes.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}
