package context

import (
	"context"
	"sync"
)

type contextKey struct{}

// Current carries request-scoped metadata (request id, client address,
// route) so any layer can annotate logs without threading extra
// parameters around.
type Current struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewCurrent() *Current {
	return &Current{values: make(map[string]string)}
}

func (c *Current) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
}

func (c *Current) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.values[key]
}

func (c *Current) ToMap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.values))

	for key, value := range c.values {
		out[key] = value
	}

	return out
}

func SetCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, contextKey{}, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(contextKey{}).(*Current)
	return current, ok
}
