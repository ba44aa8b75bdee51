package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cultura-alerta/go-editais/internal/domain/models"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		return nil, false
	}

	return e.value, true
}

func (c *MemoryCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}

	c.entries[key] = e
}

func (c *MemoryCache) GetNotices(_ context.Context, key string) ([]models.Notice, error) {
	value, ok := c.get(KeyPrefix + key)
	if !ok {
		return nil, nil
	}

	notices := value.([]models.Notice)

	return append(make([]models.Notice, 0, len(notices)), notices...), nil
}

func (c *MemoryCache) SetNotices(_ context.Context, key string, notices []models.Notice) error {
	c.set(KeyPrefix+key, append(make([]models.Notice, 0, len(notices)), notices...))
	return nil
}

func (c *MemoryCache) GetSources(_ context.Context) ([]models.Source, error) {
	value, ok := c.get(KeyPrefix + "sources")
	if !ok {
		return nil, nil
	}

	sources := value.([]models.Source)

	return append(make([]models.Source, 0, len(sources)), sources...), nil
}

func (c *MemoryCache) SetSources(_ context.Context, sources []models.Source) error {
	c.set(KeyPrefix+"sources", append(make([]models.Source, 0, len(sources)), sources...))
	return nil
}

func (c *MemoryCache) GetCategories(_ context.Context) ([]string, error) {
	value, ok := c.get(KeyPrefix + "categories")
	if !ok {
		return nil, nil
	}

	categories := value.([]string)

	return append(make([]string, 0, len(categories)), categories...), nil
}

func (c *MemoryCache) SetCategories(_ context.Context, categories []string) error {
	c.set(KeyPrefix+"categories", append(make([]string, 0, len(categories)), categories...))
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)

	return nil
}

func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}
