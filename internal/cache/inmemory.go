package cache

import (
	"context"
	"strings"
	"time"

	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/logger"
	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Hour

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
	logger  *logger.Logger
}

// NewInMemoryCache creates a process local cache; a disabled cache never stores anything
func NewInMemoryCache(cfg *config.Configuration, log *logger.Logger) *InMemoryCache {
	log.Infow("initializing cache", "enabled", cfg.Cache.Enabled)
	return &InMemoryCache{
		cache:   goCache.New(DefaultExpiration, DefaultCleanupInterval),
		enabled: cfg.Cache.Enabled,
		logger:  log,
	}
}

// NewLocalCache creates an always enabled cache owned by one component, whose
// entries expire after ttl unless they are set again
func NewLocalCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		cache:   goCache.New(ttl, ttl),
		enabled: true,
		logger:  logger.NewNopLogger(),
	}
}

// NewCache exposes the in-memory cache behind the Cache interface
func NewCache(c *InMemoryCache) Cache {
	return c
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}
