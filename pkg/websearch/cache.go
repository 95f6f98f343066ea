package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ResultCache stores search results per query between requests. Caching
// lives at the adapter boundary; the orchestration core stays stateless.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]Result, bool)
	Set(ctx context.Context, key string, results []Result)
}

// RedisCache backs ResultCache with redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Result, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (c *RedisCache) Set(ctx context.Context, key string, results []Result) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// MemoryCache backs ResultCache with an in-process go-cache store, used when
// no redis is configured.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryCache{cache: gocache.New(ttl, 10*time.Minute)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]Result, bool) {
	if x, found := c.cache.Get(key); found {
		return x.([]Result), true
	}
	return nil, false
}

func (c *MemoryCache) Set(ctx context.Context, key string, results []Result) {
	c.cache.Set(key, results, gocache.DefaultExpiration)
}

// Cached decorates a provider with a ResultCache.
type Cached struct {
	provider Provider
	cache    ResultCache
}

var _ Provider = &Cached{}

func NewCached(provider Provider, cache ResultCache) *Cached {
	return &Cached{provider: provider, cache: cache}
}

func (c *Cached) Name() string {
	return c.provider.Name()
}

func (c *Cached) Search(ctx context.Context, query string) ([]Result, error) {
	key := cacheKey(c.provider.Name(), query)
	if results, found := c.cache.Get(ctx, key); found {
		return results, nil
	}

	results, err := c.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, key, results)
	return results, nil
}

func cacheKey(provider, query string) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("websearch:%s:%x", provider, sum[:8])
}
