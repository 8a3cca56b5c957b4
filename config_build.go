package newsgateway

import (
	"context"
	"fmt"

	"github.com/ferro-labs/news-gateway/internal/cache"
	"github.com/ferro-labs/news-gateway/providers"
)

// NewProvider creates the upstream provider described by cfg.
func NewProvider(cfg UpstreamConfig, opts ...providers.NewsAPIOption) (*providers.NewsAPIProvider, error) {
	opts = append(opts, providers.WithTimeout(cfg.Timeout.Std()))
	return providers.NewNewsAPI(cfg.APIKey, cfg.URL, opts...)
}

// NewCaches creates one cache per namespace on the configured backend. The
// returned close function releases the backend connection.
func NewCaches(ctx context.Context, cfg CacheConfig) (Caches, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", CacheMemory:
		build := func(name string) cache.Cache {
			return cache.NewMemory(name, cfg.Capacity, cfg.TTL.Std())
		}
		return newCaches(build), noop, nil
	case CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return Caches{}, noop, err
		}
		build := func(name string) cache.Cache {
			return cache.NewRedis(client, cfg.KeyPrefix, name, cfg.TTL.Std())
		}
		return newCaches(build), client.Close, nil
	default:
		return Caches{}, noop, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

func newCaches(build func(name string) cache.Cache) Caches {
	return Caches{
		Top:    build(cache.NamespaceTop),
		Search: build(cache.NamespaceSearch),
		Title:  build(cache.NamespaceTitle),
		Author: build(cache.NamespaceAuthor),
	}
}
