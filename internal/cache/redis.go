package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferro-labs/news-gateway/internal/logging"
	"github.com/ferro-labs/news-gateway/providers"
)

// DefaultKeyPrefix prefixes every Redis key written by the gateway.
const DefaultKeyPrefix = "newsgw"

// Redis is a cache namespace stored in Redis as JSON under
// "<prefix>:<namespace>:<key>". The absence marker is stored as JSON null.
// Redis failures degrade to a miss; they are logged, never returned.
type Redis struct {
	client *redis.Client
	name   string
	prefix string
	ttl    time.Duration
}

// NewRedisClient parses url (redis://...) and checks the connection. A bare
// host:port is accepted as well.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis creates a Redis-backed namespace on an existing client. A zero
// ttl stores entries without expiry.
func NewRedis(client *redis.Client, prefix, name string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, name: name, prefix: prefix, ttl: ttl}
}

// Name returns the namespace.
func (r *Redis) Name() string { return r.name }

func (r *Redis) key(k string) string {
	return r.prefix + ":" + r.name + ":" + k
}

// Get loads and decodes the entry for key.
func (r *Redis) Get(ctx context.Context, key string) ([]providers.Article, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.FromContext(ctx).Warn("redis cache get failed", "namespace", r.name, "error", err)
		}
		return nil, false
	}
	var articles []providers.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		logging.FromContext(ctx).Warn("redis cache entry undecodable", "namespace", r.name, "error", err)
		return nil, false
	}
	return articles, true
}

// Set encodes articles and stores them under key.
func (r *Redis) Set(ctx context.Context, key string, articles []providers.Article) {
	data, err := json.Marshal(articles)
	if err != nil {
		logging.FromContext(ctx).Warn("redis cache encode failed", "namespace", r.name, "error", err)
		return
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		logging.FromContext(ctx).Warn("redis cache set failed", "namespace", r.name, "error", err)
	}
}

// Len counts the keys of this namespace with SCAN.
func (r *Redis) Len(ctx context.Context) int {
	n := 0
	iter := r.client.Scan(ctx, 0, r.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		logging.FromContext(ctx).Warn("redis cache scan failed", "namespace", r.name, "error", err)
	}
	return n
}
