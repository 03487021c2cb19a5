package store

import (
	"context"
	"errors"
	"time"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/redis/go-redis/v9"
)

var _ shortener.Cache = (*RedisCache)(nil)

// RedisCache stores code -> long URL entries under "shortUrls::<code>".
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A zero ttl keeps entries until evicted.
// The client is owned by the caller.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "shortUrls::",
		ttl:    ttl,
	}
}

func (r *RedisCache) Get(ctx context.Context, code shortener.Code) (string, bool, error) {
	longURL, err := r.client.Get(ctx, r.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, err
	}

	return longURL, true, nil
}

func (r *RedisCache) Set(ctx context.Context, code shortener.Code, longURL string) error {
	return r.client.Set(ctx, r.key(code), longURL, r.ttl).Err()
}

func (r *RedisCache) key(code shortener.Code) string {
	return r.prefix + string(code)
}
