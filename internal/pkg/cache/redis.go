// Package cache is a small key/value cache on Redis, namespaced per service.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get returns "" and no error for a missing key.
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

type RedisCache struct {
	client      *redis.Client
	serviceName string
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(addr, serviceName string) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: addr}), serviceName)
}

func NewRedisCacheWithClient(client *redis.Client, serviceName string) *RedisCache {
	return &RedisCache{client: client, serviceName: serviceName}
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cache: get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
