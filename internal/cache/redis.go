// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the cache with a Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to host:port. The connection is verified lazily;
// an unreachable server surfaces as a store error on first use and the cache
// degrades to disabled.
func NewRedisStore(host string, port int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:        fmt.Sprintf("%s:%d", host, port),
			DialTimeout: 5 * time.Second,
		}),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, val, ttl).Err()
}

// Ping reports Redis reachability for the health endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }
