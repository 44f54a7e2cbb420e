// Package cache provides the key/value stores used for cache-aside reads.
//
// Values are JSON encoded so a Store can be swapped between Redis and the
// in-process memory driver without touching callers.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/catalog/config"
)

// Store is the cache contract. Get reports a miss as (false, nil).
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Connect builds the Store selected by CACHE_DRIVER. When Redis is selected
// but unreachable, a no-op store is returned together with the ping error so
// the caller can log a warning and keep serving.
func Connect(ctx context.Context) (Store, error) {
	switch config.CacheDriver() {
	case "memory":
		return NewMemory(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return Nop(), fmt.Errorf("cache: redis ping: %w", err)
		}
		return NewRedis(client), nil
	default:
		return Nop(), nil
	}
}

type nopStore struct{}

// Nop returns a Store that never hits and silently drops writes.
func Nop() Store { return nopStore{} }

func (nopStore) Get(context.Context, string, interface{}) (bool, error)      { return false, nil }
func (nopStore) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (nopStore) Del(context.Context, ...string) error                          { return nil }
