package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces our keys in a shared Redis instance.
const keyPrefix = "onehandle:"

// RedisBackend persists values as plain Redis strings.
type RedisBackend struct {
	client *redis.Client
}

// OpenRedis connects to the Redis instance at addr and verifies it
// responds to a ping.
func OpenRedis(addr string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &RedisBackend{client: client}, nil
}

// Get returns the stored value for key.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get key %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value for key. No expiry — favorites live until
// removed.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set key %q: %w", key, err)
	}
	return nil
}

// Close closes the client connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
