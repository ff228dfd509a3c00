// Package cache holds the Redis-backed blacklist of logged-out tokens.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// Blacklist is consulted on every authenticated request and written on
// logout. Entries expire together with the token they shadow.
type Blacklist interface {
	Add(ctx context.Context, tokenHash string, ttl time.Duration) error
	Contains(ctx context.Context, tokenHash string) (bool, error)
}

type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (r *RedisBlacklist) Add(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; keep the key for a moment anyway so the
		// logout is observable.
		ttl = time.Second
	}
	return r.client.Set(ctx, blacklistPrefix+tokenHash, "1", ttl).Err()
}

func (r *RedisBlacklist) Contains(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
