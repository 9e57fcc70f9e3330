package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/projpool-api/internal/service/auth"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "projpool:revoked:"
	revokedValue  = "1"
	notRevokedVal = "0"
)

// commander is the subset of redis.Cmdable used by the cache.
type commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RevocationCache stores token revocation state keyed by jti.
type RevocationCache struct {
	rdb commander
}

var _ auth.RevocationCache = (*RevocationCache)(nil)

// NewRevocationCache wraps a Redis client.
func NewRevocationCache(rdb redis.Cmdable) *RevocationCache {
	return &RevocationCache{rdb: rdb}
}

// Get implements auth.RevocationCache.
func (c *RevocationCache) Get(ctx context.Context, jti string) (bool, bool, error) {
	val, err := c.rdb.Get(ctx, key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("redis get: %w", err)
	}
	return val == revokedValue, true, nil
}

// Set implements auth.RevocationCache.
func (c *RevocationCache) Set(ctx context.Context, jti string, revoked bool, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key(jti), stateValue(revoked), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// SetIfAbsent implements auth.RevocationCache with SETNX.
func (c *RevocationCache) SetIfAbsent(ctx context.Context, jti string, revoked bool, ttl time.Duration) (bool, error) {
	stored, err := c.rdb.SetNX(ctx, key(jti), stateValue(revoked), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return stored, nil
}

// Delete implements auth.RevocationCache.
func (c *RevocationCache) Delete(ctx context.Context, jti string) error {
	if err := c.rdb.Del(ctx, key(jti)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func key(jti string) string {
	return keyPrefix + jti
}

func stateValue(revoked bool) string {
	if revoked {
		return revokedValue
	}
	return notRevokedVal
}
