// Package store wraps the Redis connection used for revoked bearer tokens.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects using a redis:// or rediss:// URL.
func NewRedisClient(url string) (*RedisClient, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	log.Printf("Connecting to Redis at %s (db %d)", opt.Addr, opt.DB)
	return &RedisClient{client: redis.NewClient(opt)}, nil
}

func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// Revoke marks jti as revoked until ttl elapses, which should match the token's remaining lifetime.
func (rc *RedisClient) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return rc.client.Set(ctx, RevokedTokenKey(jti), 1, ttl).Err()
}

func (rc *RedisClient) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := rc.client.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf("bookclub:revoked_token:%s", jti)
}
