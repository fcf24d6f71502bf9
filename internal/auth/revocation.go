package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out access tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisRevocations keeps revoked token hashes in Redis with a TTL.
type RedisRevocations struct {
	client *redis.Client
}

func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func (r *RedisRevocations) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}

func (r *RedisRevocations) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(token), 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
