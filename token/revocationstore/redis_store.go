package revocationstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/reforged/reforged/token"
)

var _ token.RevocationStore = (*RedisStore)(nil)

// RedisStore is a Redis-backed RevocationStore, for deployments where
// logout must take effect across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "reforged:revoked:",
	}
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	key := s.prefix + jti
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Revoke] set")
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := s.prefix + jti
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, "[RedisStore.IsRevoked] exists")
	}
	return val > 0, nil
}
