package auth

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out token ids until they would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevocationStore struct {
	c      *goredis.Client
	prefix string
}

func NewRedisRevocationStore(c *goredis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{c: c, prefix: "taskhive:revoked:"}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.c.Set(ctx, s.prefix+jti, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.c.Get(ctx, s.prefix+jti).Err()

	if errors.Is(err, goredis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
