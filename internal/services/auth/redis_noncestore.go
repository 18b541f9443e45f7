package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNonceStore backs the nonce contract with a shared Redis instance for
// multi-instance deployments. GETDEL keeps Take atomic, SET's TTL keeps
// expiry server-side.
type RedisNonceStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ NonceStore = (*RedisNonceStore)(nil)

func NewRedisNonceStore(client *redis.Client, ttl time.Duration) *RedisNonceStore {
	return &RedisNonceStore{client: client, ttl: ttl}
}

func nonceKey(wallet string) string {
	return "auth:nonce:" + wallet
}

func (s *RedisNonceStore) Put(ctx context.Context, wallet, nonce string) error {
	err := s.client.Set(ctx, nonceKey(wallet), nonce, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("store nonce: %w", err)
	}

	return nil
}

func (s *RedisNonceStore) Take(ctx context.Context, wallet string) (string, bool, error) {
	nonce, err := s.client.GetDel(ctx, nonceKey(wallet)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("take nonce: %w", err)
	}

	return nonce, true, nil
}
