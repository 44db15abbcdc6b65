package staging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "staging:"

// RedisStore implements Store on Redis. GETDEL makes Consume atomic across
// console instances, so a redirect initiated on one instance can be
// reconciled on another.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed staging store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("staging: put %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	value, err := s.client.GetDel(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("staging: consume %q: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("staging: delete %q: %w", key, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
