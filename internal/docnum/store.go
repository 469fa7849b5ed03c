package docnum

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// Store persists the last known number per document type so local fallback
// survives restarts.
type Store interface {
	LastNumber(ctx context.Context, t document.Type) (string, error)
	SetLastNumber(ctx context.Context, t document.Type, number string) error
}

// RedisStore keeps last known numbers in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(t document.Type) string {
	return fmt.Sprintf("docnum:last:%s", t)
}

// LastNumber returns the stored number, or empty when none is known.
func (s *RedisStore) LastNumber(ctx context.Context, t document.Type) (string, error) {
	value, err := s.client.Get(ctx, s.key(t)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("docnum: load last number: %w", err)
	}
	return value, nil
}

// SetLastNumber stores the most recently displayed or consumed number.
func (s *RedisStore) SetLastNumber(ctx context.Context, t document.Type, number string) error {
	if err := s.client.Set(ctx, s.key(t), number, 0).Err(); err != nil {
		return fmt.Errorf("docnum: store last number: %w", err)
	}
	return nil
}
