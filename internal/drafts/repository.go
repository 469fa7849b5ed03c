// Package drafts exposes the gateway API for in-progress purchasing
// documents: draft sessions, line edits, totals, numbering and submission.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-erp/procure-gateway/internal/document"
	"github.com/meridian-erp/procure-gateway/internal/platform/httpx"
)

// ErrNotFound indicates the draft id is unknown or expired.
var ErrNotFound = fmt.Errorf("drafts: draft not found: %w", httpx.ErrNotFound)

// Repository persists draft sessions.
type Repository interface {
	Save(ctx context.Context, draft document.Draft) error
	Get(ctx context.Context, id string) (document.Draft, error)
	Delete(ctx context.Context, id string) error
}

// redisRepository keeps one JSON document per draft, expiring with the TTL so
// abandoned forms clean themselves up.
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository constructs the Redis-backed draft repository.
func NewRepository(client *redis.Client, ttl time.Duration) Repository {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &redisRepository{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return "draft:" + id
}

func (r *redisRepository) Save(ctx context.Context, draft document.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("drafts: encode draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(draft.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("drafts: save draft: %w", err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (document.Draft, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return document.Draft{}, ErrNotFound
	}
	if err != nil {
		return document.Draft{}, fmt.Errorf("drafts: load draft: %w", err)
	}
	var draft document.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return document.Draft{}, fmt.Errorf("drafts: decode draft: %w", err)
	}
	return draft, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("drafts: delete draft: %w", err)
	}
	return nil
}
