package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	redisx "github.com/farringdon-press/boxoffice/internal/redis"
)

// WebhookDedup remembers which provider event IDs have already been applied,
// so a redelivered webhook short-circuits before touching the store. It is a
// best-effort fast path: the conditional status update on the order row
// remains the correctness mechanism, this only saves round trips under
// provider retry storms.
type WebhookDedup struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewWebhookDedup(rdb *redis.Client, ttl time.Duration) *WebhookDedup {
	return &WebhookDedup{rdb: rdb, ttl: ttl}
}

// MarkProcessed records the event as durably applied. Called only after the
// store write has committed.
func (d *WebhookDedup) MarkProcessed(ctx context.Context, eventID string) error {
	return d.rdb.Set(ctx, redisx.KeyWebhookEvent(eventID), "DONE", d.ttl).Err()
}

// Processed reports whether the event has already been durably applied.
func (d *WebhookDedup) Processed(ctx context.Context, eventID string) (bool, error) {
	v, err := d.rdb.Get(ctx, redisx.KeyWebhookEvent(eventID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "DONE", nil
}
