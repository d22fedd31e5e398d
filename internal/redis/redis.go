// Package redisx holds the redis client, key namespace and pubsub channel
// shared by the caching, dedup and rate-limit layers.
package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects a redis client and pings it within a short deadline. Redis
// backs best-effort concerns only, but a misconfigured address should still
// fail loudly at startup.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	const op = "redisx.New"

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return client, nil
}
