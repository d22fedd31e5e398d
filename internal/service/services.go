package service

import (
	"log/slog"

	"github.com/farringdon-press/boxoffice/internal/notifier"
	redisx "github.com/farringdon-press/boxoffice/internal/redis"
	redisrepo "github.com/farringdon-press/boxoffice/internal/repository/redis"
	"github.com/farringdon-press/boxoffice/internal/service/orders"
	"github.com/farringdon-press/boxoffice/internal/service/query"
)

type Services struct {
	Orders *orders.Service
	Query  *query.Service
}

type Config struct {
	Orders orders.Config
	Query  query.Config
}

func NewServices(
	store orders.OrderStore,
	gw orders.Gateway,
	n notifier.Notifier,
	cache *redisrepo.Cache,
	pubsub *redisx.OrdersPubSub,
	dedup *redisrepo.WebhookDedup,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Orders: orders.New(store, gw, n, cache, pubsub, dedup, limiter, logger, cfg.Orders),
		Query:  query.New(store, cache, cfg.Query),
	}
}
