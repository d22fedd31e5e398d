package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farringdon-press/boxoffice/internal/domain"
	redisx "github.com/farringdon-press/boxoffice/internal/redis"
	"github.com/farringdon-press/boxoffice/internal/repository"
	redisrepo "github.com/farringdon-press/boxoffice/internal/repository/redis"
)

// OrderReader is the read-side slice of the order store.
type OrderReader interface {
	GetByReference(ctx context.Context, ref string) (*domain.Order, error)
}

type Config struct {
	// OrderViewTTL keeps reads cheap while the success page polls for the
	// status flip. Short on purpose: staleness here delays the customer's
	// confirmation view.
	OrderViewTTL time.Duration
}

type Service struct {
	store OrderReader
	cache *redisrepo.Cache
	cfg   Config
}

func New(store OrderReader, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.OrderViewTTL <= 0 {
		cfg.OrderViewTTL = 5 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetOrder retrieves an order by its reference, read through the cache when
// one is configured.
//
// Returns:
//   - *domain.Order: the retrieved order.
//   - error: query.ErrOrderNotFound if the order is not found.
func (s *Service) GetOrder(ctx context.Context, ref string) (*domain.Order, error) {
	const op = "service.query.GetOrder"

	if s.cache == nil {
		o, err := s.load(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		return o, nil
	}

	order, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyOrderView(ref),
		s.cfg.OrderViewTTL,
		func(ctx context.Context) (domain.Order, error) {
			o, err := s.load(ctx, ref)
			if err != nil {
				return domain.Order{}, err
			}
			return *o, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &order, nil
}

func (s *Service) load(ctx context.Context, ref string) (*domain.Order, error) {
	o, err := s.store.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}
