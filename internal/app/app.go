package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"

	"github.com/farringdon-press/boxoffice/internal/config"
	stripegw "github.com/farringdon-press/boxoffice/internal/gateway/stripe"
	"github.com/farringdon-press/boxoffice/internal/notifier/mail"
	"github.com/farringdon-press/boxoffice/internal/postgres"
	redisx "github.com/farringdon-press/boxoffice/internal/redis"
	postgresrepo "github.com/farringdon-press/boxoffice/internal/repository/postgres"
	redisrepo "github.com/farringdon-press/boxoffice/internal/repository/redis"
	"github.com/farringdon-press/boxoffice/internal/service"
	"github.com/farringdon-press/boxoffice/internal/service/orders"
	httpgin "github.com/farringdon-press/boxoffice/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	store      *postgresrepo.Store
	closeRedis func() error
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Payment gateway and mail transport
	gw := stripegw.New(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	mailOpts := []gomail.Option{gomail.WithPort(cfg.SMTP.Port)}
	if cfg.SMTP.Username != "" {
		mailOpts = append(mailOpts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTP.Username),
			gomail.WithPassword(cfg.SMTP.Password),
		)
	}

	mailClient, err := gomail.NewClient(cfg.SMTP.Host, mailOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail client: %w", err)
	}

	confirmations, err := mail.New(mailClient, cfg.SMTP.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewOrdersPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.KeyRateLimitPrefix("checkout"), 10, 1*time.Minute)
	dedup := redisrepo.NewWebhookDedup(rdb, 24*time.Hour)

	// Initialize services
	services := service.NewServices(
		store.Orders(),
		gw,
		confirmations,
		cache,
		pubsub,
		dedup,
		limiter,
		logger,
		service.Config{
			Orders: orders.Config{
				Currency:         cfg.Pricing.Currency,
				TicketUnitAmount: cfg.Pricing.TicketUnitAmount,
				BookUnitAmount:   cfg.Pricing.BookUnitAmount,
				SuccessURL:       cfg.Frontend.BaseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
				CancelURL:        cfg.Frontend.BaseURL + "/cancel",
			},
		},
	)

	// Initialize Gin router
	router := httpgin.NewRouter(services, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		store:      store,
		closeRedis: rdb.Close,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return a.httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	a.store.Close()
	if cerr := a.closeRedis(); cerr != nil {
		a.logger.Warn("redis close failed", "error", cerr)
	}

	return err
}
