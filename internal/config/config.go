package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Stripe   StripeConfig
	SMTP     SMTPConfig
	Frontend FrontendConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type FrontendConfig struct {
	BaseURL string
}

// PricingConfig holds the authoritative server-side prices in minor currency
// units. Client-supplied prices are never trusted.
type PricingConfig struct {
	Currency         string
	TicketUnitAmount int64
	BookUnitAmount   int64
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "localhost"
	}

	smtpPort, err := intEnv("SMTP_PORT", 1025)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = "orders@farringdonpress.example"
	}

	frontendBaseURL := os.Getenv("FRONTEND_BASE_URL")
	if frontendBaseURL == "" {
		frontendBaseURL = "http://localhost:3000"
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "gbp"
	}

	ticketUnitAmount, err := int64Env("TICKET_UNIT_AMOUNT", 1500)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	bookUnitAmount, err := int64Env("BOOK_UNIT_AMOUNT", 2200)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Host: serverHost,
			Port: serverPort,
		},
		Postgres: PostgresConfig{
			User:     postgresUser,
			Password: postgresPassword,
			Name:     postgresDB,
			Host:     postgresHost,
			Port:     postgresPort,
			SSLMode:  postgresSSLMode,
		},
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
		SMTP: SMTPConfig{
			Host:     smtpHost,
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     smtpFrom,
		},
		Frontend: FrontendConfig{
			BaseURL: strings.TrimRight(frontendBaseURL, "/"),
		},
		Pricing: PricingConfig{
			Currency:         currency,
			TicketUnitAmount: ticketUnitAmount,
			BookUnitAmount:   bookUnitAmount,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return cfg, nil
}

// validate enforces that a production process cannot start with missing
// secrets; failures must be reported at startup, not on first use.
func (c *Config) validate() error {
	if !c.Production() {
		return nil
	}

	var missing []string

	if c.Stripe.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.Stripe.WebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.SMTP.Username == "" {
		missing = append(missing, "SMTP_USERNAME")
	}
	if c.SMTP.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if os.Getenv("FRONTEND_BASE_URL") == "" {
		missing = append(missing, "FRONTEND_BASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required production configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}

func int64Env(name string, def int64) (int64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return v, nil
}
