package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AppSecret signs session tokens and has no default.
	AppSecret   string `env:"APP_SECRET, required"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:7777"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Checkout CheckoutConfig
	SMTP     SMTPConfig
}

type AuthConfig struct {
	SessionTTL    time.Duration `env:"SESSION_TTL,     default=168h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type PaymentConfig struct {
	StripeSecretKey string        `env:"STRIPE_SECRET_KEY"`
	Currency        string        `env:"STRIPE_CURRENCY, default=usd"`
	Timeout         time.Duration `env:"PAYMENT_TIMEOUT, default=15s"`
}

type CheckoutConfig struct {
	LockTTL time.Duration `env:"CHECKOUT_LOCK_TTL, default=60s"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST,     default=localhost"`
	Port     int    `env:"SMTP_PORT,     default=1025"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM,     default=noreply@sickfits.local"`
	Workers  int    `env:"MAIL_WORKERS,  default=2"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Checkout.LockTTL <= c.Payment.Timeout {
		errs = append(errs, fmt.Errorf("CHECKOUT_LOCK_TTL (%s) must exceed PAYMENT_TIMEOUT (%s)", c.Checkout.LockTTL, c.Payment.Timeout))
	}
	if c.IsProduction() && c.Payment.StripeSecretKey == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY is required in production"))
	}
	if c.Auth.SessionTTL <= 0 || c.Auth.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL and RESET_TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
