// Command api runs the storefront HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/api"
	"github.com/sickfits/storefront-api/internal/api/handler"
	"github.com/sickfits/storefront-api/internal/core/service"
	"github.com/sickfits/storefront-api/internal/infrastructure/db/mongo"
	"github.com/sickfits/storefront-api/internal/infrastructure/db/redis"
	"github.com/sickfits/storefront-api/internal/infrastructure/mail"
	"github.com/sickfits/storefront-api/internal/infrastructure/payment"
	"github.com/sickfits/storefront-api/internal/infrastructure/queue"
	"github.com/sickfits/storefront-api/internal/pkg/config"
	"github.com/sickfits/storefront-api/pkg/logger"
)

//go:generate swag init -d ./,../../internal/api/handler -g main.go -o ../../docs

const shutdownTimeout = 10 * time.Second

//	@title			Storefront API
//	@version		1.0
//	@description	Accounts, catalog, cart and checkout for the storefront.
//	@BasePath		/
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not configured yet
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	items := mongo.NewItemRepository(db)
	carts := mongo.NewCartRepository(db)
	orders := mongo.NewOrderRepository(db)

	// --- Collaborators ---
	creds, err := service.NewCredentials(cfg.AppSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}
	gateway := payment.NewStripeGateway(payment.StripeConfig{SecretKey: cfg.Payment.StripeSecretKey}, logger.Component("payment"))
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := queue.NewDispatcher(cfg.SMTP.Workers, mailer, logger.Component("mail"))
	dispatcher.Start(ctx)
	locker := redis.NewCheckoutLocker(rdb, cfg.Checkout.LockTTL)

	// --- Services ---
	deps := api.Deps{
		Resolver: service.NewIdentityResolver(creds, users, logger.Component("identity")),
		Auth: service.NewAuthService(users, creds, dispatcher, service.AuthConfig{
			FrontendURL:   cfg.FrontendURL,
			ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		}, logger.Component("auth")),
		Users: service.NewUserService(users, logger.Component("users")),
		Items: service.NewItemService(items, logger.Component("items")),
		Carts: service.NewCartService(carts, items, logger.Component("cart")),
		Orders: service.NewOrderService(orders, carts, items, gateway, locker, service.CheckoutConfig{
			Currency:       cfg.Payment.Currency,
			PaymentTimeout: cfg.Payment.Timeout,
		}, logger.Component("checkout")),
		Health: map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
			"redis":   handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		FrontendURL:     cfg.FrontendURL,
		Cookie:          handler.CookieOptions{TTL: cfg.Auth.SessionTTL, Secure: cfg.IsProduction()},
		ExposeResetLink: cfg.Env == "development",
	}

	e := api.NewRouter(deps, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
