// Package app wires configuration, storage, services and the HTTP server
// into a runnable process and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/onboarding-system/internal/api"
	"github.com/99minutos/onboarding-system/internal/api/handler"
	"github.com/99minutos/onboarding-system/internal/api/metrics"
	"github.com/99minutos/onboarding-system/internal/core/ports"
	"github.com/99minutos/onboarding-system/internal/core/service"
	"github.com/99minutos/onboarding-system/internal/infrastructure/db/mongo"
	"github.com/99minutos/onboarding-system/internal/infrastructure/db/redis"
	"github.com/99minutos/onboarding-system/internal/pkg/config"
	"github.com/99minutos/onboarding-system/pkg/logger"
)

type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	provider *mongo.Provider
	redis    *goredis.Client
	server   *echo.Echo
}

// New builds the application. MongoDB is connected in the background by the
// provider; Redis, when configured, must answer a ping.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Pretty:     cfg.IsDevelopment(),
		Service:    "onboarding-system",
		Deployment: cfg.DeploymentLabel,
	})

	provider := mongo.NewProvider(mongo.Config{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		RetryDelay: cfg.Mongo.RetryDelay,
	}, log.With().Str("component", "mongo").Logger())

	users := mongo.NewUserRepository(provider)
	provider.OnConnect(func() {
		metrics.ObserveDatabase(true)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.RetryDelay)
		defer cancel()
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Msg("ensure user indexes")
		}
	})
	provider.OnDisconnect(func() { metrics.ObserveDatabase(false) })

	readiness := map[string]handler.Pinger{"mongo": provider}

	var (
		rdb  *goredis.Client
		lock ports.RegistrationLocker
	)
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		rdb = client
		lock = redis.NewRegistrationLock(client, cfg.Redis.LockTTL)
		readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis registration lock enabled")
	}

	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(users, lock, tokens, cfg.Auth.BcryptCost, log.With().Str("component", "auth").Logger())
	profileSvc := service.NewProfileService(users, log.With().Str("component", "profile").Logger())

	e := api.NewRouter(api.Dependencies{
		AuthService:    authSvc,
		ProfileService: profileSvc,
		Tokens:         tokens,
		Log:            log,
		DBState:        func() string { return string(provider.State()) },
		Readiness:      readiness,
		Deployment:     cfg.DeploymentLabel,
		ExposeErrors:   cfg.ExposeErrors,
		CORSOrigins:    cfg.CORSOrigins,
	})

	return &App{cfg: cfg, log: log, provider: provider, redis: rdb, server: e}, nil
}

// Run starts the database supervisor and the HTTP server, and blocks until
// SIGINT/SIGTERM or a server failure.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.provider.Open(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("port", a.cfg.Port).
			Str("env", a.cfg.Env).
			Msg("onboarding system api starting")
		if err := a.server.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	return errors.Join(runErr, a.shutdown())
}

// shutdown drains HTTP traffic first, then releases storage.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.provider.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if len(errs) == 0 {
		a.log.Info().Msg("shutdown complete")
	}
	return errors.Join(errs...)
}
