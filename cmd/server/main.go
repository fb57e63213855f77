package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/reception-ifairy/iFairyhq/internal/bootstrap"
	"github.com/reception-ifairy/iFairyhq/internal/config"
	"github.com/reception-ifairy/iFairyhq/internal/http/handler"
	httptransport "github.com/reception-ifairy/iFairyhq/internal/http"
	apimiddleware "github.com/reception-ifairy/iFairyhq/internal/middleware"
	"github.com/reception-ifairy/iFairyhq/internal/oauthstate"
	"github.com/reception-ifairy/iFairyhq/internal/policy"
	"github.com/reception-ifairy/iFairyhq/internal/provider"
	"github.com/reception-ifairy/iFairyhq/internal/repository"
	"github.com/reception-ifairy/iFairyhq/internal/secretbox"
	"github.com/reception-ifairy/iFairyhq/internal/server"
	"github.com/reception-ifairy/iFairyhq/internal/service"
	"github.com/reception-ifairy/iFairyhq/internal/session"
	"github.com/reception-ifairy/iFairyhq/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newPGXPool,
			newAdminRepository,
			newProviderLinkRepository,
			newSecretBox,
			newSessionCodec,
			newPolicy,
			newStateGuard,
			newGoogleAdapter,
			newGitHubAdapter,
			newRateLimiter,
			service.NewAuthService,
			newGateway,
			newAuthHandler,
			newIntegrationsHandler,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureAdmin, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := repository.InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newAdminRepository(pool *pgxpool.Pool) repository.AdminRepository {
	return repository.NewPostgresAdminRepo(pool)
}

func newProviderLinkRepository(pool *pgxpool.Pool) repository.ProviderLinkRepository {
	return repository.NewPostgresProviderLinkRepo(pool)
}

func newSecretBox(cfg config.Config) *secretbox.Box {
	return secretbox.New(cfg.EncryptionKey)
}

func newSessionCodec(cfg config.Config) *session.Codec {
	return session.NewCodec(cfg.AdminSessionSecret)
}

func newPolicy(cfg config.Config, admins repository.AdminRepository) *policy.Policy {
	return policy.New(cfg.AllowedAdminEmails, cfg.AllowedGoogleDomain, admins)
}

func newStateGuard() *oauthstate.Guard {
	return oauthstate.NewGuard()
}

func newGoogleAdapter(cfg config.Config) *provider.Google {
	return provider.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
}

func newGitHubAdapter(cfg config.Config) *provider.GitHub {
	return provider.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURI)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newGateway(
	admins repository.AdminRepository,
	links repository.ProviderLinkRepository,
	box *secretbox.Box,
	google *provider.Google,
	codec *session.Codec,
) *service.Gateway {
	return service.NewGateway(admins, links, box, google, codec)
}

func newAuthHandler(
	auth service.AuthService,
	gateway *service.Gateway,
	guard *oauthstate.Guard,
	codec *session.Codec,
	google *provider.Google,
	github *provider.GitHub,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) *handler.AuthHandler {
	return handler.NewAuthHandler(auth, gateway, guard, codec, google, github, pool, logger)
}

func newIntegrationsHandler(
	gateway *service.Gateway,
	links repository.ProviderLinkRepository,
	logger *zap.Logger,
) *handler.IntegrationsHandler {
	return handler.NewIntegrationsHandler(gateway, links, logger)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
