package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/reception-ifairy/iFairyhq/internal/config"
	"github.com/reception-ifairy/iFairyhq/internal/domain"
	"github.com/reception-ifairy/iFairyhq/internal/service"
)

// EnsureAdmin seeds the first admin from BOOTSTRAP_ADMIN_EMAIL at
// startup. It is a no-op when the variable is unset or an admin already
// exists, so the hook is safe to leave enabled in every environment.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, auth service.AuthService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, auth, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, auth service.AuthService, logger *zap.Logger) error {
	if cfg.BootstrapAdminEmail == "" {
		return nil
	}

	admin, err := auth.Bootstrap(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminName)
	if err != nil {
		if errors.Is(err, domain.ErrAdminExists) {
			return nil
		}
		return err
	}

	if logger != nil {
		logger.Info("bootstrap admin created",
			zap.String("email", admin.Email),
			zap.String("admin_id", admin.ID),
		)
	}
	return nil
}
