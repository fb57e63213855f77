package repository

import (
	"context"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

// AdminRepository exposes persistence for admin users.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.AdminUser, error)
	GetByID(ctx context.Context, id string) (domain.AdminUser, error)
	// GetSole returns the single admin record for single-operator
	// deployments; with multiple admins it returns the oldest.
	GetSole(ctx context.Context) (domain.AdminUser, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, admin domain.AdminUser) (domain.AdminUser, error)
}

// ProviderLinkRepository exposes persistence for admin/provider bindings.
type ProviderLinkRepository interface {
	GetByProviderUserID(ctx context.Context, provider domain.Provider, providerUserID string) (domain.AuthProviderLink, error)
	// GetNewestByAdmin returns the most recently created link for the
	// admin and provider.
	GetNewestByAdmin(ctx context.Context, adminID string, provider domain.Provider) (domain.AuthProviderLink, error)
	Create(ctx context.Context, link domain.AuthProviderLink) (domain.AuthProviderLink, error)
	// Update rewrites a link in place. Absent token values keep the
	// previously stored ones, so a login that yields no refresh token
	// never erases one issued earlier.
	Update(ctx context.Context, link domain.AuthProviderLink) error
	ListStatus(ctx context.Context) ([]domain.LinkStatus, error)
}
