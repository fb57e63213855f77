package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
	"github.com/reception-ifairy/iFairyhq/internal/policy"
	"github.com/reception-ifairy/iFairyhq/internal/provider"
	"github.com/reception-ifairy/iFairyhq/internal/repository"
	"github.com/reception-ifairy/iFairyhq/internal/secretbox"
)

// AuthService orchestrates admin sign-in and account management.
type AuthService interface {
	// HandleCallback exchanges the authorization code, resolves the
	// external identity, checks admin policy and upserts both the admin
	// record and the provider link. It returns the admin the session
	// should be minted for.
	HandleCallback(ctx context.Context, adapter provider.Adapter, code string) (domain.AdminUser, error)
	// Bootstrap creates the first admin without an OAuth round trip.
	// It fails once any admin exists.
	Bootstrap(ctx context.Context, email, fullName string) (domain.AdminUser, error)
	Me(ctx context.Context, adminID string) (domain.AdminUser, error)
}

type authService struct {
	admins repository.AdminRepository
	links  repository.ProviderLinkRepository
	policy *policy.Policy
	box    *secretbox.Box
	logger *zap.Logger
}

// NewAuthService wires the auth service implementation.
func NewAuthService(
	admins repository.AdminRepository,
	links repository.ProviderLinkRepository,
	adminPolicy *policy.Policy,
	box *secretbox.Box,
	logger *zap.Logger,
) AuthService {
	return &authService{
		admins: admins,
		links:  links,
		policy: adminPolicy,
		box:    box,
		logger: logger,
	}
}

func (s *authService) HandleCallback(ctx context.Context, adapter provider.Adapter, code string) (domain.AdminUser, error) {
	if strings.TrimSpace(code) == "" {
		return domain.AdminUser{}, domain.ErrMissingCode
	}

	token, err := adapter.Exchange(ctx, code)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("exchange code: %w", err)
	}

	identity, err := adapter.FetchIdentity(ctx, token)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("fetch identity: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return domain.AdminUser{}, domain.ErrNoEmail
	}

	allowed, err := s.policy.CanLoginAsAdmin(ctx, email)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("check policy: %w", err)
	}
	if !allowed {
		s.log().Warn("admin login denied",
			zap.String("provider", string(adapter.Name())),
			zap.String("email", email))
		return domain.AdminUser{}, domain.ErrNotAllowed
	}

	admin, err := s.ensureAdmin(ctx, email, identity.FullName)
	if err != nil {
		return domain.AdminUser{}, err
	}

	if err := s.upsertLink(ctx, admin.ID, adapter.Name(), identity, token); err != nil {
		return domain.AdminUser{}, err
	}

	s.log().Info("admin login",
		zap.String("provider", string(adapter.Name())),
		zap.String("admin_id", admin.ID))
	return admin, nil
}

func (s *authService) ensureAdmin(ctx context.Context, email, fullName string) (domain.AdminUser, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.AdminUser{}, fmt.Errorf("get admin: %w", err)
	}

	name := strings.TrimSpace(fullName)
	if name == "" {
		name = email
	}
	created, err := s.admins.Create(ctx, domain.AdminUser{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: name,
		Role:     "admin",
		IsActive: true,
	})
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("create admin: %w", err)
	}
	return created, nil
}

func (s *authService) upsertLink(ctx context.Context, adminID string, providerName domain.Provider, identity *provider.Identity, token *oauth2.Token) error {
	access, err := s.encryptOptional(token.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	refresh, err := s.encryptOptional(token.RefreshToken)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}

	link := domain.AuthProviderLink{
		AdminID:        adminID,
		Provider:       providerName,
		ProviderUserID: identity.ProviderUserID,
		ProviderEmail:  strings.ToLower(strings.TrimSpace(identity.Email)),
		AccessToken:    access,
		RefreshToken:   refresh,
		Scopes:         identity.Scopes,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		link.ExpiresAt = &expiry
	}

	existing, err := s.links.GetByProviderUserID(ctx, providerName, identity.ProviderUserID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get provider link: %w", err)
		}
		link.ID = uuid.NewString()
		if _, err := s.links.Create(ctx, link); err != nil {
			return fmt.Errorf("create provider link: %w", err)
		}
		return nil
	}

	link.ID = existing.ID
	link.AdminID = existing.AdminID
	if err := s.links.Update(ctx, link); err != nil {
		return fmt.Errorf("update provider link: %w", err)
	}
	return nil
}

func (s *authService) encryptOptional(value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	sealed, err := s.box.Encrypt(value)
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}

func (s *authService) Bootstrap(ctx context.Context, email, fullName string) (domain.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.AdminUser{}, domain.ErrNoEmail
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return domain.AdminUser{}, domain.ErrAdminExists
	}

	admin, err := s.ensureAdmin(ctx, email, fullName)
	if err != nil {
		return domain.AdminUser{}, err
	}
	s.log().Info("bootstrap admin created", zap.String("admin_id", admin.ID))
	return admin, nil
}

func (s *authService) Me(ctx context.Context, adminID string) (domain.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AdminUser{}, domain.ErrAdminNotFound
		}
		return domain.AdminUser{}, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

func (s *authService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
