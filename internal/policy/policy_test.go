package policy

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

type fakeAdminRepo struct {
	admins []domain.AdminUser
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (domain.AdminUser, error) {
	for _, admin := range f.admins {
		if strings.EqualFold(admin.Email, email) {
			return admin, nil
		}
	}
	return domain.AdminUser{}, pgx.ErrNoRows
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id string) (domain.AdminUser, error) {
	for _, admin := range f.admins {
		if admin.ID == id {
			return admin, nil
		}
	}
	return domain.AdminUser{}, pgx.ErrNoRows
}

func (f *fakeAdminRepo) GetSole(_ context.Context) (domain.AdminUser, error) {
	if len(f.admins) == 0 {
		return domain.AdminUser{}, pgx.ErrNoRows
	}
	return f.admins[0], nil
}

func (f *fakeAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepo) Create(_ context.Context, admin domain.AdminUser) (domain.AdminUser, error) {
	f.admins = append(f.admins, admin)
	return admin, nil
}

func TestAllowListIsAuthoritative(t *testing.T) {
	repo := &fakeAdminRepo{admins: []domain.AdminUser{{ID: "a1", Email: "existing@example.com"}}}
	p := New([]string{"Alice@Example.com", "bob@example.com"}, "other.org", repo)

	allowed, err := p.CanLoginAsAdmin(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.True(t, allowed)

	// Existing admins and domain matches do not override the list.
	allowed, err = p.CanLoginAsAdmin(context.Background(), "existing@example.com")
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = p.CanLoginAsAdmin(context.Background(), "someone@other.org")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestDomainSuffixMatch(t *testing.T) {
	p := New(nil, "ifairy.co.uk", &fakeAdminRepo{})

	allowed, err := p.CanLoginAsAdmin(context.Background(), "Team@iFairy.co.UK")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = p.CanLoginAsAdmin(context.Background(), "team@evil-ifairy.co.uk.example.com")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestFirstAdminBootstrapsViaLogin(t *testing.T) {
	p := New(nil, "", &fakeAdminRepo{})

	allowed, err := p.CanLoginAsAdmin(context.Background(), "anyone@anywhere.example")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestDoorClosesAfterFirstAdmin(t *testing.T) {
	repo := &fakeAdminRepo{admins: []domain.AdminUser{{ID: "a1", Email: "alice@example.com"}}}
	p := New(nil, "", repo)

	allowed, err := p.CanLoginAsAdmin(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = p.CanLoginAsAdmin(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestEmptyEmailDenied(t *testing.T) {
	p := New(nil, "", &fakeAdminRepo{})
	allowed, err := p.CanLoginAsAdmin(context.Background(), "  ")
	require.NoError(t, err)
	require.False(t, allowed)
}
