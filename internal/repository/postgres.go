package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

// Compile-time interface assertions.
var (
	_ AdminRepository        = (*PostgresAdminRepo)(nil)
	_ ProviderLinkRepository = (*PostgresProviderLinkRepo)(nil)
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS admin_user (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'admin',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admin_auth_provider (
	id TEXT PRIMARY KEY,
	admin_id TEXT NOT NULL REFERENCES admin_user(id),
	provider TEXT NOT NULL,
	provider_user_id TEXT NOT NULL,
	provider_email TEXT NOT NULL,
	access_token TEXT,
	refresh_token TEXT,
	expires_at TIMESTAMPTZ,
	scopes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (provider, provider_user_id)
);

CREATE INDEX IF NOT EXISTS idx_admin_auth_provider_admin
	ON admin_auth_provider (admin_id, provider, created_at DESC);
`

// InitSchema creates the tables this subsystem owns.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// PostgresAdminRepo implements AdminRepository on pgx.
type PostgresAdminRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAdminRepo(pool *pgxpool.Pool) *PostgresAdminRepo {
	return &PostgresAdminRepo{db: pool}
}

const adminColumns = `id, email, full_name, role, is_active, created_at`

func (r *PostgresAdminRepo) GetByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_user WHERE lower(email) = lower($1) LIMIT 1`, email)
	admin, err := scanAdmin(row)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("get admin by email: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepo) GetByID(ctx context.Context, id string) (domain.AdminUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_user WHERE id = $1 LIMIT 1`, id)
	admin, err := scanAdmin(row)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("get admin by id: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepo) GetSole(ctx context.Context) (domain.AdminUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_user ORDER BY created_at ASC LIMIT 1`)
	admin, err := scanAdmin(row)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("get sole admin: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_user`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

func (r *PostgresAdminRepo) Create(ctx context.Context, admin domain.AdminUser) (domain.AdminUser, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO admin_user (id, email, full_name)
		 VALUES ($1, $2, $3)
		 RETURNING `+adminColumns,
		admin.ID, admin.Email, admin.FullName)
	created, err := scanAdmin(row)
	if err != nil {
		return domain.AdminUser{}, fmt.Errorf("create admin: %w", err)
	}
	return created, nil
}

// PostgresProviderLinkRepo implements ProviderLinkRepository on pgx.
type PostgresProviderLinkRepo struct {
	db *pgxpool.Pool
}

func NewPostgresProviderLinkRepo(pool *pgxpool.Pool) *PostgresProviderLinkRepo {
	return &PostgresProviderLinkRepo{db: pool}
}

const linkColumns = `id, admin_id, provider, provider_user_id, provider_email,
	access_token, refresh_token, expires_at, scopes, created_at`

func (r *PostgresProviderLinkRepo) GetByProviderUserID(ctx context.Context, provider domain.Provider, providerUserID string) (domain.AuthProviderLink, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM admin_auth_provider
		 WHERE provider = $1 AND provider_user_id = $2 LIMIT 1`,
		provider, providerUserID)
	link, err := scanLink(row)
	if err != nil {
		return domain.AuthProviderLink{}, fmt.Errorf("get provider link: %w", err)
	}
	return link, nil
}

func (r *PostgresProviderLinkRepo) GetNewestByAdmin(ctx context.Context, adminID string, provider domain.Provider) (domain.AuthProviderLink, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM admin_auth_provider
		 WHERE admin_id = $1 AND provider = $2
		 ORDER BY created_at DESC LIMIT 1`,
		adminID, provider)
	link, err := scanLink(row)
	if err != nil {
		return domain.AuthProviderLink{}, fmt.Errorf("get newest link: %w", err)
	}
	return link, nil
}

func (r *PostgresProviderLinkRepo) Create(ctx context.Context, link domain.AuthProviderLink) (domain.AuthProviderLink, error) {
	scopes, err := encodeScopes(link.Scopes)
	if err != nil {
		return domain.AuthProviderLink{}, err
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO admin_auth_provider
		 (id, admin_id, provider, provider_user_id, provider_email, access_token, refresh_token, expires_at, scopes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+linkColumns,
		link.ID, link.AdminID, link.Provider, link.ProviderUserID, link.ProviderEmail,
		link.AccessToken, link.RefreshToken, link.ExpiresAt, scopes)
	created, err := scanLink(row)
	if err != nil {
		return domain.AuthProviderLink{}, fmt.Errorf("create provider link: %w", err)
	}
	return created, nil
}

func (r *PostgresProviderLinkRepo) Update(ctx context.Context, link domain.AuthProviderLink) error {
	scopes, err := encodeScopes(link.Scopes)
	if err != nil {
		return err
	}
	// COALESCE keeps the stored token when the new exchange yielded none;
	// Google omits refresh_token on repeat consent.
	if _, err := r.db.Exec(ctx,
		`UPDATE admin_auth_provider SET
			admin_id = $2,
			provider_email = $3,
			access_token = COALESCE($4, access_token),
			refresh_token = COALESCE($5, refresh_token),
			expires_at = $6,
			scopes = COALESCE($7, scopes)
		 WHERE id = $1`,
		link.ID, link.AdminID, link.ProviderEmail,
		link.AccessToken, link.RefreshToken, link.ExpiresAt, scopes); err != nil {
		return fmt.Errorf("update provider link: %w", err)
	}
	return nil
}

func (r *PostgresProviderLinkRepo) ListStatus(ctx context.Context) ([]domain.LinkStatus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT provider, provider_email, expires_at, created_at
		 FROM admin_auth_provider ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list link status: %w", err)
	}
	defer rows.Close()

	statuses := make([]domain.LinkStatus, 0)
	for rows.Next() {
		var status domain.LinkStatus
		if err := rows.Scan(&status.Provider, &status.ProviderEmail, &status.ExpiresAt, &status.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link status: %w", err)
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (domain.AdminUser, error) {
	var admin domain.AdminUser
	if err := row.Scan(&admin.ID, &admin.Email, &admin.FullName, &admin.Role, &admin.IsActive, &admin.CreatedAt); err != nil {
		return domain.AdminUser{}, err
	}
	return admin, nil
}

func scanLink(row rowScanner) (domain.AuthProviderLink, error) {
	var (
		link   domain.AuthProviderLink
		scopes *string
	)
	if err := row.Scan(
		&link.ID, &link.AdminID, &link.Provider, &link.ProviderUserID, &link.ProviderEmail,
		&link.AccessToken, &link.RefreshToken, &link.ExpiresAt, &scopes, &link.CreatedAt,
	); err != nil {
		return domain.AuthProviderLink{}, err
	}
	if scopes != nil && *scopes != "" {
		if err := json.Unmarshal([]byte(*scopes), &link.Scopes); err != nil {
			return domain.AuthProviderLink{}, fmt.Errorf("decode scopes: %w", err)
		}
	}
	return link, nil
}

// encodeScopes serializes the scope list as JSON, nil when absent so the
// COALESCE merge leaves stored scopes untouched.
func encodeScopes(scopes []string) (*string, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(scopes)
	if err != nil {
		return nil, fmt.Errorf("encode scopes: %w", err)
	}
	encoded := string(raw)
	return &encoded, nil
}
