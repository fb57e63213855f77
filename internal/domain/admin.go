package domain

import "time"

// Provider identifies an external identity/resource service usable for
// admin login and downstream API access.
type Provider string

const (
	ProviderGoogle Provider = "google_workspace"
	ProviderGitHub Provider = "github"
)

// AdminUser is the single privileged identity of the system. Admins are
// created on first permitted OAuth login or through the bootstrap call,
// never twice for the same email.
type AdminUser struct {
	ID        string
	Email     string
	FullName  string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}

// AuthProviderLink binds an admin to one external provider identity,
// including the encrypted tokens issued by that provider. At most one
// link exists per (provider, provider_user_id) pair; repeat logins update
// the row in place.
type AuthProviderLink struct {
	ID             string
	AdminID        string
	Provider       Provider
	ProviderUserID string
	ProviderEmail  string
	AccessToken    *string // encrypted at rest
	RefreshToken   *string // encrypted at rest, Google only
	ExpiresAt      *time.Time
	Scopes         []string
	CreatedAt      time.Time
}

// LinkStatus is the redacted view of a provider link exposed by the
// integrations status endpoint.
type LinkStatus struct {
	Provider      Provider   `json:"provider"`
	ProviderEmail string     `json:"provider_email"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
