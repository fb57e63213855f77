// Package policy decides whether an external identity may log in as an
// administrator. The provider has already proven ownership of the email;
// this package only answers "is that email allowed".
package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/reception-ifairy/iFairyhq/internal/repository"
)

// Policy is closed by default: without configuration, exactly one
// self-service admin account can ever be created via login.
type Policy struct {
	allowedEmails []string
	allowedDomain string
	admins        repository.AdminRepository
}

// New builds the policy from the configured allow-list and domain.
func New(allowedEmails []string, allowedDomain string, admins repository.AdminRepository) *Policy {
	cleaned := make([]string, 0, len(allowedEmails))
	for _, email := range allowedEmails {
		if trimmed := strings.ToLower(strings.TrimSpace(email)); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return &Policy{
		allowedEmails: cleaned,
		allowedDomain: strings.ToLower(strings.TrimSpace(allowedDomain)),
		admins:        admins,
	}
}

// CanLoginAsAdmin evaluates the decision rules in order: configured
// allow-list, configured domain, then existing-admin membership with a
// first-admin bootstrap exception.
func (p *Policy) CanLoginAsAdmin(ctx context.Context, email string) (bool, error) {
	candidate := strings.ToLower(strings.TrimSpace(email))
	if candidate == "" {
		return false, nil
	}

	if len(p.allowedEmails) > 0 {
		for _, allowed := range p.allowedEmails {
			if candidate == allowed {
				return true, nil
			}
		}
		return false, nil
	}

	if p.allowedDomain != "" {
		return strings.HasSuffix(candidate, "@"+p.allowedDomain), nil
	}

	count, err := p.admins.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count == 0 {
		// First admin bootstraps through login.
		return true, nil
	}

	if _, err := p.admins.GetByEmail(ctx, candidate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	return true, nil
}
