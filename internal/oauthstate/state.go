// Package oauthstate implements the anti-CSRF state token binding an
// OAuth "start" request to its "callback". The expected value lives in a
// provider-scoped, short-lived cookie rather than any server-side store.
package oauthstate

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

const cookieMaxAge = 10 * time.Minute

// Guard issues and verifies one-time state tokens.
type Guard struct{}

// NewGuard constructs the state guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Issue generates a fresh state token and binds it to the provider's
// callback path via a short-lived cookie. The caller embeds the returned
// value in the provider's authorize URL.
func (g *Guard) Issue(w http.ResponseWriter, provider domain.Provider) string {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(provider),
		Value:    state,
		Path:     cookiePath(provider),
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

// Verify compares the cookie value against the callback's state query
// parameter. The cookie is cleared unconditionally, so a replayed
// callback always fails: the one-time value is already gone.
func (g *Guard) Verify(w http.ResponseWriter, r *http.Request, provider domain.Provider) error {
	var expected string
	if cookie, err := r.Cookie(cookieName(provider)); err == nil {
		expected = cookie.Value
	}
	got := r.URL.Query().Get("state")

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(provider),
		Value:    "",
		Path:     cookiePath(provider),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	if expected == "" || got == "" || expected != got {
		return domain.ErrStateMismatch
	}
	return nil
}

func cookieName(provider domain.Provider) string {
	switch provider {
	case domain.ProviderGoogle:
		return "ifairy_oauth_google_state"
	case domain.ProviderGitHub:
		return "ifairy_oauth_github_state"
	}
	return "ifairy_oauth_state"
}

func cookiePath(provider domain.Provider) string {
	switch provider {
	case domain.ProviderGoogle:
		return "/auth/google"
	case domain.ProviderGitHub:
		return "/auth/github"
	}
	return "/auth"
}
