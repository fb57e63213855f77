package oauthstate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

func issueAndCapture(t *testing.T, g *Guard, provider domain.Provider) (string, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	state := g.Issue(rec, provider)
	require.NotEmpty(t, state)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return state, cookies[0]
}

func TestIssueSetsScopedCookie(t *testing.T) {
	g := NewGuard()
	state, cookie := issueAndCapture(t, g, domain.ProviderGoogle)

	require.Equal(t, "ifairy_oauth_google_state", cookie.Name)
	require.Equal(t, state, cookie.Value)
	require.Equal(t, "/auth/google", cookie.Path)
	require.Equal(t, 600, cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestVerifyMatch(t *testing.T) {
	g := NewGuard()
	state, cookie := issueAndCapture(t, g, domain.ProviderGitHub)

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?state="+state, nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()

	require.NoError(t, g.Verify(rec, req, domain.ProviderGitHub))

	// Verify clears the cookie even on success.
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Less(t, cleared[0].MaxAge, 0)
}

func TestVerifyFailures(t *testing.T) {
	g := NewGuard()
	state, cookie := issueAndCapture(t, g, domain.ProviderGoogle)

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
		err := g.Verify(httptest.NewRecorder(), req, domain.ProviderGoogle)
		require.ErrorIs(t, err, domain.ErrStateMismatch)
	})

	t.Run("missing query value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		err := g.Verify(httptest.NewRecorder(), req, domain.ProviderGoogle)
		require.ErrorIs(t, err, domain.ErrStateMismatch)
	})

	t.Run("mismatched values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		err := g.Verify(httptest.NewRecorder(), req, domain.ProviderGoogle)
		require.ErrorIs(t, err, domain.ErrStateMismatch)
	})
}

func TestReplayRejected(t *testing.T) {
	g := NewGuard()
	state, cookie := issueAndCapture(t, g, domain.ProviderGoogle)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()
	require.NoError(t, g.Verify(rec, req, domain.ProviderGoogle))

	// The browser drops the cleared cookie; a second callback with the
	// same state arrives bare and fails.
	replay := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
	err := g.Verify(httptest.NewRecorder(), replay, domain.ProviderGoogle)
	require.ErrorIs(t, err, domain.ErrStateMismatch)
}

func TestStatesAreUnique(t *testing.T) {
	g := NewGuard()
	first, _ := issueAndCapture(t, g, domain.ProviderGoogle)
	second, _ := issueAndCapture(t, g, domain.ProviderGoogle)
	require.NotEqual(t, first, second)
}
