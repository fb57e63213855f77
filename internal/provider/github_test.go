package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

func newGitHubAPIStub(t *testing.T, userBody, emailsBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userBody))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(emailsBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubFetchIdentityPrimaryEmail(t *testing.T) {
	srv := newGitHubAPIStub(t,
		`{"id": 12345, "login": "octocat", "name": "Octo Cat"}`,
		`[{"email":"secondary@example.com","primary":false,"verified":true},
		  {"email":"primary@example.com","primary":true,"verified":true}]`)

	g := NewGitHub("client-id", "client-secret", "https://ifairy.co.uk/auth/github/callback")
	g.apiBase = srv.URL

	identity, err := g.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "gho_token"})
	require.NoError(t, err)
	require.Equal(t, "12345", identity.ProviderUserID)
	require.Equal(t, "primary@example.com", identity.Email)
	require.Equal(t, "Octo Cat", identity.FullName)
	require.Equal(t, githubScopes, identity.Scopes)
}

func TestGitHubFetchIdentityFallbacks(t *testing.T) {
	srv := newGitHubAPIStub(t,
		`{"id": 0, "login": "octocat", "name": ""}`,
		`[{"email":"only@example.com","primary":false,"verified":true}]`)

	g := NewGitHub("client-id", "client-secret", "")
	g.apiBase = srv.URL

	identity, err := g.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "gho_token"})
	require.NoError(t, err)
	require.Equal(t, "octocat", identity.ProviderUserID)
	require.Equal(t, "only@example.com", identity.Email)
	require.Equal(t, "octocat", identity.FullName)
}

func TestGitHubFetchIdentityNoEmails(t *testing.T) {
	srv := newGitHubAPIStub(t, `{"id": 7, "login": "octocat"}`, `[]`)

	g := NewGitHub("client-id", "client-secret", "")
	g.apiBase = srv.URL

	identity, err := g.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "gho_token"})
	require.NoError(t, err)
	require.Empty(t, identity.Email)
}

func TestUnconfiguredAdaptersFailClosed(t *testing.T) {
	google := NewGoogle("", "", "")
	_, err := google.AuthCodeURL("state")
	require.ErrorIs(t, err, domain.ErrProviderNotConfigured)
	_, err = google.Exchange(context.Background(), "code")
	require.ErrorIs(t, err, domain.ErrProviderNotConfigured)

	github := NewGitHub("", "", "")
	_, err = github.AuthCodeURL("state")
	require.ErrorIs(t, err, domain.ErrProviderNotConfigured)
	_, err = github.Exchange(context.Background(), "code")
	require.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestAuthCodeURLParameters(t *testing.T) {
	google := NewGoogle("gid", "gsecret", "https://ifairy.co.uk/auth/google/callback")
	u, err := google.AuthCodeURL("state-token")
	require.NoError(t, err)
	require.Contains(t, u, "access_type=offline")
	require.Contains(t, u, "prompt=consent")
	require.Contains(t, u, "state=state-token")
	require.Contains(t, u, "drive.readonly")

	github := NewGitHub("ghid", "ghsecret", "https://ifairy.co.uk/auth/github/callback")
	u, err = github.AuthCodeURL("state-token")
	require.NoError(t, err)
	require.Contains(t, u, "state=state-token")
	require.Contains(t, u, "codespace")
}
