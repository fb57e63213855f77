package provider

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleScopes covers login identity plus the read-only Workspace and
// YouTube access the integrations endpoints consume.
var googleScopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/documents.readonly",
	"https://www.googleapis.com/auth/spreadsheets.readonly",
}

// Google adapts the Google Workspace OAuth flow.
type Google struct {
	cfg         *oauth2.Config
	httpClient  *http.Client
	userinfoURL string
}

// NewGoogle builds the adapter. Missing client credentials are reported
// at first use, not at construction, so the rest of the service can run
// without Google configured.
func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       googleScopes,
		},
		httpClient:  defaultHTTPClient(),
		userinfoURL: googleUserinfoURL,
	}
}

func (g *Google) Name() domain.Provider { return domain.ProviderGoogle }

func (g *Google) configured() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

// AuthCodeURL forces offline access and re-consent so Google issues a
// refresh token on every login, not only the first consent.
func (g *Google) AuthCodeURL(state string) (string, error) {
	if !g.configured() {
		return "", domain.ErrProviderNotConfigured
	}
	return g.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (g *Google) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if !g.configured() {
		return nil, domain.ErrProviderNotConfigured
	}
	return g.cfg.Exchange(ctx, code)
}

// FetchIdentity resolves the canonical account from the OAuth2 userinfo
// endpoint. The provider-native id falls back to the email when absent.
func (g *Google) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(ctx, g.httpClient, g.userinfoURL, "application/json", token.AccessToken, &info); err != nil {
		return nil, err
	}

	id := info.ID
	if id == "" {
		id = info.Email
	}
	name := info.Name
	if name == "" {
		name = info.Email
	}

	var scopes []string
	if granted, ok := token.Extra("scope").(string); ok {
		scopes = strings.Fields(granted)
	}

	return &Identity{
		ProviderUserID: id,
		Email:          info.Email,
		FullName:       name,
		Scopes:         scopes,
	}, nil
}

// Client returns an HTTP client backed by the stored credentials. The
// oauth2 token source refreshes expired access tokens transparently
// using the refresh token.
func (g *Google) Client(ctx context.Context, token *oauth2.Token) (*http.Client, error) {
	if !g.configured() {
		return nil, domain.ErrProviderNotConfigured
	}
	return g.cfg.Client(ctx, token), nil
}
