package provider

import (
	"context"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

const githubAPIBase = "https://api.github.com"

const githubAccept = "application/vnd.github+json"

var githubScopes = []string{"read:user", "user:email", "repo", "codespace"}

// GitHub adapts the GitHub OAuth flow.
type GitHub struct {
	cfg        *oauth2.Config
	httpClient *http.Client
	apiBase    string
}

// NewGitHub builds the adapter; missing client credentials surface at
// first use.
func NewGitHub(clientID, clientSecret, redirectURL string) *GitHub {
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     github.Endpoint,
			Scopes:       githubScopes,
		},
		httpClient: defaultHTTPClient(),
		apiBase:    githubAPIBase,
	}
}

func (g *GitHub) Name() domain.Provider { return domain.ProviderGitHub }

func (g *GitHub) configured() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

func (g *GitHub) AuthCodeURL(state string) (string, error) {
	if !g.configured() {
		return "", domain.ErrProviderNotConfigured
	}
	return g.cfg.AuthCodeURL(state), nil
}

func (g *GitHub) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if !g.configured() {
		return nil, domain.ErrProviderNotConfigured
	}
	return g.cfg.Exchange(ctx, code)
}

// FetchIdentity resolves id and display name from /user and the email
// from /user/emails, preferring the primary address and falling back to
// the first one listed.
func (g *GitHub) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
	}
	if err := getJSON(ctx, g.httpClient, g.apiBase+"/user", githubAccept, token.AccessToken, &user); err != nil {
		return nil, err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, g.httpClient, g.apiBase+"/user/emails", githubAccept, token.AccessToken, &emails); err != nil {
		return nil, err
	}

	email := ""
	for _, entry := range emails {
		if entry.Primary {
			email = entry.Email
			break
		}
	}
	if email == "" && len(emails) > 0 {
		email = emails[0].Email
	}

	id := user.Login
	if user.ID != 0 {
		id = strconv.FormatInt(user.ID, 10)
	}
	name := user.Name
	if name == "" {
		name = user.Login
	}
	if name == "" {
		name = "GitHub user"
	}

	return &Identity{
		ProviderUserID: id,
		Email:          email,
		FullName:       name,
		Scopes:         append([]string(nil), githubScopes...),
	}, nil
}
