package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
	"github.com/reception-ifairy/iFairyhq/internal/provider"
	"github.com/reception-ifairy/iFairyhq/internal/repository"
	"github.com/reception-ifairy/iFairyhq/internal/secretbox"
	"github.com/reception-ifairy/iFairyhq/internal/session"
)

const (
	googleDriveBase   = "https://www.googleapis.com/drive/v3"
	googleYouTubeBase = "https://www.googleapis.com/youtube/v3"
	githubGatewayBase = "https://api.github.com"
)

// Gateway hands decrypted, refresh-capable provider credentials to the
// REST surface. It never exposes raw tokens outside the process; callers
// get either a pre-authorized HTTP client or the response body of a
// passthrough call.
type Gateway struct {
	admins repository.AdminRepository
	links  repository.ProviderLinkRepository
	box    *secretbox.Box
	google *provider.Google
	codec  *session.Codec

	httpClient *http.Client
	driveBase  string
	tubeBase   string
	githubBase string
}

// NewGateway wires the credential gateway.
func NewGateway(
	admins repository.AdminRepository,
	links repository.ProviderLinkRepository,
	box *secretbox.Box,
	google *provider.Google,
	codec *session.Codec,
) *Gateway {
	return &Gateway{
		admins:     admins,
		links:      links,
		box:        box,
		google:     google,
		codec:      codec,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		driveBase:  googleDriveBase,
		tubeBase:   googleYouTubeBase,
		githubBase: githubGatewayBase,
	}
}

// EffectiveAdminID resolves the admin the request acts for. A valid
// session cookie wins; without one the sole admin record is used so a
// single-operator deployment keeps working with only the static token.
func (g *Gateway) EffectiveAdminID(r *http.Request) (string, error) {
	if adminID, ok := g.codec.FromRequest(r); ok {
		return adminID, nil
	}
	admin, err := g.admins.GetSole(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrAdminNotFound
		}
		return "", fmt.Errorf("resolve sole admin: %w", err)
	}
	return admin.ID, nil
}

// GoogleClient returns an HTTP client whose transport injects the
// admin's stored Google credentials, refreshing them when expired.
func (g *Gateway) GoogleClient(ctx context.Context, adminID string) (*http.Client, error) {
	link, err := g.newestLink(ctx, adminID, domain.ProviderGoogle)
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if link.AccessToken != nil {
		if token.AccessToken, err = g.box.Decrypt(*link.AccessToken); err != nil {
			return nil, fmt.Errorf("decrypt access token: %w", err)
		}
	}
	if link.RefreshToken != nil {
		if token.RefreshToken, err = g.box.Decrypt(*link.RefreshToken); err != nil {
			return nil, fmt.Errorf("decrypt refresh token: %w", err)
		}
	}
	if link.ExpiresAt != nil {
		token.Expiry = *link.ExpiresAt
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, domain.ErrNotConnected
	}

	return g.google.Client(ctx, token)
}

// GitHubToken returns the admin's decrypted GitHub access token. GitHub
// OAuth app tokens do not expire, so there is no refresh path.
func (g *Gateway) GitHubToken(ctx context.Context, adminID string) (string, error) {
	link, err := g.newestLink(ctx, adminID, domain.ProviderGitHub)
	if err != nil {
		return "", err
	}
	if link.AccessToken == nil {
		return "", domain.ErrNotConnected
	}
	token, err := g.box.Decrypt(*link.AccessToken)
	if err != nil {
		return "", fmt.Errorf("decrypt access token: %w", err)
	}
	return token, nil
}

func (g *Gateway) newestLink(ctx context.Context, adminID string, p domain.Provider) (domain.AuthProviderLink, error) {
	link, err := g.links.GetNewestByAdmin(ctx, adminID, p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuthProviderLink{}, domain.ErrNotConnected
		}
		return domain.AuthProviderLink{}, fmt.Errorf("get provider link: %w", err)
	}
	return link, nil
}

// DriveFiles lists the admin's most recent Drive files.
func (g *Gateway) DriveFiles(ctx context.Context, adminID string) (json.RawMessage, error) {
	client, err := g.GoogleClient(ctx, adminID)
	if err != nil {
		return nil, err
	}
	url := g.driveBase + "/files?pageSize=25&fields=files(id,name,mimeType,modifiedTime,webViewLink)"
	return g.passthrough(ctx, client, url, nil)
}

// YouTubeChannels lists the channels owned by the admin's Google account.
func (g *Gateway) YouTubeChannels(ctx context.Context, adminID string) (json.RawMessage, error) {
	client, err := g.GoogleClient(ctx, adminID)
	if err != nil {
		return nil, err
	}
	url := g.tubeBase + "/channels?part=snippet,statistics&mine=true"
	return g.passthrough(ctx, client, url, nil)
}

// GitHubRepos lists the admin's repositories, most recently updated first.
func (g *Gateway) GitHubRepos(ctx context.Context, adminID string) (json.RawMessage, error) {
	return g.githubPassthrough(ctx, adminID, "/user/repos?per_page=50&sort=updated")
}

// GitHubCodespaces lists the admin's codespaces.
func (g *Gateway) GitHubCodespaces(ctx context.Context, adminID string) (json.RawMessage, error) {
	return g.githubPassthrough(ctx, adminID, "/user/codespaces")
}

func (g *Gateway) githubPassthrough(ctx context.Context, adminID, path string) (json.RawMessage, error) {
	token, err := g.GitHubToken(ctx, adminID)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{
		"Accept":        "application/vnd.github+json",
		"Authorization": "Bearer " + token,
	}
	return g.passthrough(ctx, g.httpClient, g.githubBase+path, headers)
}

func (g *Gateway) passthrough(ctx context.Context, client *http.Client, url string, headers map[string]string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider status %d: %s", resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("provider returned non-JSON response")
	}
	return json.RawMessage(body), nil
}
