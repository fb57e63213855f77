// Package provider implements the per-provider OAuth adapters. Google and
// GitHub run the same exchange state machine; the adapters cover only the
// parts that differ: authorize-URL construction, code exchange, and
// resolution of the canonical external identity.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

// Identity is the normalized external account resolved after a code
// exchange.
type Identity struct {
	ProviderUserID string
	Email          string
	FullName       string
	Scopes         []string
}

// Adapter abstracts one OAuth provider for the shared login orchestration.
type Adapter interface {
	Name() domain.Provider
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*Identity, error)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// getJSON performs an authenticated GET against a provider API and
// decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url, accept, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider request failed: status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}
