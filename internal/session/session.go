// Package session implements the stateless admin session: an HMAC-signed
// token carried in a cookie, with no server-side session store.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CookieName is the admin session cookie.
const CookieName = "ifairy_admin"

const cookieMaxAge = 30 * 24 * time.Hour

type payload struct {
	AdminID  string `json:"adminId"`
	IssuedAt int64  `json:"iat"`
}

// Codec mints and verifies session tokens with a configured signing
// secret. An empty secret means no session is ever valid.
type Codec struct {
	secret string
}

// NewCodec wraps the session signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: strings.TrimSpace(secret)}
}

// Mint produces the cookie value for an admin id:
// base64url(JSON payload) + "." + base64url(HMAC-SHA256 over the encoded payload).
func (c *Codec) Mint(adminID string) (string, error) {
	if c.secret == "" {
		return "", fmt.Errorf("session secret is not set")
	}
	raw, err := json.Marshal(payload{AdminID: adminID, IssuedAt: time.Now().UnixMilli()})
	if err != nil {
		return "", fmt.Errorf("encode session payload: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.sign(encoded), nil
}

// Verify recovers the admin id from a cookie value. Every failure mode
// (unset secret, malformed value, signature mismatch, bad payload) yields
// ok=false; it never returns an error to the caller.
func (c *Codec) Verify(value string) (string, bool) {
	if c.secret == "" {
		return "", false
	}
	encoded, sig, found := strings.Cut(value, ".")
	if !found || encoded == "" || sig == "" {
		return "", false
	}
	expected := c.sign(encoded)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil || p.AdminID == "" {
		return "", false
	}
	return p.AdminID, true
}

// FromRequest reads and verifies the session cookie.
func (c *Codec) FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return c.Verify(cookie.Value)
}

// Set writes the session cookie. The cookie is inert to script access and
// cross-site submission and survives normal browsing sessions.
func Set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear deletes the session cookie. Logout is purely cookie deletion: a
// previously issued token stays cryptographically valid until its expiry.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
