package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
	"github.com/reception-ifairy/iFairyhq/internal/oauthstate"
	"github.com/reception-ifairy/iFairyhq/internal/provider"
	"github.com/reception-ifairy/iFairyhq/internal/service"
	"github.com/reception-ifairy/iFairyhq/internal/session"
)

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AuthHandler exposes login, logout and admin account endpoints.
type AuthHandler struct {
	auth    service.AuthService
	gateway *service.Gateway
	guard   *oauthstate.Guard
	codec   *session.Codec
	google  provider.Adapter
	github  provider.Adapter
	db      Pinger
	logger  *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(
	auth service.AuthService,
	gateway *service.Gateway,
	guard *oauthstate.Guard,
	codec *session.Codec,
	google provider.Adapter,
	github provider.Adapter,
	db Pinger,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		gateway: gateway,
		guard:   guard,
		codec:   codec,
		google:  google,
		github:  github,
		db:      db,
		logger:  logger,
	}
}

func (h *AuthHandler) adapterFor(name string) (provider.Adapter, bool) {
	switch name {
	case "google":
		return h.google, true
	case "github":
		return h.github, true
	default:
		return nil, false
	}
}

// Start issues the anti-forgery state cookie and redirects the browser
// to the provider's authorize endpoint.
func (h *AuthHandler) Start(c *gin.Context) {
	adapter, ok := h.adapterFor(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_provider"})
		return
	}

	state := h.guard.Issue(c.Writer, adapter.Name())
	authURL, err := adapter.AuthCodeURL(state)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback completes the OAuth exchange. On success it mints the admin
// session cookie and sends the browser to the integrations page.
func (h *AuthHandler) Callback(c *gin.Context) {
	adapter, ok := h.adapterFor(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_provider"})
		return
	}

	if err := h.guard.Verify(c.Writer, c.Request, adapter.Name()); err != nil {
		respondServiceError(c, err)
		return
	}

	admin, err := h.auth.HandleCallback(c.Request.Context(), adapter, c.Query("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	value, err := h.codec.Mint(admin.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	session.Set(c.Writer, value)
	c.Redirect(http.StatusFound, "/admin/integrations")
}

// Logout deletes the session cookie. The signed token itself stays
// valid until its 30-day expiry; only this browser forgets it.
func (h *AuthHandler) Logout(c *gin.Context) {
	session.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports the session identity, if any. Not guarded; the front end
// polls it to decide whether to show the login screen.
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := h.codec.FromRequest(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	admin, err := h.auth.Me(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedIn": true, "user": adminView(admin)})
}

// Bootstrap creates the first admin. Conflicts once any admin exists.
func (h *AuthHandler) Bootstrap(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Body must be JSON with email and full_name."})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "email is required."})
		return
	}

	admin, err := h.auth.Bootstrap(c.Request.Context(), req.Email, req.FullName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	value, err := h.codec.Mint(admin.ID)
	if err == nil {
		session.Set(c.Writer, value)
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": adminView(admin)})
}

// Admin returns the effective admin record, or null when none exists.
func (h *AuthHandler) Admin(c *gin.Context) {
	adminID, err := h.gateway.EffectiveAdminID(c.Request)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	admin, err := h.auth.Me(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": adminView(admin)})
}

// Health reports process and database liveness.
func (h *AuthHandler) Health(c *gin.Context) {
	dbOK := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		dbOK = h.db.Ping(ctx) == nil
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dbOk": dbOK})
}

func adminView(admin domain.AdminUser) gin.H {
	return gin.H{
		"id":        admin.ID,
		"email":     admin.Email,
		"full_name": admin.FullName,
		"role":      admin.Role,
	}
}
