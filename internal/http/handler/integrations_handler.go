package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reception-ifairy/iFairyhq/internal/repository"
	"github.com/reception-ifairy/iFairyhq/internal/service"
)

// IntegrationsHandler serves connection status and the provider API
// passthroughs. Every route here sits behind the admin guard.
type IntegrationsHandler struct {
	gateway *service.Gateway
	links   repository.ProviderLinkRepository
	logger  *zap.Logger
}

// NewIntegrationsHandler constructs the handler.
func NewIntegrationsHandler(gateway *service.Gateway, links repository.ProviderLinkRepository, logger *zap.Logger) *IntegrationsHandler {
	return &IntegrationsHandler{gateway: gateway, links: links, logger: logger}
}

// Status lists connected providers without exposing token material.
func (h *IntegrationsHandler) Status(c *gin.Context) {
	statuses, err := h.links.ListStatus(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"integrations": statuses})
}

// DriveFiles proxies the admin's recent Google Drive files.
func (h *IntegrationsHandler) DriveFiles(c *gin.Context) {
	h.proxy(c, h.gateway.DriveFiles)
}

// YouTubeChannels proxies the admin's YouTube channel listing.
func (h *IntegrationsHandler) YouTubeChannels(c *gin.Context) {
	h.proxy(c, h.gateway.YouTubeChannels)
}

// GitHubRepos proxies the admin's repository listing.
func (h *IntegrationsHandler) GitHubRepos(c *gin.Context) {
	h.proxy(c, h.gateway.GitHubRepos)
}

// GitHubCodespaces proxies the admin's codespace listing.
func (h *IntegrationsHandler) GitHubCodespaces(c *gin.Context) {
	h.proxy(c, h.gateway.GitHubCodespaces)
}

func (h *IntegrationsHandler) proxy(c *gin.Context, call func(context.Context, string) (json.RawMessage, error)) {
	adminID, err := h.gateway.EffectiveAdminID(c.Request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	body, err := call(c.Request.Context(), adminID)
	if err != nil {
		h.log().Warn("provider passthrough failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (h *IntegrationsHandler) log() *zap.Logger {
	if h != nil && h.logger != nil {
		return h.logger
	}
	return zap.L()
}
