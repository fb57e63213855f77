package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reception-ifairy/iFairyhq/internal/domain"
)

// respondServiceError maps domain errors onto the HTTP surface. Anything
// unrecognized is a 500 with a generic body; details stay in the logs.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStateMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "state_mismatch", "error_description": "OAuth state did not match."})
	case errors.Is(err, domain.ErrMissingCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_code", "error_description": "Authorization code is required."})
	case errors.Is(err, domain.ErrNoEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_email", "error_description": "Provider returned no email address."})
	case errors.Is(err, domain.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_allowed", "error_description": "This account may not sign in as admin."})
	case errors.Is(err, domain.ErrAdminExists):
		c.JSON(http.StatusConflict, gin.H{"error": "admin_exists", "error_description": "An admin account already exists."})
	case errors.Is(err, domain.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "admin_not_found", "error_description": "No admin account exists."})
	case errors.Is(err, domain.ErrNotConnected):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "not_connected", "error_description": "Provider is not connected for this admin."})
	case errors.Is(err, domain.ErrProviderNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Provider credentials are not configured."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal error."})
	}
}
