package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reception-ifairy/iFairyhq/internal/session"
)

const adminIDKey = "adminID"

// RequireAdmin admits requests carrying a valid admin session cookie or
// the static API token. A deployment that never set the token cannot be
// entered through the token path at all; that is reported as a server
// misconfiguration, not an auth denial.
func RequireAdmin(codec *session.Codec, staticToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminID, ok := codec.FromRequest(c.Request); ok {
			c.Set(adminIDKey, adminID)
			c.Next()
			return
		}

		if staticToken == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Admin token is not configured.",
			})
			return
		}

		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") &&
			subtle.ConstantTimeCompare([]byte(parts[1]), []byte(staticToken)) == 1 {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":             "unauthorized",
			"error_description": "Admin session or API token required.",
		})
	}
}

// AdminID returns the session admin id attached by RequireAdmin. Token
// authenticated requests carry no session identity.
func AdminID(c *gin.Context) (string, bool) {
	value, ok := c.Get(adminIDKey)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
