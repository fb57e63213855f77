package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/reception-ifairy/iFairyhq/internal/config"
	"github.com/reception-ifairy/iFairyhq/internal/http/handler"
	httpmiddleware "github.com/reception-ifairy/iFairyhq/internal/http/middleware"
	"github.com/reception-ifairy/iFairyhq/internal/middleware"
	"github.com/reception-ifairy/iFairyhq/internal/session"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	authHandler *handler.AuthHandler,
	integrationsHandler *handler.IntegrationsHandler,
	codec *session.Codec,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/:provider/start", authHandler.Start)
		authGroup.GET("/:provider/callback", authHandler.Callback)
		authGroup.POST("/logout", authHandler.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/health", authHandler.Health)
		api.GET("/me", authHandler.Me)
		api.POST("/logout", authHandler.Logout)

		guarded := api.Group("", httpmiddleware.RequireAdmin(codec, cfg.AdminAPIToken))
		{
			guarded.GET("/admin", authHandler.Admin)
			guarded.POST("/admin/bootstrap", authHandler.Bootstrap)
			guarded.GET("/integrations/status", integrationsHandler.Status)
			guarded.GET("/google/drive/files", integrationsHandler.DriveFiles)
			guarded.GET("/google/youtube/channels", integrationsHandler.YouTubeChannels)
			guarded.GET("/github/repos", integrationsHandler.GitHubRepos)
			guarded.GET("/github/codespaces", integrationsHandler.GitHubCodespaces)
		}
	}

	return r
}
