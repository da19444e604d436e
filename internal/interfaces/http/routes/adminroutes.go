package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	adminhandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/admin"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	EmailIngestHandler   *adminhandlers.EmailIngestHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures admin-only routes.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), middleware.CSRF())
	{
		admin.POST("/email-ingest/run",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceEmailIngest, permission.ActionRun),
			cfg.EmailIngestHandler.Run)
	}
}
