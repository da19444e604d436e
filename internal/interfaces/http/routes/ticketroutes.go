package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	tickethandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/ticket"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	perm := config.PermissionMiddleware.RequirePermission

	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth(), middleware.CSRF())
	{
		// Collection operations (no ID parameter)
		tickets.POST("",
			perm(permission.ResourceTicket, permission.ActionCreate),
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			perm(permission.ResourceTicket, permission.ActionRead),
			config.TicketHandler.ListTickets)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		tickets.GET("/:id/timeline",
			perm(permission.ResourceTicket, permission.ActionRead),
			config.TicketHandler.GetTimeline)
		tickets.POST("/:id/comments",
			perm(permission.ResourceComment, permission.ActionCreate),
			config.TicketHandler.AddComment)
		tickets.PATCH("/:id/status",
			perm(permission.ResourceTicket, permission.ActionUpdate),
			config.TicketHandler.ChangeStatus)
		tickets.POST("/:id/assign",
			perm(permission.ResourceTicket, permission.ActionManage),
			config.TicketHandler.AssignTicket)
		tickets.POST("/:id/archive",
			perm(permission.ResourceTicket, permission.ActionManage),
			config.TicketHandler.ArchiveTicket)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id",
			perm(permission.ResourceTicket, permission.ActionRead),
			config.TicketHandler.GetTicket)
		tickets.PATCH("/:id",
			perm(permission.ResourceTicket, permission.ActionUpdate),
			config.TicketHandler.UpdateTicket)
		tickets.DELETE("/:id",
			perm(permission.ResourceTicket, permission.ActionDelete),
			config.TicketHandler.DeleteTicket)
	}

	comments := engine.Group("/comments")
	comments.Use(config.AuthMiddleware.RequireAuth(), middleware.CSRF())
	{
		comments.PATCH("/:id",
			perm(permission.ResourceComment, permission.ActionUpdate),
			config.TicketHandler.EditComment)
		comments.DELETE("/:id",
			perm(permission.ResourceComment, permission.ActionDelete),
			config.TicketHandler.DeleteComment)
	}
}
