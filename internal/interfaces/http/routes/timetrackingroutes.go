package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	timehandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/timetracking"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
)

type TimeTrackingRouteConfig struct {
	TimerHandler         *timehandlers.TimerHandler
	TimeEntryHandler     *timehandlers.TimeEntryHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTimeTrackingRoutes(engine *gin.Engine, config *TimeTrackingRouteConfig) {
	perm := config.PermissionMiddleware.RequirePermission
	auth := []gin.HandlerFunc{config.AuthMiddleware.RequireAuth(), middleware.CSRF()}
	manageTimer := perm(permission.ResourceTimer, permission.ActionManage)

	timers := engine.Group("/api/timers", auth...)
	timers.Use(manageTimer)
	{
		timers.POST("/start", config.TimerHandler.Start)
		timers.POST("/pause", config.TimerHandler.Pause)
		timers.POST("/resume", config.TimerHandler.Resume)
		timers.POST("/stop", config.TimerHandler.Stop)
		timers.POST("/discard", config.TimerHandler.Discard)
	}

	// Legacy single endpoint: POST /api?action=start-timer
	engine.POST("/api", append(auth, manageTimer, config.TimerHandler.Legacy)...)

	engine.GET("/timers/running", append(auth, manageTimer, config.TimerHandler.GetRunning)...)

	ticketTime := engine.Group("/tickets/:id", auth...)
	{
		ticketTime.GET("/timer", manageTimer, config.TimerHandler.GetActive)
		ticketTime.GET("/time-entries",
			perm(permission.ResourceTimeEntry, permission.ActionRead),
			config.TimeEntryHandler.List)
		ticketTime.GET("/time-breakdown",
			perm(permission.ResourceTimeEntry, permission.ActionRead),
			config.TimeEntryHandler.Breakdown)
		ticketTime.POST("/time-entries",
			perm(permission.ResourceTimeEntry, permission.ActionCreate),
			config.TimeEntryHandler.LogManual)
	}

	entries := engine.Group("/time-entries", auth...)
	{
		entries.PUT("/:id",
			perm(permission.ResourceTimeEntry, permission.ActionUpdate),
			config.TimeEntryHandler.Update)
		entries.DELETE("/:id",
			perm(permission.ResourceTimeEntry, permission.ActionDelete),
			config.TimeEntryHandler.Delete)
	}
}
