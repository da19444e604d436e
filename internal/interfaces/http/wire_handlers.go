package http

import (
	"github.com/orris-inc/helpdesk/internal/interfaces/http/handlers"
	adminHandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/admin"
	ticketHandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/ticket"
	timeHandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/timetracking"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler      *handlers.HealthHandler
	ticketHandler      *ticketHandlers.TicketHandler
	timerHandler       *timeHandlers.TimerHandler
	timeEntryHandler   *timeHandlers.TimeEntryHandler
	emailIngestHandler *adminHandlers.EmailIngestHandler
}

func (c *Container) initHandlers() error {
	u := c.ucs

	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(sqlDB),
		ticketHandler: ticketHandlers.NewTicketHandler(ticketHandlers.UseCases{
			Create:        u.createTicketUC,
			Get:           u.getTicketUC,
			List:          u.listTicketsUC,
			Timeline:      u.getTimelineUC,
			AddComment:    u.addCommentUC,
			EditComment:   u.editCommentUC,
			DeleteComment: u.deleteCommentUC,
			ChangeStatus:  u.changeStatusUC,
			Assign:        u.assignTicketUC,
			Update:        u.updateTicketUC,
			Archive:       u.archiveTicketUC,
			Delete:        u.deleteTicketUC,
		}, c.log),
		timerHandler: timeHandlers.NewTimerHandler(timeHandlers.TimerUseCases{
			Start:   u.startTimerUC,
			Pause:   u.pauseTimerUC,
			Resume:  u.resumeTimerUC,
			Stop:    u.stopTimerUC,
			Discard: u.discardTimerUC,
			Active:  u.getActiveTimerUC,
			Running: u.runningTimersUC,
		}, c.log),
		timeEntryHandler: timeHandlers.NewTimeEntryHandler(timeHandlers.TimeEntryUseCases{
			List:      u.listTimeEntriesUC,
			Breakdown: u.breakdownUC,
			LogManual: u.logManualTimeUC,
			Update:    u.updateTimeEntryUC,
			Delete:    u.deleteTimeEntryUC,
		}, c.log),
		emailIngestHandler: adminHandlers.NewEmailIngestHandler(u.runIngestUC, c.log),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.jwtSvc, c.cfg.Auth.CookieSecure, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.svcs.enforcer)
	return nil
}
