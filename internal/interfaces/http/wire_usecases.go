package http

import (
	ingestUsecases "github.com/orris-inc/helpdesk/internal/application/mailingest/usecases"
	maintenanceUsecases "github.com/orris-inc/helpdesk/internal/application/maintenance/usecases"
	ticketUsecases "github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	timeUsecases "github.com/orris-inc/helpdesk/internal/application/timetracking/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/version"
)

// allUseCases holds all use case instances used by handlers and commands.
type allUseCases struct {
	// Ticket
	createTicketUC  *ticketUsecases.CreateTicketUseCase
	getTicketUC     *ticketUsecases.GetTicketUseCase
	listTicketsUC   *ticketUsecases.ListTicketsUseCase
	getTimelineUC   *ticketUsecases.GetTimelineUseCase
	addCommentUC    *ticketUsecases.AddCommentUseCase
	editCommentUC   *ticketUsecases.EditCommentUseCase
	deleteCommentUC *ticketUsecases.DeleteCommentUseCase
	changeStatusUC  *ticketUsecases.ChangeStatusUseCase
	assignTicketUC  *ticketUsecases.AssignTicketUseCase
	updateTicketUC  *ticketUsecases.UpdateTicketUseCase
	archiveTicketUC *ticketUsecases.ArchiveTicketUseCase
	deleteTicketUC  *ticketUsecases.DeleteTicketUseCase

	// Timers and time entries
	startTimerUC      *timeUsecases.StartTimerUseCase
	pauseTimerUC      *timeUsecases.PauseTimerUseCase
	resumeTimerUC     *timeUsecases.ResumeTimerUseCase
	stopTimerUC       *timeUsecases.StopTimerUseCase
	discardTimerUC    *timeUsecases.DiscardTimerUseCase
	getActiveTimerUC  *timeUsecases.GetActiveTimerUseCase
	runningTimersUC   *timeUsecases.GetRunningTimersUseCase
	listTimeEntriesUC *timeUsecases.ListTicketTimeEntriesUseCase
	breakdownUC       *timeUsecases.GetTicketTimeBreakdownUseCase
	logManualTimeUC   *timeUsecases.LogManualTimeUseCase
	updateTimeEntryUC *timeUsecases.UpdateTimeEntryUseCase
	deleteTimeEntryUC *timeUsecases.DeleteTimeEntryUseCase

	// Email ingest and maintenance
	runIngestUC      *ingestUsecases.RunIngestUseCase
	recurringUC      *maintenanceUsecases.GenerateRecurringTicketsUseCase
	checkUpdateUC    *maintenanceUsecases.CheckUpdateUseCase
	runMaintenanceUC *maintenanceUsecases.RunMaintenanceUseCase
}

func (c *Container) initUseCases() {
	r := c.repos
	s := c.svcs
	txMgr := db.NewTransactionManager(c.db)
	clk := c.clock
	notifier := s.dispatcher

	ticketRepos := ticketUsecases.Repositories{
		Tickets:  r.ticketRepo,
		Comments: r.commentRepo,
		Activity: r.activityRepo,
		History:  r.historyRepo,
	}

	ucs := &allUseCases{
		createTicketUC:  ticketUsecases.NewCreateTicketUseCase(ticketRepos, s.hashGen, txMgr, notifier, clk, c.log),
		getTicketUC:     ticketUsecases.NewGetTicketUseCase(ticketRepos, c.log),
		listTicketsUC:   ticketUsecases.NewListTicketsUseCase(ticketRepos, c.log),
		getTimelineUC:   ticketUsecases.NewGetTimelineUseCase(ticketRepos, r.timeEntryRepo, r.attachmentRepo, c.caps, c.log),
		addCommentUC:    ticketUsecases.NewAddCommentUseCase(ticketRepos, r.timeEntryRepo, s.defaultRates, txMgr, notifier, clk, c.log),
		editCommentUC:   ticketUsecases.NewEditCommentUseCase(ticketRepos, txMgr, clk, c.log),
		deleteCommentUC: ticketUsecases.NewDeleteCommentUseCase(ticketRepos, r.timeEntryRepo, txMgr, clk, c.log),
		changeStatusUC:  ticketUsecases.NewChangeStatusUseCase(ticketRepos, txMgr, notifier, clk, c.log),
		assignTicketUC:  ticketUsecases.NewAssignTicketUseCase(ticketRepos, r.userRepo, txMgr, notifier, clk, c.log),
		updateTicketUC:  ticketUsecases.NewUpdateTicketUseCase(ticketRepos, txMgr, clk, c.log),
		archiveTicketUC: ticketUsecases.NewArchiveTicketUseCase(ticketRepos, txMgr, clk, c.log),
		deleteTicketUC:  ticketUsecases.NewDeleteTicketUseCase(ticketRepos, c.log),

		startTimerUC:      timeUsecases.NewStartTimerUseCase(r.ticketRepo, r.timeEntryRepo, s.defaultRates, clk, c.log),
		pauseTimerUC:      timeUsecases.NewPauseTimerUseCase(r.ticketRepo, r.timeEntryRepo, clk, c.log),
		resumeTimerUC:     timeUsecases.NewResumeTimerUseCase(r.ticketRepo, r.timeEntryRepo, clk, c.log),
		stopTimerUC:       timeUsecases.NewStopTimerUseCase(r.ticketRepo, r.timeEntryRepo, r.commentRepo, r.activityRepo, txMgr, clk, c.log),
		discardTimerUC:    timeUsecases.NewDiscardTimerUseCase(r.ticketRepo, r.timeEntryRepo, clk, c.log),
		getActiveTimerUC:  timeUsecases.NewGetActiveTimerUseCase(r.ticketRepo, r.timeEntryRepo, clk, c.log),
		runningTimersUC:   timeUsecases.NewGetRunningTimersUseCase(r.timeEntryRepo, clk, c.log),
		listTimeEntriesUC: timeUsecases.NewListTicketTimeEntriesUseCase(r.timeEntryRepo, c.log),
		breakdownUC:       timeUsecases.NewGetTicketTimeBreakdownUseCase(r.timeEntryRepo, r.userRepo, clk, c.log),
		logManualTimeUC:   timeUsecases.NewLogManualTimeUseCase(r.ticketRepo, r.timeEntryRepo, r.commentRepo, r.activityRepo, txMgr, s.defaultRates, clk, c.log),
		updateTimeEntryUC: timeUsecases.NewUpdateTimeEntryUseCase(r.timeEntryRepo, r.activityRepo, txMgr, clk, c.log),
		deleteTimeEntryUC: timeUsecases.NewDeleteTimeEntryUseCase(r.timeEntryRepo, r.activityRepo, txMgr, clk, c.log),
	}

	ingestRepos := ingestUsecases.Repositories{
		Tickets:     r.ticketRepo,
		Comments:    r.commentRepo,
		Activity:    r.activityRepo,
		History:     r.historyRepo,
		Messages:    r.messageRepo,
		Attachments: r.attachmentRepo,
		Users:       r.userRepo,
	}
	ingestSettings := ingestUsecases.Settings{
		Enabled:         c.cfg.IMAP.Enabled(),
		BatchLimit:      c.cfg.IMAP.BatchLimit,
		ProcessedFolder: c.cfg.IMAP.ProcessedFolder,
		FailedFolder:    c.cfg.IMAP.FailedFolder,
		Policy: mailingest.SenderPolicy{
			AllowUnknown:   c.cfg.IMAP.AllowUnknownSenders,
			AllowedDomains: c.cfg.IMAP.AllowedDomains,
		},
	}
	ucs.runIngestUC = ingestUsecases.NewRunIngestUseCase(
		ingestSettings,
		s.connector,
		s.parser,
		s.runLock,
		ingestRepos,
		s.attachments,
		s.hashGen,
		txMgr,
		notifier,
		clk,
		c.log.With("component", "email_ingest"),
	)

	// Steps left nil are skipped by the maintenance run.
	var (
		recurring   maintenanceUsecases.RecurringExecutor
		updateCheck maintenanceUsecases.UpdateCheckExecutor
	)
	if c.caps.RecurringTasks {
		ucs.recurringUC = maintenanceUsecases.NewGenerateRecurringTicketsUseCase(
			r.recurringRepo, r.ticketRepo, r.activityRepo, s.hashGen, txMgr, notifier, clk,
			c.log.With("component", "recurring"),
		)
		recurring = ucs.recurringUC
	}
	if s.releaseChecker != nil {
		ucs.checkUpdateUC = maintenanceUsecases.NewCheckUpdateUseCase(s.releaseChecker, version.Current(), c.log)
		updateCheck = ucs.checkUpdateUC
	}
	ucs.runMaintenanceUC = maintenanceUsecases.NewRunMaintenanceUseCase(recurring, ucs.runIngestUC, updateCheck, c.log)

	c.ucs = ucs
}
