package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
	"github.com/orris-inc/helpdesk/internal/domain/recurring"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	"github.com/orris-inc/helpdesk/internal/infrastructure/repository"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo     ticket.TicketRepository
	commentRepo    ticket.CommentRepository
	activityRepo   ticket.ActivityLogRepository
	historyRepo    ticket.HistoryRepository
	messageRepo    ticket.MessageRepository
	attachmentRepo ticket.AttachmentRepository
	timeEntryRepo  timetracking.Repository
	userRepo       user.Repository
	recurringRepo  recurring.Repository
	debugLogRepo   debuglog.Repository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		ticketRepo:     repository.NewTicketRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		activityRepo:   repository.NewActivityLogRepository(db),
		historyRepo:    repository.NewHistoryRepository(db),
		messageRepo:    repository.NewMessageRepository(db),
		attachmentRepo: repository.NewAttachmentRepository(db),
		timeEntryRepo:  repository.NewTimeEntryRepository(db),
		userRepo:       repository.NewUserRepository(db, log),
		recurringRepo:  repository.NewRecurringTaskRepository(db),
		debugLogRepo:   repository.NewDebugLogRepository(db),
	}
}
