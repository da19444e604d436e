package ticket

import (
	"context"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

// TicketRepository persists tickets. Get methods return (nil, nil) when the ticket does not exist.
type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	// Update saves the ticket guarded by its original version; a lost race returns a conflict error.
	Update(ctx context.Context, ticket *Ticket) error
	Delete(ctx context.Context, ticketID uint) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	GetByHash(ctx context.Context, hash string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
}

type TicketFilter struct {
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	CreatorID  *uint
	AssigneeID *uint
	Archived   bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, commentID uint) (*Comment, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*Comment, error)
	Delete(ctx context.Context, commentID uint) error
}

// ActivityLogRepository is append-only.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *ActivityLogEntry) error
	// ListByTicket returns entries newest first.
	ListByTicket(ctx context.Context, ticketID uint) ([]*ActivityLogEntry, error)
}

// HistoryRepository is append-only.
type HistoryRepository interface {
	Append(ctx context.Context, entries []*HistoryEntry) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*HistoryEntry, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ExistsByMessageID(ctx context.Context, messageID string) (bool, error)
	// FindTicketIDByMessageIDs returns the ticket of the first id (in argument order) that is stored.
	FindTicketIDByMessageIDs(ctx context.Context, messageIDs []string) (uint, bool, error)
	// LatestForTicket returns the most recent stored message of a ticket, or nil.
	LatestForTicket(ctx context.Context, ticketID uint) (*Message, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *Attachment) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Attachment, error)
}

// HashGenerator produces public ticket identifiers.
type HashGenerator interface {
	Generate() (string, error)
}
