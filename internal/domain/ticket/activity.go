package ticket

import "time"

// Activity log actions.
const (
	ActionTicketCreated   = "ticket_created"
	ActionCommentAdded    = "comment_added"
	ActionCommentEdited   = "comment_edited"
	ActionCommentDeleted  = "comment_deleted"
	ActionStatusChanged   = "status_changed"
	ActionTicketAssigned  = "ticket_assigned"
	ActionTicketUpdated   = "ticket_updated"
	ActionTicketArchived  = "ticket_archived"
	ActionTicketRestored  = "ticket_restored"
	ActionEmailReceived   = "email_received"
	ActionTimeLogged      = "time_logged"
	ActionTimeEntryEdited = "time_entry_updated"
	ActionTimeEntryDelete = "time_entry_deleted"
)

// ActivityLogEntry is an append-only audit record.
type ActivityLogEntry struct {
	ID        uint
	TicketID  uint
	UserID    uint
	Action    string
	Details   map[string]any
	CreatedAt time.Time
}

func NewActivity(ticketID, userID uint, action string, details map[string]any, now time.Time) *ActivityLogEntry {
	if details == nil {
		details = map[string]any{}
	}
	return &ActivityLogEntry{
		TicketID:  ticketID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: now,
	}
}
