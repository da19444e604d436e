package ticket

import "time"

// Events published after a ticket mutation commits. Notification dispatch consumes them.

type TicketCreatedEvent struct {
	TicketID  uint
	ActorID   uint
	Timestamp time.Time
}

type CommentAddedEvent struct {
	TicketID   uint
	CommentID  uint
	ActorID    uint
	IsInternal bool
	// CCUserIDs are extra recipients requested by the author.
	CCUserIDs []uint
	Timestamp time.Time
}

type StatusChangedEvent struct {
	TicketID  uint
	ActorID   uint
	OldStatus string
	NewStatus string
	Timestamp time.Time
}

type TicketAssignedEvent struct {
	TicketID   uint
	ActorID    uint
	AssigneeID uint
	Timestamp  time.Time
}
