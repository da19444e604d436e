package timetracking

import "context"

// Repository persists time entries. Get methods return (nil, nil) when nothing matches.
type Repository interface {
	// Create inserts a new entry. A second active entry for the same
	// (ticket, user) fails with ErrActiveTimerExists.
	Create(ctx context.Context, entry *TimeEntry) error
	GetByID(ctx context.Context, id uint) (*TimeEntry, error)
	GetActive(ctx context.Context, ticketID, userID uint) (*TimeEntry, error)
	// Transition saves a timer state change guarded by the state the entry was
	// loaded in. A guard miss returns ErrStateChanged.
	Transition(ctx context.Context, entry *TimeEntry, from State) error
	// DeleteActive removes an entry that is still active; a miss returns ErrStateChanged.
	DeleteActive(ctx context.Context, id uint) error
	// Update saves an ended entry.
	Update(ctx context.Context, entry *TimeEntry) error
	Delete(ctx context.Context, id uint) error
	// DetachComment clears comment_id on entries linked to a deleted comment.
	DetachComment(ctx context.Context, commentID uint) (int64, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*TimeEntry, error)
	// ListActive returns active entries of the given tickets, optionally only one user's.
	ListActive(ctx context.Context, ticketIDs []uint, userID *uint) ([]*TimeEntry, error)
}
