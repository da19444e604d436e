package ticket

import (
	"strconv"
	"time"
)

const (
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldAssignee    = "assignee_id"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldDueDate     = "due_date"
	// FieldCommentPrefix is followed by the comment id for comment edits.
	FieldCommentPrefix = "comment:"
)

// FieldChange describes one field-level edit returned by ticket mutations.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// HistoryEntry is an append-only field diff shown as edit history.
type HistoryEntry struct {
	ID        uint
	TicketID  uint
	UserID    uint
	FieldName string
	OldValue  string
	NewValue  string
	CreatedAt time.Time
}

// NewHistoryEntries converts the changes made by userID into history rows.
func NewHistoryEntries(ticketID, userID uint, changes []FieldChange, now time.Time) []*HistoryEntry {
	entries := make([]*HistoryEntry, 0, len(changes))
	for _, c := range changes {
		entries = append(entries, &HistoryEntry{
			TicketID:  ticketID,
			UserID:    userID,
			FieldName: c.Field,
			OldValue:  c.OldValue,
			NewValue:  c.NewValue,
			CreatedAt: now,
		})
	}
	return entries
}

func equalUintPtr(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatUintPtr(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatTimePtr(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
