package dto

import (
	"time"

	ttdto "github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timeline"
)

type TicketDTO struct {
	ID          uint       `json:"id"`
	Hash        string     `json:"hash"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Type        string     `json:"type"`
	Source      string     `json:"source"`
	CreatorID   uint       `json:"creator_id"`
	AssigneeID  *uint      `json:"assignee_id"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
	IsArchived  bool       `json:"is_archived"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at"`
}

type CommentDTO struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Content    string     `json:"content"`
	IsInternal bool       `json:"is_internal"`
	TimeSpent  int        `json:"time_spent"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

type AttachmentDTO struct {
	ID          uint      `json:"id"`
	CommentID   *uint     `json:"comment_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type ActivityDTO struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

type HistoryDTO struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	FieldName string    `json:"field_name"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
}

// TimelineItemDTO is a comment or an orphan time entry.
type TimelineItemDTO struct {
	Kind             string                `json:"kind"`
	At               time.Time             `json:"at"`
	Comment          *CommentDTO           `json:"comment,omitempty"`
	TimeEntries      []*ttdto.TimeEntryDTO `json:"time_entries,omitempty"`
	Attachments      []AttachmentDTO       `json:"attachments,omitempty"`
	TimeBadgeMinutes int                   `json:"time_badge_minutes,omitempty"`
	TimeEntry        *ttdto.TimeEntryDTO   `json:"time_entry,omitempty"`
}

type TimelineDTO struct {
	Ticket      *TicketDTO        `json:"ticket"`
	Items       []TimelineItemDTO `json:"items"`
	Attachments []AttachmentDTO   `json:"attachments"`
	// Activity and History are only filled for agents.
	Activity []ActivityDTO `json:"activity,omitempty"`
	History  []HistoryDTO  `json:"history,omitempty"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:          t.ID(),
		Hash:        t.Hash(),
		Title:       t.Title(),
		Description: t.Description(),
		Status:      t.Status().String(),
		Priority:    t.Priority().String(),
		Type:        t.Type().String(),
		Source:      t.Source().String(),
		CreatorID:   t.CreatorID(),
		AssigneeID:  t.AssigneeID(),
		Tags:        t.Tags(),
		DueDate:     t.DueDate(),
		IsArchived:  t.IsArchived(),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		ClosedAt:    t.ClosedAt(),
	}
}

func ToCommentDTO(c *ticket.Comment) *CommentDTO {
	return &CommentDTO{
		ID:         c.ID(),
		UserID:     c.UserID(),
		Content:    c.Content(),
		IsInternal: c.IsInternal(),
		TimeSpent:  c.TimeSpent(),
		CreatedAt:  c.CreatedAt(),
		EditedAt:   c.EditedAt(),
	}
}

func ToAttachmentDTOs(attachments []*ticket.Attachment) []AttachmentDTO {
	out := make([]AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, AttachmentDTO{
			ID:          a.ID,
			CommentID:   a.CommentID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}

func ToActivityDTOs(entries []*ticket.ActivityLogEntry) []ActivityDTO {
	out := make([]ActivityDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityDTO{ID: e.ID, UserID: e.UserID, Action: e.Action, Details: e.Details, CreatedAt: e.CreatedAt})
	}
	return out
}

func ToHistoryDTOs(entries []*ticket.HistoryEntry) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryDTO{
			ID:        e.ID,
			UserID:    e.UserID,
			FieldName: e.FieldName,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// ToTimelineItemDTOs maps timeline items. Non-agents see the time badge of a
// comment but not its linked entries, which carry rates and amounts.
func ToTimelineItemDTOs(tl timeline.Timeline, viewerIsAgent bool) []TimelineItemDTO {
	out := make([]TimelineItemDTO, 0, len(tl.Items))
	for _, it := range tl.Items {
		item := TimelineItemDTO{Kind: string(it.Kind), At: it.SortTime}
		switch it.Kind {
		case timeline.KindComment:
			item.Comment = ToCommentDTO(it.Comment)
			if viewerIsAgent {
				item.TimeEntries = ttdto.ToTimeEntryDTOs(it.LinkedEntries)
			}
			item.Attachments = ToAttachmentDTOs(it.Attachments)
			item.TimeBadgeMinutes = it.TimeBadgeMinutes
		case timeline.KindTimeEntry:
			item.TimeEntry = ttdto.ToTimeEntryDTO(it.TimeEntry)
		}
		out = append(out, item)
	}
	return out
}
