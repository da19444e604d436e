// Package timeline merges a ticket's comments, time entries and attachments into
// the ordered view shown to a viewer.
package timeline

import (
	"slices"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
)

type ItemKind string

const (
	KindComment   ItemKind = "comment"
	KindTimeEntry ItemKind = "time_entry"
)

// Item is one row of the timeline. Exactly one of Comment and TimeEntry is set.
type Item struct {
	Kind     ItemKind
	SortTime time.Time

	Comment *ticket.Comment
	// LinkedEntries are the time entries recorded against Comment.
	LinkedEntries []*timetracking.TimeEntry
	Attachments   []*ticket.Attachment
	// TimeBadgeMinutes is the sum of linked durations, or the legacy time_spent
	// when no entry is linked.
	TimeBadgeMinutes int

	TimeEntry *timetracking.TimeEntry
}

type Input struct {
	Comments    []*ticket.Comment
	TimeEntries []*timetracking.TimeEntry
	Attachments []*ticket.Attachment
}

type Timeline struct {
	Items []Item
	// TicketAttachments are attachments not tied to a comment.
	TicketAttachments []*ticket.Attachment
}

// Build applies viewer visibility and returns the items sorted ascending by
// comment created_at or orphan entry started_at. Equal times keep input order.
func Build(in Input, viewerIsAgent bool) Timeline {
	visible := make(map[uint]struct{}, len(in.Comments))
	items := make([]Item, 0, len(in.Comments)+len(in.TimeEntries))
	index := make(map[uint]int, len(in.Comments))

	for _, c := range in.Comments {
		if c.IsInternal() && !viewerIsAgent {
			continue
		}
		visible[c.ID()] = struct{}{}
		index[c.ID()] = len(items)
		items = append(items, Item{
			Kind:     KindComment,
			SortTime: c.CreatedAt(),
			Comment:  c,
		})
	}

	for _, e := range in.TimeEntries {
		if e.IsOrphan() {
			if !viewerIsAgent {
				continue
			}
			items = append(items, Item{
				Kind:      KindTimeEntry,
				SortTime:  e.StartedAt(),
				TimeEntry: e,
			})
			continue
		}
		// Entries linked to a hidden or deleted comment are dropped.
		if i, ok := index[*e.CommentID()]; ok {
			items[i].LinkedEntries = append(items[i].LinkedEntries, e)
		}
	}

	var ticketAttachments []*ticket.Attachment
	for _, a := range in.Attachments {
		if a.CommentID == nil {
			ticketAttachments = append(ticketAttachments, a)
			continue
		}
		if _, ok := visible[*a.CommentID]; !ok {
			continue
		}
		i := index[*a.CommentID]
		items[i].Attachments = append(items[i].Attachments, a)
	}

	for i := range items {
		if items[i].Kind != KindComment {
			continue
		}
		items[i].TimeBadgeMinutes = badgeMinutes(items[i].Comment, items[i].LinkedEntries)
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return a.SortTime.Compare(b.SortTime)
	})

	return Timeline{Items: items, TicketAttachments: ticketAttachments}
}

func badgeMinutes(c *ticket.Comment, linked []*timetracking.TimeEntry) int {
	if len(linked) == 0 {
		return c.TimeSpent()
	}
	total := 0
	for _, e := range linked {
		total += e.DurationMinutes()
	}
	return total
}
