package timeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
)

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func minutes(n int) time.Time { return base.Add(time.Duration(n) * time.Minute) }

func uintPtr(v uint) *uint { return &v }

func comment(t *testing.T, id uint, internal bool, timeSpent int, createdAt time.Time) *ticket.Comment {
	t.Helper()
	c, err := ticket.ReconstructComment(id, 1, 5, "body", internal, timeSpent, createdAt, createdAt, nil)
	require.NoError(t, err)
	return c
}

func entry(t *testing.T, id uint, commentID *uint, start time.Time, duration int) *timetracking.TimeEntry {
	t.Helper()
	end := start.Add(time.Duration(duration) * time.Minute)
	e, err := timetracking.ReconstructTimeEntry(timetracking.ReconstructParams{
		ID:              id,
		TicketID:        1,
		UserID:          5,
		CommentID:       commentID,
		StartedAt:       start,
		EndedAt:         &end,
		DurationMinutes: duration,
		Source:          timetracking.SourceTimer,
	})
	require.NoError(t, err)
	return e
}

type row struct {
	Kind        ItemKind
	ID          uint
	Badge       int
	Linked      []uint
	Attachments []uint
}

func summarize(tl Timeline) []row {
	out := make([]row, 0, len(tl.Items))
	for _, it := range tl.Items {
		r := row{Kind: it.Kind, Badge: it.TimeBadgeMinutes}
		if it.Comment != nil {
			r.ID = it.Comment.ID()
		} else {
			r.ID = it.TimeEntry.ID()
		}
		for _, e := range it.LinkedEntries {
			r.Linked = append(r.Linked, e.ID())
		}
		for _, a := range it.Attachments {
			r.Attachments = append(r.Attachments, a.ID)
		}
		out = append(out, r)
	}
	return out
}

func fixture(t *testing.T) Input {
	return Input{
		Comments: []*ticket.Comment{
			comment(t, 10, false, 15, minutes(0)),
			comment(t, 11, true, 0, minutes(20)),
			comment(t, 12, false, 5, minutes(40)),
		},
		TimeEntries: []*timetracking.TimeEntry{
			entry(t, 100, nil, minutes(10), 7),
			entry(t, 101, uintPtr(12), minutes(30), 8),
			entry(t, 102, uintPtr(12), minutes(35), 4),
			entry(t, 103, uintPtr(11), minutes(15), 3),
		},
		Attachments: []*ticket.Attachment{
			{ID: 200},
			{ID: 201, CommentID: uintPtr(11)},
			{ID: 202, CommentID: uintPtr(10)},
		},
	}
}

func TestBuild_AgentSeesEverything(t *testing.T) {
	tl := Build(fixture(t), true)

	want := []row{
		{Kind: KindComment, ID: 10, Badge: 15, Attachments: []uint{202}},
		{Kind: KindTimeEntry, ID: 100},
		{Kind: KindComment, ID: 11, Badge: 3, Linked: []uint{103}, Attachments: []uint{201}},
		{Kind: KindComment, ID: 12, Badge: 12, Linked: []uint{101, 102}},
	}
	if diff := cmp.Diff(want, summarize(tl)); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, tl.TicketAttachments, 1)
	assert.Equal(t, uint(200), tl.TicketAttachments[0].ID)
}

func TestBuild_CustomerHidesInternalAndOrphans(t *testing.T) {
	tl := Build(fixture(t), false)

	want := []row{
		{Kind: KindComment, ID: 10, Badge: 15, Attachments: []uint{202}},
		{Kind: KindComment, ID: 12, Badge: 12, Linked: []uint{101, 102}},
	}
	if diff := cmp.Diff(want, summarize(tl)); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, tl.TicketAttachments, 1)
}

func TestBuild_StableOnEqualTimes(t *testing.T) {
	in := Input{
		Comments:    []*ticket.Comment{comment(t, 1, false, 0, minutes(5)), comment(t, 2, false, 0, minutes(5))},
		TimeEntries: []*timetracking.TimeEntry{entry(t, 9, nil, minutes(5), 1)},
	}

	got := summarize(Build(in, true))

	require.Len(t, got, 3)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, KindTimeEntry, got[2].Kind)
}

func TestBuild_LinkedZeroDurationOverridesLegacy(t *testing.T) {
	in := Input{
		Comments:    []*ticket.Comment{comment(t, 1, false, 30, minutes(0))},
		TimeEntries: []*timetracking.TimeEntry{entry(t, 2, uintPtr(1), minutes(0), 0)},
	}

	got := Build(in, true)

	require.Len(t, got.Items, 1)
	assert.Zero(t, got.Items[0].TimeBadgeMinutes)
}

func TestBuild_Empty(t *testing.T) {
	tl := Build(Input{}, false)

	assert.Empty(t, tl.Items)
	assert.Empty(t, tl.TicketAttachments)
}
