package timetracking

import "time"

// Breakdown partitions tracked minutes between human agents and automation agents.
type Breakdown struct {
	Total int `json:"total"`
	Human int `json:"human"`
	AI    int `json:"ai"`
}

// ComputeBreakdown sums ended durations and live minutes of running entries.
// isAIAgent reports the automation flag of an entry's user.
func ComputeBreakdown(entries []*TimeEntry, isAIAgent func(userID uint) bool, now time.Time) Breakdown {
	var b Breakdown
	for _, e := range entries {
		minutes := e.LiveMinutes(now)
		b.Total += minutes
		if isAIAgent != nil && isAIAgent(e.UserID()) {
			b.AI += minutes
		} else {
			b.Human += minutes
		}
	}
	return b
}

// LinkedMinutes sums durations of entries linked to each comment.
func LinkedMinutes(entries []*TimeEntry) map[uint]int {
	out := make(map[uint]int)
	for _, e := range entries {
		if e.commentID == nil || e.endedAt == nil {
			continue
		}
		out[*e.commentID] += e.durationMinutes
	}
	return out
}
