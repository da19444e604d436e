// Package notification decides who is told about ticket changes.
package notification

import (
	"github.com/orris-inc/helpdesk/internal/shared/utils/setutil"
)

type Kind string

const (
	KindTicketCreated  Kind = "ticket_created"
	KindCommentAdded   Kind = "comment_added"
	KindStatusChanged  Kind = "status_changed"
	KindTicketAssigned Kind = "ticket_assigned"
)

// Audience is the set of people attached to a ticket change.
type Audience struct {
	ActorID    uint
	CreatorID  uint
	AssigneeID *uint
}

// Plan lists the user ids a notification goes to.
type Plan struct {
	Kind       Kind
	Recipients []uint
	CC         []uint
	// Internal plans never address the customer.
	Internal bool
}

func (p Plan) Empty() bool {
	return len(p.Recipients) == 0 && len(p.CC) == 0
}

// ResolveCC deduplicates cc ids keeping first occurrence order and drops zero
// ids, the acting user and the ticket owner.
func ResolveCC(cc []uint, actorID, ownerID uint) []uint {
	set := setutil.NewUintSet()
	for _, id := range cc {
		if id == 0 || id == actorID || id == ownerID {
			continue
		}
		set.Add(id)
	}
	return set.ToSlice()
}

// PlanTicketCreated confirms to the creator, even when the creator is the
// actor, tells a preassigned agent and copies the resolved CC list.
func PlanTicketCreated(a Audience, cc []uint) Plan {
	to := setutil.NewUintSetFrom(recipients(0, a.CreatorID))
	to.AddAll(recipients(a.ActorID, assignee(a)))
	recipientIDs := to.ToSlice()
	return Plan{
		Kind:       KindTicketCreated,
		Recipients: recipientIDs,
		CC:         exclude(ResolveCC(cc, a.ActorID, a.CreatorID), recipientIDs),
	}
}

// PlanCommentAdded addresses the creator and assignee of a public comment plus
// the resolved CC list. Internal comments go to the assignee and CC'd agents only.
func PlanCommentAdded(a Audience, internal bool, cc []uint, isAgent func(userID uint) bool) Plan {
	if internal {
		to := recipients(a.ActorID, assignee(a))
		var agents []uint
		for _, id := range exclude(ResolveCC(cc, a.ActorID, a.CreatorID), to) {
			if isAgent != nil && isAgent(id) {
				agents = append(agents, id)
			}
		}
		return Plan{Kind: KindCommentAdded, Recipients: to, CC: agents, Internal: true}
	}
	to := recipients(a.ActorID, a.CreatorID, assignee(a))
	return Plan{
		Kind:       KindCommentAdded,
		Recipients: to,
		CC:         exclude(ResolveCC(cc, a.ActorID, a.CreatorID), to),
	}
}

// PlanStatusChanged tells the creator.
func PlanStatusChanged(a Audience) Plan {
	return Plan{Kind: KindStatusChanged, Recipients: recipients(a.ActorID, a.CreatorID)}
}

// PlanTicketAssigned tells the new assignee.
func PlanTicketAssigned(a Audience) Plan {
	return Plan{Kind: KindTicketAssigned, Recipients: recipients(a.ActorID, assignee(a)), Internal: true}
}

func assignee(a Audience) uint {
	if a.AssigneeID == nil {
		return 0
	}
	return *a.AssigneeID
}

// recipients drops zero ids and the actor, deduplicated.
func recipients(actorID uint, ids ...uint) []uint {
	set := setutil.NewUintSet()
	for _, id := range ids {
		if id == 0 || id == actorID {
			continue
		}
		set.Add(id)
	}
	return set.ToSlice()
}

func exclude(ids, drop []uint) []uint {
	skip := setutil.NewUintSetFrom(drop)
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !skip.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
