package ticket

import (
	"regexp"
	"strings"
	"time"
)

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message stores the threading identifiers of a mail exchanged about a ticket.
type Message struct {
	ID          uint
	TicketID    uint
	CommentID   *uint
	Direction   MessageDirection
	MessageID   string
	InReplyTo   string
	References  []string
	FromAddress string
	Subject     string
	CreatedAt   time.Time
}

// NormalizeMessageID strips angle brackets and surrounding space so ids compare
// regardless of how a mail client quoted them.
func NormalizeMessageID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return strings.TrimSpace(id)
}

var subjectRef = regexp.MustCompile(`\[#([0-9A-Za-z]{6,32})\]`)

// HashFromSubject extracts the ticket hash from a "[#hash]" token in a subject.
func HashFromSubject(subject string) (string, bool) {
	m := subjectRef.FindStringSubmatch(subject)
	if m == nil {
		return "", false
	}
	return m[1], true
}
