package mailingest

import (
	"strings"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
)

const noSubject = "(no subject)"

// InboundAttachment is a decoded MIME part saved with the ticket.
type InboundAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// InboundMessage is a parsed RFC 5322 message.
type InboundMessage struct {
	MessageID   string
	InReplyTo   string
	References  []string
	FromAddress string
	FromName    string
	Subject     string
	Date        time.Time
	TextBody    string
	Attachments []InboundAttachment
}

// ThreadIDs returns the ids a reply may refer to: In-Reply-To first, then
// References newest first. Ids are normalized and deduplicated.
func (m *InboundMessage) ThreadIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(id string) {
		id = ticket.NormalizeMessageID(id)
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(m.InReplyTo)
	for i := len(m.References) - 1; i >= 0; i-- {
		add(m.References[i])
	}
	return out
}

// TicketTitle is the subject used for a new ticket.
func (m *InboundMessage) TicketTitle() string {
	title := strings.TrimSpace(m.Subject)
	if title == "" {
		return noSubject
	}
	return title
}

// Body is the comment or description text. Empty bodies keep the subject so
// the comment is never blank.
func (m *InboundMessage) Body() string {
	body := strings.TrimSpace(m.TextBody)
	if body == "" {
		return m.TicketTitle()
	}
	return body
}

// RawMessage is an unseen message fetched from the mailbox. Data is empty when
// the server did not return the body.
type RawMessage struct {
	UID  uint32
	Data []byte
}
