// Package notification turns ticket changes into outbound mail.
package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/orris-inc/helpdesk/internal/domain/notification"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/services/markdown"
)

// Config carries the mail identity used for outbound notifications.
type Config struct {
	FromAddress     string
	FromName        string
	MessageIDDomain string
	BaseURL         string
}

// Dispatcher implements the ticket Notifier hooks. It never returns errors:
// every failure is logged and the originating change stands.
type Dispatcher struct {
	users    user.Repository
	messages ticket.MessageRepository
	sender   notification.Sender
	markdown markdown.MarkdownService
	cfg      Config
	clock    clock.Clock
	logger   logger.Interface
}

// NewDispatcher builds a dispatcher. messages may be nil when the
// ticket_messages table is missing; threading headers are then omitted.
func NewDispatcher(
	users user.Repository,
	messages ticket.MessageRepository,
	sender notification.Sender,
	markdownService markdown.MarkdownService,
	cfg Config,
	clk clock.Clock,
	logger logger.Interface,
) *Dispatcher {
	if cfg.MessageIDDomain == "" {
		cfg.MessageIDDomain = domainOf(cfg.FromAddress)
	}
	return &Dispatcher{
		users:    users,
		messages: messages,
		sender:   sender,
		markdown: markdownService,
		cfg:      cfg,
		clock:    clk,
		logger:   logger,
	}
}

func (d *Dispatcher) TicketCreated(ctx context.Context, t *ticket.Ticket, ccUserIDs []uint, actorID uint) {
	plan := notification.PlanTicketCreated(audienceOf(t, actorID), ccUserIDs)
	d.dispatch(ctx, t, nil, plan, actorID, func(actor string) body {
		return body{
			intro:    fmt.Sprintf("%s opened a new ticket.", actor),
			markdown: t.Description(),
		}
	})
}

func (d *Dispatcher) CommentAdded(ctx context.Context, t *ticket.Ticket, c *ticket.Comment, ccUserIDs []uint, actorID uint) {
	plan := notification.PlanCommentAdded(audienceOf(t, actorID), c.IsInternal(), ccUserIDs, d.agentLookup(ctx))
	d.dispatch(ctx, t, c, plan, actorID, func(actor string) body {
		intro := fmt.Sprintf("%s replied.", actor)
		if c.IsInternal() {
			intro = fmt.Sprintf("%s added an internal note.", actor)
		}
		return body{intro: intro, markdown: c.Content()}
	})
}

func (d *Dispatcher) StatusChanged(ctx context.Context, t *ticket.Ticket, oldStatus string, actorID uint) {
	plan := notification.PlanStatusChanged(audienceOf(t, actorID))
	d.dispatch(ctx, t, nil, plan, actorID, func(actor string) body {
		return body{intro: fmt.Sprintf("%s changed the status from %s to %s.", actor, oldStatus, t.Status())}
	})
}

func (d *Dispatcher) TicketAssigned(ctx context.Context, t *ticket.Ticket, actorID uint) {
	plan := notification.PlanTicketAssigned(audienceOf(t, actorID))
	d.dispatch(ctx, t, nil, plan, actorID, func(actor string) body {
		return body{intro: fmt.Sprintf("%s assigned this ticket to you.", actor), markdown: t.Description()}
	})
}

type body struct {
	intro    string
	markdown string
}

func (d *Dispatcher) dispatch(
	ctx context.Context,
	t *ticket.Ticket,
	c *ticket.Comment,
	plan notification.Plan,
	actorID uint,
	render func(actorName string) body,
) {
	if plan.Empty() {
		return
	}
	log := d.logger.With("ticket_id", t.ID(), "kind", plan.Kind)

	people, err := d.loadUsers(ctx, actorID, plan)
	if err != nil {
		log.Errorw("failed to load notification recipients", "error", err)
		return
	}
	to := addresses(people, plan.Recipients, plan.Internal)
	cc := addresses(people, plan.CC, plan.Internal)
	if len(to) == 0 && len(cc) == 0 {
		log.Debugw("notification has no deliverable recipients")
		return
	}

	actorName := "Someone"
	if actor, ok := people[actorID]; ok {
		actorName = actor.Name()
	}
	email, err := d.compose(t, render(actorName))
	if err != nil {
		log.Errorw("failed to render notification", "error", err)
		return
	}
	email.To = to
	email.CC = cc
	d.thread(ctx, t.ID(), email)

	if err := d.sender.Send(ctx, email); err != nil {
		log.Errorw("failed to send notification", "error", err, "recipients", len(to)+len(cc))
		return
	}
	d.record(ctx, t, c, email)
	log.Infow("notification sent", "message_id", email.MessageID, "recipients", len(to)+len(cc))
}

func (d *Dispatcher) compose(t *ticket.Ticket, b body) (*notification.Email, error) {
	subject := t.SubjectRef() + " " + t.Title()
	link := ""
	if d.cfg.BaseURL != "" {
		link = fmt.Sprintf("%s/tickets/%d", strings.TrimRight(d.cfg.BaseURL, "/"), t.ID())
	}

	var htmlBody strings.Builder
	htmlBody.WriteString("<html><body>")
	fmt.Fprintf(&htmlBody, "<p>%s</p>", html.EscapeString(b.intro))
	if b.markdown != "" {
		rendered, err := d.markdown.ToHTMLSanitized(b.markdown)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&htmlBody, "<div>%s</div>", rendered)
	}
	if link != "" {
		fmt.Fprintf(&htmlBody, `<p><a href="%s">View ticket %s</a></p>`, html.EscapeString(link), html.EscapeString(t.SubjectRef()))
	}
	htmlBody.WriteString("</body></html>")

	text := []string{b.intro}
	if b.markdown != "" {
		text = append(text, "", b.markdown)
	}
	if link != "" {
		text = append(text, "", link)
	}

	return &notification.Email{
		Subject:   subject,
		HTMLBody:  htmlBody.String(),
		TextBody:  strings.Join(text, "\n"),
		MessageID: uuid.NewString() + "@" + d.cfg.MessageIDDomain,
	}, nil
}

// thread points the mail at the latest stored message of the ticket.
func (d *Dispatcher) thread(ctx context.Context, ticketID uint, email *notification.Email) {
	if d.messages == nil {
		return
	}
	latest, err := d.messages.LatestForTicket(ctx, ticketID)
	if err != nil {
		d.logger.Warnw("failed to load thread parent", "ticket_id", ticketID, "error", err)
		return
	}
	if latest == nil {
		return
	}
	email.InReplyTo = latest.MessageID
	refs := append([]string{}, latest.References...)
	email.References = append(refs, latest.MessageID)
}

func (d *Dispatcher) record(ctx context.Context, t *ticket.Ticket, c *ticket.Comment, email *notification.Email) {
	if d.messages == nil {
		return
	}
	msg := &ticket.Message{
		TicketID:    t.ID(),
		Direction:   ticket.DirectionOutbound,
		MessageID:   email.MessageID,
		InReplyTo:   email.InReplyTo,
		References:  email.References,
		FromAddress: d.cfg.FromAddress,
		Subject:     email.Subject,
		CreatedAt:   d.clock.Now(),
	}
	if c != nil {
		id := c.ID()
		msg.CommentID = &id
	}
	if err := d.messages.Create(ctx, msg); err != nil {
		d.logger.Warnw("failed to record outbound message", "ticket_id", t.ID(), "message_id", email.MessageID, "error", err)
	}
}

func (d *Dispatcher) loadUsers(ctx context.Context, actorID uint, plan notification.Plan) (map[uint]*user.User, error) {
	ids := make([]uint, 0, len(plan.Recipients)+len(plan.CC)+1)
	ids = append(ids, actorID)
	ids = append(ids, plan.Recipients...)
	ids = append(ids, plan.CC...)
	users, err := d.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]*user.User, len(users))
	for _, u := range users {
		out[u.ID()] = u
	}
	return out, nil
}

func (d *Dispatcher) agentLookup(ctx context.Context) func(uint) bool {
	return func(id uint) bool {
		u, err := d.users.GetByID(ctx, id)
		if err != nil || u == nil {
			return false
		}
		return u.IsAgent()
	}
}

// addresses resolves ids to mail addresses. Internal plans only ever reach agents.
func addresses(people map[uint]*user.User, ids []uint, internal bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		u, ok := people[id]
		if !ok || u.Email() == nil {
			continue
		}
		if internal && !u.IsAgent() {
			continue
		}
		out = append(out, u.Email().String())
	}
	return out
}

func audienceOf(t *ticket.Ticket, actorID uint) notification.Audience {
	return notification.Audience{ActorID: actorID, CreatorID: t.CreatorID(), AssigneeID: t.AssigneeID()}
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return address[at+1:]
	}
	return "localhost"
}
