package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	uservo "github.com/orris-inc/helpdesk/internal/domain/user/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

const defaultBatchLimit = 50

type RunIngestCommand struct {
	// Limit caps the number of messages fetched; 0 uses the configured batch limit.
	Limit  int
	DryRun bool
}

// Settings is the ingest part of the configuration.
type Settings struct {
	Enabled         bool
	BatchLimit      int
	ProcessedFolder string
	FailedFolder    string
	Policy          mailingest.SenderPolicy
}

// Repositories groups the stores an ingest run writes to. Attachments may be nil
// when the attachments table is missing.
type Repositories struct {
	Tickets     ticket.TicketRepository
	Comments    ticket.CommentRepository
	Activity    ticket.ActivityLogRepository
	History     ticket.HistoryRepository
	Messages    ticket.MessageRepository
	Attachments ticket.AttachmentRepository
	Users       user.Repository
}

// Notifier is the subset of ticket notifications raised by inbound mail.
type Notifier interface {
	TicketCreated(ctx context.Context, t *ticket.Ticket, ccUserIDs []uint, actorID uint)
	CommentAdded(ctx context.Context, t *ticket.Ticket, c *ticket.Comment, ccUserIDs []uint, actorID uint)
}

type RunIngestUseCase struct {
	settings  Settings
	connector mailingest.Connector
	parser    mailingest.Parser
	lock      mailingest.RunLock
	repos     Repositories
	store     ticket.AttachmentStore
	hashGen   ticket.HashGenerator
	txMgr     db.Transactor
	notifier  Notifier
	clock     clock.Clock
	logger    logger.Interface
}

// NewRunIngestUseCase wires the reconciler. lock and store are optional.
func NewRunIngestUseCase(
	settings Settings,
	connector mailingest.Connector,
	parser mailingest.Parser,
	lock mailingest.RunLock,
	repos Repositories,
	store ticket.AttachmentStore,
	hashGen ticket.HashGenerator,
	txMgr db.Transactor,
	notifier Notifier,
	clk clock.Clock,
	logger logger.Interface,
) *RunIngestUseCase {
	if settings.ProcessedFolder == "" {
		settings.ProcessedFolder = "Processed"
	}
	if settings.FailedFolder == "" {
		settings.FailedFolder = "Failed"
	}
	return &RunIngestUseCase{
		settings:  settings,
		connector: connector,
		parser:    parser,
		lock:      lock,
		repos:     repos,
		store:     store,
		hashGen:   hashGen,
		txMgr:     txMgr,
		notifier:  notifier,
		clock:     clk,
		logger:    logger,
	}
}

// Execute polls the mailbox once and reconciles every unseen message into a
// ticket or comment. Per-message failures are reported in the result; only
// run-level failures (connection, fetch, lock) are returned as errors.
func (uc *RunIngestUseCase) Execute(ctx context.Context, cmd RunIngestCommand) (*mailingest.RunResult, error) {
	uc.logger.Infow("executing run ingest use case", "limit", cmd.Limit, "dry_run", cmd.DryRun)

	if !uc.settings.Enabled {
		uc.logger.Infow("email ingest is not configured, skipping")
		return mailingest.DisabledResult(), nil
	}

	if uc.lock != nil {
		acquired, err := uc.lock.Acquire(ctx)
		switch {
		case err != nil:
			uc.logger.Warnw("failed to acquire ingest lock, continuing without it", "error", err)
		case !acquired:
			return nil, errors.NewConflictError("email ingest run already in progress")
		default:
			defer func() {
				if err := uc.lock.Release(context.WithoutCancel(ctx)); err != nil {
					uc.logger.Warnw("failed to release ingest lock", "error", err)
				}
			}()
		}
	}

	mailbox, err := uc.connector.Connect(ctx)
	if err != nil {
		uc.logger.Errorw("failed to connect to mailbox", "error", err)
		return nil, errors.NewExternalServiceError("failed to connect to mailbox", err.Error())
	}
	defer func() {
		if err := mailbox.Close(); err != nil {
			uc.logger.Warnw("failed to close mailbox", "error", err)
		}
	}()

	limit := cmd.Limit
	if limit <= 0 {
		limit = uc.settings.BatchLimit
	}
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	raws, err := mailbox.FetchUnseen(ctx, limit)
	if err != nil {
		uc.logger.Errorw("failed to fetch unseen messages", "error", err)
		return nil, errors.NewExternalServiceError("failed to fetch messages", err.Error())
	}

	result := mailingest.NewRunResult(cmd.DryRun)
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			uc.logger.Warnw("ingest run cancelled", "checked", result.Checked)
			return result, err
		}
		result.Checked++
		detail := uc.process(ctx, mailbox, raw, cmd.DryRun)
		result.Record(detail)
	}

	uc.logger.Infow("email ingest run finished",
		"checked", result.Checked,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"dry_run", cmd.DryRun,
	)
	return result, nil
}

// sender is the resolved author of an inbound message.
type sender struct {
	user *user.User
	// isNew marks a customer provisioned for this message, created in the message transaction.
	isNew bool
}

func (uc *RunIngestUseCase) process(ctx context.Context, mailbox mailingest.Mailbox, raw mailingest.RawMessage, dryRun bool) mailingest.Detail {
	log := uc.logger.With("uid", raw.UID)
	detail := mailingest.Detail{UID: raw.UID}

	// The server answered without the body section. The message stays unseen in
	// place so the next run fetches it again.
	if len(raw.Data) == 0 {
		log.Warnw("message body missing from fetch response")
		detail.Status = mailingest.StatusFailed
		detail.Reason = mailingest.ReasonFetchError
		detail.Error = "message body not returned by server"
		return detail
	}

	msg, err := uc.parser.Parse(raw.Data)
	if err != nil {
		log.Warnw("failed to parse message", "error", err)
		return uc.fail(ctx, mailbox, detail, mailingest.ReasonParseError, err, dryRun)
	}
	if msg.MessageID == "" {
		msg.MessageID = syntheticMessageID(raw.Data)
	}

	dup, err := uc.repos.Messages.ExistsByMessageID(ctx, msg.MessageID)
	if err != nil {
		return uc.fail(ctx, mailbox, detail, mailingest.ReasonPersistenceError, err, dryRun)
	}
	if dup {
		detail.Status = mailingest.StatusSkipped
		detail.Reason = mailingest.ReasonDuplicate
		if !dryRun {
			uc.move(ctx, mailbox, &detail, uc.settings.ProcessedFolder)
		}
		return detail
	}

	from, err := uc.resolveSender(ctx, msg)
	if err != nil {
		if errors.IsForbiddenError(err) {
			log.Infow("sender not allowed", "from", utils.MaskEmail(msg.FromAddress))
			detail.Status = mailingest.StatusSkipped
			detail.Reason = mailingest.ReasonSenderNotAllowed
			if !dryRun {
				if err := mailbox.MarkSeen(ctx, raw.UID); err != nil {
					detail.Error = err.Error()
				}
			}
			return detail
		}
		if errors.IsValidationError(err) {
			return uc.fail(ctx, mailbox, detail, mailingest.ReasonParseError, err, dryRun)
		}
		return uc.fail(ctx, mailbox, detail, mailingest.ReasonPersistenceError, err, dryRun)
	}

	target, err := uc.match(ctx, msg, from)
	if err != nil {
		return uc.fail(ctx, mailbox, detail, mailingest.ReasonPersistenceError, err, dryRun)
	}

	if dryRun {
		detail.Status = mailingest.StatusProcessed
		detail.Action = mailingest.ActionCreateTicket
		if target != nil {
			id := target.ID()
			detail.TicketID = &id
			detail.Action = mailingest.ActionAddComment
		}
		return detail
	}

	t, c, err := uc.persist(ctx, raw.UID, msg, from, target)
	if err != nil {
		log.Errorw("failed to persist inbound message", "message_id", msg.MessageID, "error", err)
		return uc.fail(ctx, mailbox, detail, mailingest.ReasonPersistenceError, err, dryRun)
	}

	id := t.ID()
	detail.Status = mailingest.StatusProcessed
	detail.TicketID = &id
	if c == nil {
		detail.Action = mailingest.ActionCreateTicket
		uc.notifier.TicketCreated(ctx, t, nil, from.user.ID())
	} else {
		detail.Action = mailingest.ActionAddComment
		uc.notifier.CommentAdded(ctx, t, c, nil, from.user.ID())
	}

	uc.move(ctx, mailbox, &detail, uc.settings.ProcessedFolder)
	log.Infow("inbound message processed",
		"ticket_id", id,
		"action", detail.Action,
		"subject", utils.TruncateForLog(msg.Subject, 80))
	return detail
}

// resolveSender finds the user behind the From address or provisions a customer
// when the sender policy allows it. A rejected sender is reported as forbidden.
func (uc *RunIngestUseCase) resolveSender(ctx context.Context, msg *mailingest.InboundMessage) (sender, error) {
	email, err := uservo.NewEmail(msg.FromAddress)
	if err != nil {
		return sender{}, errors.NewValidationError("invalid sender address", msg.FromAddress)
	}
	existing, err := uc.repos.Users.GetByEmail(ctx, email.String())
	if err != nil {
		return sender{}, fmt.Errorf("failed to look up sender: %w", err)
	}
	if existing != nil {
		return sender{user: existing}, nil
	}
	if !uc.settings.Policy.AllowsUnknown(email) {
		return sender{}, errors.NewForbiddenError("sender not allowed")
	}
	u, err := user.NewCustomerFromEmail(msg.FromName, email, uc.clock.Now())
	if err != nil {
		return sender{}, errors.NewValidationError(err.Error())
	}
	return sender{user: u, isNew: true}, nil
}

// match returns the ticket a message replies to, or nil for a new ticket.
// Thread headers win over the subject token; archived tickets never match.
func (uc *RunIngestUseCase) match(ctx context.Context, msg *mailingest.InboundMessage, from sender) (*ticket.Ticket, error) {
	if ids := msg.ThreadIDs(); len(ids) > 0 {
		ticketID, found, err := uc.repos.Messages.FindTicketIDByMessageIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to match thread: %w", err)
		}
		if found {
			t, err := uc.repos.Tickets.GetByID(ctx, ticketID)
			if err != nil {
				return nil, fmt.Errorf("failed to load ticket: %w", err)
			}
			if t != nil && !t.IsArchived() {
				return t, nil
			}
		}
	}

	hash, ok := ticket.HashFromSubject(msg.Subject)
	if !ok {
		return nil, nil
	}
	t, err := uc.repos.Tickets.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket by hash: %w", err)
	}
	if t == nil || t.IsArchived() {
		return nil, nil
	}
	// A bare subject token only lets the owner or staff into the ticket.
	if from.isNew || !t.CanBeViewedBy(from.user.Actor()) {
		return nil, nil
	}
	return t, nil
}

func (uc *RunIngestUseCase) persist(
	ctx context.Context,
	uid uint32,
	msg *mailingest.InboundMessage,
	from sender,
	target *ticket.Ticket,
) (*ticket.Ticket, *ticket.Comment, error) {
	now := uc.clock.Now()
	var (
		t = target
		c *ticket.Comment
		// blobs written by this attempt, removed again if the transaction fails
		storedKeys []string
	)

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if from.isNew {
			if err := uc.repos.Users.Create(txCtx, from.user); err != nil {
				return fmt.Errorf("failed to provision sender: %w", err)
			}
		}
		authorID := from.user.ID()

		var changes []ticket.FieldChange
		if t == nil {
			created, err := uc.createTicket(txCtx, msg, authorID, now)
			if err != nil {
				return err
			}
			t = created
		} else {
			comment, err := ticket.NewComment(t.ID(), authorID, msg.Body(), false, 0, now)
			if err != nil {
				return err
			}
			if err := uc.repos.Comments.Create(txCtx, comment); err != nil {
				return fmt.Errorf("failed to save comment: %w", err)
			}
			c = comment
			if t.IsOwnedBy(authorID) && !from.user.IsAgent() {
				if change, ok := t.ReopenOnReply(now); ok {
					changes = append(changes, change)
				}
			}
			t.Touch(now)
			if err := uc.repos.Tickets.Update(txCtx, t); err != nil {
				return err
			}
			if len(changes) > 0 {
				if err := uc.repos.History.Append(txCtx, ticket.NewHistoryEntries(t.ID(), authorID, changes, now)); err != nil {
					return fmt.Errorf("failed to write history: %w", err)
				}
			}
		}

		var commentID *uint
		if c != nil {
			id := c.ID()
			commentID = &id
		}
		if err := uc.repos.Messages.Create(txCtx, &ticket.Message{
			TicketID:    t.ID(),
			CommentID:   commentID,
			Direction:   ticket.DirectionInbound,
			MessageID:   msg.MessageID,
			InReplyTo:   ticket.NormalizeMessageID(msg.InReplyTo),
			References:  msg.References,
			FromAddress: from.user.Email().String(),
			Subject:     msg.Subject,
			CreatedAt:   now,
		}); err != nil {
			return fmt.Errorf("failed to record message: %w", err)
		}

		keys, err := uc.saveAttachments(txCtx, t.ID(), commentID, authorID, msg.Attachments, now)
		storedKeys = keys
		if err != nil {
			return err
		}

		details := map[string]any{
			"uid":         uid,
			"message_id":  msg.MessageID,
			"from":        from.user.Email().String(),
			"attachments": len(keys),
		}
		if c != nil {
			details["comment_id"] = c.ID()
		}
		for _, ch := range changes {
			details[ch.Field] = map[string]string{"old": ch.OldValue, "new": ch.NewValue}
		}
		if err := uc.repos.Activity.Append(txCtx, ticket.NewActivity(t.ID(), authorID, ticket.ActionEmailReceived, details, now)); err != nil {
			return fmt.Errorf("failed to write activity: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.discardBlobs(ctx, storedKeys)
		return nil, nil, err
	}
	return t, c, nil
}

func (uc *RunIngestUseCase) discardBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := uc.store.Delete(ctx, key); err != nil {
			uc.logger.Warnw("failed to remove orphaned attachment", "key", key, "error", err)
		}
	}
}

func (uc *RunIngestUseCase) createTicket(ctx context.Context, msg *mailingest.InboundMessage, authorID uint, now time.Time) (*ticket.Ticket, error) {
	hash, err := uc.hashGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket hash: %w", err)
	}
	t, err := ticket.NewTicket(ticket.NewTicketParams{
		Hash:        hash,
		Title:       truncateRunes(msg.TicketTitle(), 255),
		Description: msg.Body(),
		Priority:    vo.PriorityMedium,
		Type:        vo.TypeQuestion,
		Source:      vo.SourceEmail,
		CreatorID:   authorID,
	}, now)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return t, nil
}

func (uc *RunIngestUseCase) saveAttachments(
	ctx context.Context,
	ticketID uint,
	commentID *uint,
	userID uint,
	files []mailingest.InboundAttachment,
	now time.Time,
) ([]string, error) {
	if len(files) == 0 || uc.store == nil || uc.repos.Attachments == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := ticket.AttachmentKey(ticketID, uuid.NewString(), f.Filename)
		if err := uc.store.Put(ctx, key, f.Data, f.ContentType); err != nil {
			return keys, fmt.Errorf("failed to store attachment %q: %w", f.Filename, err)
		}
		keys = append(keys, key)
		if err := uc.repos.Attachments.Create(ctx, &ticket.Attachment{
			TicketID:    ticketID,
			CommentID:   commentID,
			UserID:      userID,
			Filename:    ticket.CleanFilename(f.Filename),
			ContentType: f.ContentType,
			Size:        int64(len(f.Data)),
			StorageKey:  key,
			CreatedAt:   now,
		}); err != nil {
			return keys, fmt.Errorf("failed to save attachment: %w", err)
		}
	}
	return keys, nil
}

// fail records a failed message and moves it to the failed folder outside dry runs.
func (uc *RunIngestUseCase) fail(
	ctx context.Context,
	mailbox mailingest.Mailbox,
	detail mailingest.Detail,
	reason string,
	cause error,
	dryRun bool,
) mailingest.Detail {
	detail.Status = mailingest.StatusFailed
	detail.Reason = reason
	detail.Error = cause.Error()
	if !dryRun {
		uc.move(ctx, mailbox, &detail, uc.settings.FailedFolder)
	}
	return detail
}

// move keeps the detail status and appends the move error; the dedup step makes a rerun safe.
func (uc *RunIngestUseCase) move(ctx context.Context, mailbox mailingest.Mailbox, detail *mailingest.Detail, folder string) {
	if err := mailbox.Move(ctx, detail.UID, folder); err != nil {
		uc.logger.Warnw("failed to move message", "uid", detail.UID, "folder", folder, "error", err)
		moveErr := fmt.Sprintf("move to %s failed: %v", folder, err)
		if detail.Error != "" {
			detail.Error += "; " + moveErr
		} else {
			detail.Error = moveErr
		}
	}
}

// syntheticMessageID gives header-less mail a stable id so reruns still dedup.
func syntheticMessageID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16]) + "@ingest.invalid"
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
