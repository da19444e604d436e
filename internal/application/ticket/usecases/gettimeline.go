package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/domain/timeline"
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type GetTimelineQuery struct {
	TicketID uint
	Actor    authorization.Actor
}

type GetTimelineUseCase struct {
	repos          Repositories
	entryRepo      timetracking.Repository
	attachmentRepo ticket.AttachmentRepository
	capabilities   db.SchemaCapabilities
	logger         logger.Interface
}

func NewGetTimelineUseCase(
	repos Repositories,
	entryRepo timetracking.Repository,
	attachmentRepo ticket.AttachmentRepository,
	capabilities db.SchemaCapabilities,
	logger logger.Interface,
) *GetTimelineUseCase {
	return &GetTimelineUseCase{
		repos:          repos,
		entryRepo:      entryRepo,
		attachmentRepo: attachmentRepo,
		capabilities:   capabilities,
		logger:         logger,
	}
}

// Execute merges comments, time entries and attachments for the viewer. Agents
// also receive the activity log and field history.
func (uc *GetTimelineUseCase) Execute(ctx context.Context, query GetTimelineQuery) (*dto.TimelineDTO, error) {
	t, err := loadVisibleTicket(ctx, uc.repos.Tickets, query.TicketID, query.Actor)
	if err != nil {
		return nil, err
	}

	in := timeline.Input{}
	if in.Comments, err = uc.repos.Comments.ListByTicket(ctx, t.ID()); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if uc.capabilities.TimeEntries {
		if in.TimeEntries, err = uc.entryRepo.ListByTicket(ctx, t.ID()); err != nil {
			return nil, fmt.Errorf("failed to list time entries: %w", err)
		}
	}
	if uc.capabilities.Attachments {
		if in.Attachments, err = uc.attachmentRepo.ListByTicket(ctx, t.ID()); err != nil {
			return nil, fmt.Errorf("failed to list attachments: %w", err)
		}
	}

	isAgent := query.Actor.IsAgent()
	tl := timeline.Build(in, isAgent)
	out := &dto.TimelineDTO{
		Ticket:      dto.ToTicketDTO(t),
		Items:       dto.ToTimelineItemDTOs(tl, isAgent),
		Attachments: dto.ToAttachmentDTOs(tl.TicketAttachments),
	}
	if !isAgent {
		return out, nil
	}

	activity, err := uc.repos.Activity.ListByTicket(ctx, t.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	history, err := uc.repos.History.ListByTicket(ctx, t.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	out.Activity = dto.ToActivityDTOs(activity)
	out.History = dto.ToHistoryDTOs(history)

	uc.logger.Debugw("timeline built", "ticket_id", t.ID(), "items", len(out.Items))
	return out, nil
}
