package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/domain/user"
	"github.com/orris-inc/helpdesk/internal/shared/clock"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils/setutil"
)

type GetTicketTimeBreakdownUseCase struct {
	entryRepo timetracking.Repository
	userRepo  user.Repository
	clock     clock.Clock
	logger    logger.Interface
}

func NewGetTicketTimeBreakdownUseCase(
	entryRepo timetracking.Repository,
	userRepo user.Repository,
	clk clock.Clock,
	logger logger.Interface,
) *GetTicketTimeBreakdownUseCase {
	return &GetTicketTimeBreakdownUseCase{entryRepo: entryRepo, userRepo: userRepo, clock: clk, logger: logger}
}

// Execute returns total, human and automation minutes for a ticket. Running
// timers count with their live elapsed minutes.
func (uc *GetTicketTimeBreakdownUseCase) Execute(ctx context.Context, ticketID uint) (*timetracking.Breakdown, error) {
	entries, err := uc.entryRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to list time entries", "ticket_id", ticketID, "error", err)
		return nil, translateError(err)
	}

	ids := setutil.NewUintSet()
	for _, e := range entries {
		ids.Add(e.UserID())
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids.ToSlice())
	if err != nil {
		uc.logger.Errorw("failed to load time entry users", "ticket_id", ticketID, "error", err)
		return nil, translateError(err)
	}
	aiAgents := make(map[uint]bool, len(users))
	for _, u := range users {
		aiAgents[u.ID()] = u.IsAIAgent()
	}

	b := timetracking.ComputeBreakdown(entries, func(id uint) bool { return aiAgents[id] }, uc.clock.Now())
	return &b, nil
}
