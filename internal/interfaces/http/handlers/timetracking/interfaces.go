package timetracking

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/application/timetracking/usecases"
	domain "github.com/orris-inc/helpdesk/internal/domain/timetracking"
)

type TimerActionExecutor interface {
	Execute(ctx context.Context, cmd usecases.TimerCommand) (*dto.TimerActionResult, error)
}

type StopTimerExecutor interface {
	Execute(ctx context.Context, cmd usecases.StopTimerCommand) (*dto.TimerActionResult, error)
}

type GetActiveTimerExecutor interface {
	Execute(ctx context.Context, query usecases.TimerCommand) (*dto.RunningTimerDTO, error)
}

type GetRunningTimersExecutor interface {
	Execute(ctx context.Context, query usecases.GetRunningTimersQuery) ([]*dto.RunningTimerDTO, error)
}

type ListTimeEntriesExecutor interface {
	Execute(ctx context.Context, query usecases.ListTicketTimeEntriesQuery) ([]*dto.TimeEntryDTO, error)
}

type GetBreakdownExecutor interface {
	Execute(ctx context.Context, ticketID uint) (*domain.Breakdown, error)
}

type LogManualTimeExecutor interface {
	Execute(ctx context.Context, cmd usecases.LogManualTimeCommand) (*dto.TimeEntryDTO, error)
}

type UpdateTimeEntryExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpdateTimeEntryCommand) (*dto.TimeEntryDTO, error)
}

type DeleteTimeEntryExecutor interface {
	Execute(ctx context.Context, cmd usecases.DeleteTimeEntryCommand) error
}

type TimerUseCases struct {
	Start   TimerActionExecutor
	Pause   TimerActionExecutor
	Resume  TimerActionExecutor
	Stop    StopTimerExecutor
	Discard TimerActionExecutor
	Active  GetActiveTimerExecutor
	Running GetRunningTimersExecutor
}

type TimeEntryUseCases struct {
	List      ListTimeEntriesExecutor
	Breakdown GetBreakdownExecutor
	LogManual LogManualTimeExecutor
	Update    UpdateTimeEntryExecutor
	Delete    DeleteTimeEntryExecutor
}
