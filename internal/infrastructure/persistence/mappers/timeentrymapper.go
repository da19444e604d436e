package mappers

import (
	"github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
)

type TimeEntryMapper interface {
	ToModel(e *timetracking.TimeEntry) *models.TimeEntryModel
	ToDomain(model *models.TimeEntryModel) (*timetracking.TimeEntry, error)
}

type TimeEntryMapperImpl struct{}

func NewTimeEntryMapper() TimeEntryMapper {
	return &TimeEntryMapperImpl{}
}

func (m *TimeEntryMapperImpl) ToModel(e *timetracking.TimeEntry) *models.TimeEntryModel {
	return &models.TimeEntryModel{
		ID:              e.ID(),
		TicketID:        e.TicketID(),
		UserID:          e.UserID(),
		CommentID:       e.CommentID(),
		StartedAt:       e.StartedAt().UnixMilli(),
		EndedAt:         optionalMillis(e.EndedAt()),
		PausedAt:        optionalMillis(e.PausedAt()),
		PausedSeconds:   e.PausedSeconds(),
		DurationMinutes: e.DurationMinutes(),
		IsBillable:      e.IsBillable(),
		IsManual:        e.IsManual(),
		BillableRate:    e.Rates().Billable,
		CostRate:        e.Rates().Cost,
		Source:          string(e.Source()),
		ActiveKey:       e.ActiveKey(),
		CreatedAt:       e.CreatedAt().UnixMilli(),
		UpdatedAt:       e.UpdatedAt().UnixMilli(),
	}
}

func (m *TimeEntryMapperImpl) ToDomain(model *models.TimeEntryModel) (*timetracking.TimeEntry, error) {
	return timetracking.ReconstructTimeEntry(timetracking.ReconstructParams{
		ID:              model.ID,
		TicketID:        model.TicketID,
		UserID:          model.UserID,
		CommentID:       model.CommentID,
		StartedAt:       millisToTime(model.StartedAt),
		EndedAt:         optionalTime(model.EndedAt),
		PausedAt:        optionalTime(model.PausedAt),
		PausedSeconds:   model.PausedSeconds,
		DurationMinutes: model.DurationMinutes,
		IsBillable:      model.IsBillable,
		IsManual:        model.IsManual,
		Rates:           timetracking.Rates{Billable: model.BillableRate, Cost: model.CostRate},
		Source:          timetracking.Source(model.Source),
		CreatedAt:       millisToTime(model.CreatedAt),
		UpdatedAt:       millisToTime(model.UpdatedAt),
	})
}
