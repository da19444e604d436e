package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/helpdesk/internal/domain/debuglog"
	"github.com/orris-inc/helpdesk/internal/domain/recurring"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
)

func RecurringTaskToModel(t *recurring.Task) *models.RecurringTaskModel {
	return &models.RecurringTaskModel{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		CreatorID:    t.CreatorID,
		AssigneeID:   t.AssigneeID,
		Priority:     t.Priority.String(),
		IntervalDays: t.IntervalDays,
		NextRunAt:    t.NextRunAt.UnixMilli(),
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt.UnixMilli(),
		UpdatedAt:    t.UpdatedAt.UnixMilli(),
	}
}

func RecurringTaskToDomain(model *models.RecurringTaskModel) *recurring.Task {
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		priority = vo.PriorityMedium
	}
	return &recurring.Task{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		CreatorID:    model.CreatorID,
		AssigneeID:   model.AssigneeID,
		Priority:     priority,
		IntervalDays: model.IntervalDays,
		NextRunAt:    millisToTime(model.NextRunAt),
		IsActive:     model.IsActive,
		CreatedAt:    millisToTime(model.CreatedAt),
		UpdatedAt:    millisToTime(model.UpdatedAt),
	}
}

func DebugLogToModel(e *debuglog.Entry) (*models.DebugLogModel, error) {
	var payload datatypes.JSON
	if len(e.Context) > 0 {
		raw, err := json.Marshal(e.Context)
		if err != nil {
			return nil, fmt.Errorf("failed to encode debug log context: %w", err)
		}
		payload = raw
	}
	return &models.DebugLogModel{
		Channel:   e.Channel,
		Level:     string(e.Level),
		Message:   e.Message,
		Context:   payload,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}, nil
}
