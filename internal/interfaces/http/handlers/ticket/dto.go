package ticket

import (
	"strings"

	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	domain "github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// Requests bind from JSON or urlencoded forms. Tags and cc_user_ids are comma separated.

type CreateTicketRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=255"`
	Description string `form:"description" json:"description" binding:"max=65535"`
	Priority    string `form:"priority" json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Type        string `form:"type" json:"type"`
	Tags        string `form:"tags" json:"tags"`
	DueDate     string `form:"due_date" json:"due_date"`
	AssigneeID  *uint  `form:"assignee_id" json:"assignee_id"`

	SkipNotification bool   `form:"skip_notification" json:"skip_notification"`
	CCUserIDs        string `form:"cc_user_ids" json:"cc_user_ids"`
}

func (r *CreateTicketRequest) ToCommand(actor authorization.Actor) (usecases.CreateTicketCommand, error) {
	cc, err := utils.ParseUintList(r.CCUserIDs, "cc user")
	if err != nil {
		return usecases.CreateTicketCommand{}, err
	}
	cmd := usecases.CreateTicketCommand{
		Actor:            actor,
		Title:            r.Title,
		Description:      r.Description,
		Priority:         r.Priority,
		Type:             r.Type,
		Tags:             domain.ParseTags(r.Tags),
		AssigneeID:       r.AssigneeID,
		SkipNotification: r.SkipNotification,
		CCUserIDs:        cc,
	}
	if strings.TrimSpace(r.DueDate) != "" {
		due, err := utils.ParseTime(r.DueDate, "due_date")
		if err != nil {
			return cmd, err
		}
		cmd.DueDate = &due
	}
	return cmd, nil
}

type AddCommentRequest struct {
	Content          string `form:"content" json:"content" binding:"required,max=65535"`
	IsInternal       bool   `form:"is_internal" json:"is_internal"`
	TimeSpent        int    `form:"time_spent" json:"time_spent" binding:"min=0"`
	SkipNotification bool   `form:"skip_notification" json:"skip_notification"`
	CCUserIDs        string `form:"cc_user_ids" json:"cc_user_ids"`
	LogTimer         bool   `form:"log_timer" json:"log_timer"`
	// ManualStart and ManualEnd log a manual time entry linked to the comment.
	ManualStart    string `form:"manual_start" json:"manual_start"`
	ManualEnd      string `form:"manual_end" json:"manual_end"`
	ManualBillable *bool  `form:"manual_billable" json:"manual_billable"`
}

func (r *AddCommentRequest) ToCommand(ticketID uint, actor authorization.Actor) (usecases.AddCommentCommand, error) {
	cc, err := utils.ParseUintList(r.CCUserIDs, "cc user")
	if err != nil {
		return usecases.AddCommentCommand{}, err
	}
	cmd := usecases.AddCommentCommand{
		TicketID:         ticketID,
		Actor:            actor,
		Content:          r.Content,
		IsInternal:       r.IsInternal,
		TimeSpent:        r.TimeSpent,
		SkipNotification: r.SkipNotification,
		CCUserIDs:        cc,
		LogTimer:         r.LogTimer,
	}
	if r.ManualStart != "" || r.ManualEnd != "" {
		start, err := utils.ParseTime(r.ManualStart, "manual_start")
		if err != nil {
			return cmd, err
		}
		end, err := utils.ParseTime(r.ManualEnd, "manual_end")
		if err != nil {
			return cmd, err
		}
		billable := r.ManualBillable == nil || *r.ManualBillable
		cmd.Manual = &usecases.ManualTime{StartedAt: start, EndedAt: end, IsBillable: billable}
	}
	return cmd, nil
}

type EditCommentRequest struct {
	Content string `form:"content" json:"content" binding:"required,max=65535"`
}

type ChangeStatusRequest struct {
	Status           string `form:"status" json:"status" binding:"required"`
	SkipNotification bool   `form:"skip_notification" json:"skip_notification"`
}

type AssignTicketRequest struct {
	// AssigneeID 0 or absent unassigns.
	AssigneeID       uint `form:"assignee_id" json:"assignee_id"`
	SkipNotification bool `form:"skip_notification" json:"skip_notification"`
}

// UpdateTicketRequest changes only the fields present. An empty due_date clears it.
type UpdateTicketRequest struct {
	Description *string `form:"description" json:"description"`
	Tags        *string `form:"tags" json:"tags"`
	Priority    *string `form:"priority" json:"priority"`
	DueDate     *string `form:"due_date" json:"due_date"`
}

func (r *UpdateTicketRequest) ToCommand(ticketID uint, actor authorization.Actor) (usecases.UpdateTicketCommand, error) {
	cmd := usecases.UpdateTicketCommand{
		TicketID:    ticketID,
		Actor:       actor,
		Description: r.Description,
		Priority:    r.Priority,
	}
	if r.Tags != nil {
		tags := domain.ParseTags(*r.Tags)
		cmd.Tags = &tags
	}
	if r.DueDate != nil {
		if strings.TrimSpace(*r.DueDate) == "" {
			cmd.ClearDueDate = true
		} else {
			due, err := utils.ParseTime(*r.DueDate, "due_date")
			if err != nil {
				return cmd, err
			}
			cmd.DueDate = &due
		}
	}
	return cmd, nil
}

type ArchiveTicketRequest struct {
	Restore bool `form:"restore" json:"restore"`
}

type ListTicketsRequest struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Mine     bool   `form:"mine"`
	Archived bool   `form:"archived"`
}
