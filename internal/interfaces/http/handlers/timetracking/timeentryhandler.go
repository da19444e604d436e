package timetracking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/usecases"
	domain "github.com/orris-inc/helpdesk/internal/domain/timetracking"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// TimeEntryRequest is the body of manual entries and edits. Omitted rates keep
// the configured defaults (create) or the entry's current rates (edit).
type TimeEntryRequest struct {
	StartedAt    string   `form:"started_at" json:"started_at" binding:"required"`
	EndedAt      string   `form:"ended_at" json:"ended_at" binding:"required"`
	IsBillable   *bool    `form:"is_billable" json:"is_billable"`
	BillableRate *float64 `form:"billable_rate" json:"billable_rate" binding:"omitempty,min=0"`
	CostRate     *float64 `form:"cost_rate" json:"cost_rate" binding:"omitempty,min=0"`
	CommentID    *uint    `form:"comment_id" json:"comment_id"`
}

func (r *TimeEntryRequest) billable() bool {
	return r.IsBillable == nil || *r.IsBillable
}

// rates returns nil when neither rate was sent; a lone rate is rejected.
func (r *TimeEntryRequest) rates() (*domain.Rates, error) {
	switch {
	case r.BillableRate == nil && r.CostRate == nil:
		return nil, nil
	case r.BillableRate == nil || r.CostRate == nil:
		return nil, errors.NewValidationError("billable_rate and cost_rate must be sent together")
	}
	return &domain.Rates{Billable: *r.BillableRate, Cost: *r.CostRate}, nil
}

func parseRange(r *TimeEntryRequest) (time.Time, time.Time, *domain.Rates, error) {
	start, err := utils.ParseTime(r.StartedAt, "started_at")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	end, err := utils.ParseTime(r.EndedAt, "ended_at")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	rates, err := r.rates()
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	return start, end, rates, nil
}

type TimeEntryHandler struct {
	uc     TimeEntryUseCases
	logger logger.Interface
}

func NewTimeEntryHandler(uc TimeEntryUseCases, logger logger.Interface) *TimeEntryHandler {
	return &TimeEntryHandler{uc: uc, logger: logger}
}

// List handles GET /tickets/:id/time-entries
//
//	@Summary	Ticket time ledger
//	@Tags		time-entries
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"Ticket ID"
//	@Success	200	{object}	utils.APIResponse
//	@Failure	403	{object}	utils.APIResponse
//	@Router		/tickets/{id}/time-entries [get]
func (h *TimeEntryHandler) List(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	entries, err := h.uc.List.Execute(c.Request.Context(), usecases.ListTicketTimeEntriesQuery{
		TicketID: ticketID,
		Actor:    rc.Actor(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", entries)
}

// Breakdown handles GET /tickets/:id/time-breakdown
//
//	@Summary	Human and AI minutes on a ticket
//	@Tags		time-entries
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"Ticket ID"
//	@Success	200	{object}	utils.APIResponse
//	@Router		/tickets/{id}/time-breakdown [get]
func (h *TimeEntryHandler) Breakdown(c *gin.Context) {
	if _, ok := utils.RequireRequestContext(c); !ok {
		return
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	breakdown, err := h.uc.Breakdown.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", breakdown)
}

// LogManual handles POST /tickets/:id/time-entries
//
//	@Summary	Log manual time
//	@Tags		time-entries
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		id		path		int					true	"Ticket ID"
//	@Param		entry	body		TimeEntryRequest	true	"Entry"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse	"End before start or shorter than one minute"
//	@Router		/tickets/{id}/time-entries [post]
func (h *TimeEntryHandler) LogManual(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	start, end, rates, err := parseRange(&req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	entry, err := h.uc.LogManual.Execute(c.Request.Context(), usecases.LogManualTimeCommand{
		TicketID:   ticketID,
		Actor:      rc.Actor(),
		StartedAt:  start,
		EndedAt:    end,
		IsBillable: req.billable(),
		Rates:      rates,
		CommentID:  req.CommentID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, entry, "Time logged successfully")
}

// Update handles PUT /time-entries/:id
func (h *TimeEntryHandler) Update(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	entryID, err := utils.ParseUintParam(c, "id", "time entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TimeEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	start, end, rates, err := parseRange(&req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.UpdateTimeEntryCommand{
		EntryID:    entryID,
		Actor:      rc.Actor(),
		StartedAt:  start,
		EndedAt:    end,
		IsBillable: req.billable(),
		Rates:      rates,
	}

	entry, err := h.uc.Update.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Time entry updated successfully", entry)
}

// Delete handles DELETE /time-entries/:id. The linked comment is kept.
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	entryID, err := utils.ParseUintParam(c, "id", "time entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), usecases.DeleteTimeEntryCommand{
		EntryID: entryID,
		Actor:   rc.Actor(),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Time entry deleted successfully", nil)
}
