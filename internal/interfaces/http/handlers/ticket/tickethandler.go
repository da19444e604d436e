package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

type TicketHandler struct {
	uc     UseCases
	logger logger.Interface
}

func NewTicketHandler(uc UseCases, logger logger.Interface) *TicketHandler {
	return &TicketHandler{uc: uc, logger: logger}
}

// CreateTicket handles POST /tickets
//
//	@Summary		Create ticket
//	@Tags			tickets
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Security		Bearer
//	@Param			ticket	body		CreateTicketRequest	true	"Ticket"
//	@Success		201		{object}	utils.APIResponse
//	@Failure		400		{object}	utils.APIResponse
//	@Router			/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	cmd, err := req.ToCommand(rc.Actor())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Create.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// ListTickets handles GET /tickets
//
//	@Summary	List tickets
//	@Tags		tickets
//	@Produce	json
//	@Security	Bearer
//	@Param		status		query		string	false	"Status"
//	@Param		priority	query		string	false	"Priority"
//	@Param		mine		query		bool	false	"Only tickets created by or assigned to the caller"
//	@Param		archived	query		bool	false	"List the archive"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	utils.APIResponse
//	@Router		/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}

	var req ListTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid query", err.Error()))
		return
	}
	page := utils.ParsePagination(c)

	result, err := h.uc.List.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		Actor:    rc.Actor(),
		Status:   req.Status,
		Priority: req.Priority,
		Mine:     req.Mine,
		Archived: req.Archived,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, page.Page, page.PageSize)
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	result, err := h.uc.Get.Execute(c.Request.Context(), ticketID, rc.Actor())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTimeline handles GET /tickets/:id/timeline
//
//	@Summary		Ticket timeline
//	@Description	Comments and orphan time entries in chronological order. Internal comments and agent-only data are hidden from customers.
//	@Tags			tickets
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"Ticket ID"
//	@Success		200	{object}	utils.APIResponse
//	@Failure		404	{object}	utils.APIResponse
//	@Router			/tickets/{id}/timeline [get]
func (h *TicketHandler) GetTimeline(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	result, err := h.uc.Timeline.Execute(c.Request.Context(), usecases.GetTimelineQuery{
		TicketID: ticketID,
		Actor:    rc.Actor(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AddComment handles POST /tickets/:id/comments
//
//	@Summary	Add comment
//	@Tags		tickets
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		id		path		int					true	"Ticket ID"
//	@Param		comment	body		AddCommentRequest	true	"Comment"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/tickets/{id}/comments [post]
func (h *TicketHandler) AddComment(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	cmd, err := req.ToCommand(ticketID, rc.Actor())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.AddComment.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Comment added successfully")
}

// EditComment handles PATCH /comments/:id
func (h *TicketHandler) EditComment(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	commentID, err := utils.ParseUintParam(c, "id", "comment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req EditCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.uc.EditComment.Execute(c.Request.Context(), usecases.EditCommentCommand{
		CommentID: commentID,
		Actor:     rc.Actor(),
		Content:   req.Content,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comment updated successfully", result)
}

// DeleteComment handles DELETE /comments/:id. Linked time entries are kept.
func (h *TicketHandler) DeleteComment(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	commentID, err := utils.ParseUintParam(c, "id", "comment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.uc.DeleteComment.Execute(c.Request.Context(), usecases.DeleteCommentCommand{
		CommentID: commentID,
		Actor:     rc.Actor(),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comment deleted successfully", nil)
}

// ChangeStatus handles PATCH /tickets/:id/status
//
//	@Summary	Change ticket status
//	@Tags		tickets
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		id		path		int					true	"Ticket ID"
//	@Param		status	body		ChangeStatusRequest	true	"New status"
//	@Success	200		{object}	utils.APIResponse
//	@Router		/tickets/{id}/status [patch]
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.uc.ChangeStatus.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		TicketID:         ticketID,
		Actor:            rc.Actor(),
		Status:           req.Status,
		SkipNotification: req.SkipNotification,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated successfully", result)
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.AssignTicketCommand{
		TicketID:         ticketID,
		Actor:            rc.Actor(),
		SkipNotification: req.SkipNotification,
	}
	if req.AssigneeID != 0 {
		cmd.AssigneeID = &req.AssigneeID
	}

	result, err := h.uc.Assign.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// UpdateTicket handles PATCH /tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	cmd, err := req.ToCommand(ticketID, rc.Actor())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Update.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// ArchiveTicket handles POST /tickets/:id/archive (restore=true brings it back)
func (h *TicketHandler) ArchiveTicket(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	var req ArchiveTicketRequest
	if err := c.ShouldBind(&req); err != nil && c.Request.ContentLength > 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.uc.Archive.Execute(c.Request.Context(), usecases.ArchiveTicketCommand{
		TicketID: ticketID,
		Actor:    rc.Actor(),
		Restore:  req.Restore,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Ticket archived successfully"
	if req.Restore {
		message = "Ticket restored successfully"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}

// DeleteTicket handles DELETE /tickets/:id (archived tickets only)
//
//	@Summary	Delete archived ticket
//	@Tags		tickets
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"Ticket ID"
//	@Success	200	{object}	utils.APIResponse
//	@Failure	409	{object}	utils.APIResponse	"Ticket is not archived"
//	@Router		/tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	rc, ticketID, ok := h.parseTicketRequest(c)
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		TicketID: ticketID,
		Actor:    rc.Actor(),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket deleted successfully", nil)
}
