package timetracking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/timetracking/dto"
	"github.com/orris-inc/helpdesk/internal/application/timetracking/usecases"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// Timer actions answer with a flat body:
// {success, message|error, elapsed_seconds?, paused_seconds?, duration_minutes?}.

// TimerActionRequest is the form body of every timer action.
type TimerActionRequest struct {
	TicketID string `form:"ticket_id" json:"ticket_id"`
	// CommentID links the stopped entry to a comment (stop only).
	CommentID string `form:"comment_id" json:"comment_id"`
}

type timerErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// legacyActions maps the ?action= values of the original single-endpoint API.
var legacyActions = map[string]string{
	"start-timer":   "start",
	"pause-timer":   "pause",
	"resume-timer":  "resume",
	"stop-timer":    "stop",
	"discard-timer": "discard",
}

type TimerHandler struct {
	uc     TimerUseCases
	logger logger.Interface
}

func NewTimerHandler(uc TimerUseCases, logger logger.Interface) *TimerHandler {
	return &TimerHandler{uc: uc, logger: logger}
}

// Start handles POST /api/timers/start
//
//	@Summary	Start timer
//	@Tags		timers
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		ticket_id	formData	int	true	"Ticket ID"
//	@Success	200			{object}	dto.TimerActionResult
//	@Failure	409			{object}	timerErrorResponse	"Timer already running"
//	@Router		/api/timers/start [post]
func (h *TimerHandler) Start(c *gin.Context) { h.handle(c, "start") }

// Pause handles POST /api/timers/pause
//
//	@Summary	Pause timer
//	@Tags		timers
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		ticket_id	formData	int	true	"Ticket ID"
//	@Success	200			{object}	dto.TimerActionResult
//	@Failure	404			{object}	timerErrorResponse	"No active timer"
//	@Failure	409			{object}	timerErrorResponse	"Timer already paused"
//	@Router		/api/timers/pause [post]
func (h *TimerHandler) Pause(c *gin.Context) { h.handle(c, "pause") }

// Resume handles POST /api/timers/resume
//
//	@Summary	Resume timer
//	@Tags		timers
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		ticket_id	formData	int	true	"Ticket ID"
//	@Success	200			{object}	dto.TimerActionResult
//	@Router		/api/timers/resume [post]
func (h *TimerHandler) Resume(c *gin.Context) { h.handle(c, "resume") }

// Stop handles POST /api/timers/stop
//
//	@Summary	Stop timer
//	@Tags		timers
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		ticket_id	formData	int	true	"Ticket ID"
//	@Param		comment_id	formData	int	false	"Comment to link the entry to"
//	@Success	200			{object}	dto.TimerActionResult
//	@Router		/api/timers/stop [post]
func (h *TimerHandler) Stop(c *gin.Context) { h.handle(c, "stop") }

// Discard handles POST /api/timers/discard
//
//	@Summary	Discard timer
//	@Tags		timers
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		ticket_id	formData	int	true	"Ticket ID"
//	@Success	200			{object}	dto.TimerActionResult
//	@Router		/api/timers/discard [post]
func (h *TimerHandler) Discard(c *gin.Context) { h.handle(c, "discard") }

// Legacy handles POST /api?action=start-timer|pause-timer|resume-timer|stop-timer|discard-timer
func (h *TimerHandler) Legacy(c *gin.Context) {
	action, ok := legacyActions[c.Query("action")]
	if !ok {
		c.JSON(http.StatusBadRequest, timerErrorResponse{Error: "unknown action"})
		return
	}
	h.handle(c, action)
}

// GetActive handles GET /tickets/:id/timer
func (h *TimerHandler) GetActive(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	timer, err := h.uc.Active.Execute(c.Request.Context(), usecases.TimerCommand{TicketID: ticketID, Actor: rc.Actor()})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", timer)
}

// GetRunning handles GET /timers/running?ticket_ids=1,2&mine=true
//
//	@Summary	Running timers
//	@Tags		timers
//	@Produce	json
//	@Security	Bearer
//	@Param		ticket_ids	query		string	true	"Comma separated ticket ids"
//	@Param		mine		query		bool	false	"Only the caller's timers"
//	@Success	200			{object}	utils.APIResponse
//	@Router		/timers/running [get]
func (h *TimerHandler) GetRunning(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}
	ids, err := utils.ParseUintList(c.Query("ticket_ids"), "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	timers, err := h.uc.Running.Execute(c.Request.Context(), usecases.GetRunningTimersQuery{
		TicketIDs: ids,
		OnlyMine:  utils.ParseBool(c.Query("mine")),
		Actor:     rc.Actor(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", timers)
}

func (h *TimerHandler) handle(c *gin.Context, action string) {
	rc, ok := utils.GetRequestContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, timerErrorResponse{Error: "authentication required"})
		return
	}

	var req TimerActionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, timerErrorResponse{Error: "invalid request body"})
		return
	}
	ticketID, err := utils.ParseUint(req.TicketID, "ticket")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.dispatch(c, action, ticketID, req, rc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TimerHandler) dispatch(c *gin.Context, action string, ticketID uint, req TimerActionRequest, rc *authorization.RequestContext) (*dto.TimerActionResult, error) {
	ctx := c.Request.Context()
	cmd := usecases.TimerCommand{TicketID: ticketID, Actor: rc.Actor()}

	switch action {
	case "start":
		return h.uc.Start.Execute(ctx, cmd)
	case "pause":
		return h.uc.Pause.Execute(ctx, cmd)
	case "resume":
		return h.uc.Resume.Execute(ctx, cmd)
	case "discard":
		return h.uc.Discard.Execute(ctx, cmd)
	default:
		stop := usecases.StopTimerCommand{TimerCommand: cmd}
		if req.CommentID != "" {
			commentID, err := utils.ParseUint(req.CommentID, "comment")
			if err != nil {
				return nil, err
			}
			stop.CommentID = &commentID
		}
		return h.uc.Stop.Execute(ctx, stop)
	}
}

func (h *TimerHandler) fail(c *gin.Context, err error) {
	status := utils.StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("timer action failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, timerErrorResponse{Success: false, Error: utils.ErrorMessage(err)})
}
