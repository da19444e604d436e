package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/mailingest/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

type RunIngestExecutor interface {
	Execute(ctx context.Context, cmd usecases.RunIngestCommand) (*mailingest.RunResult, error)
}

// RunEmailIngestRequest carries the optional overrides of a manual run.
type RunEmailIngestRequest struct {
	DryRun bool `form:"dry_run" json:"dry_run"`
	Limit  int  `form:"limit" json:"limit" binding:"omitempty,min=1,max=500"`
}

type EmailIngestHandler struct {
	runUC  RunIngestExecutor
	logger logger.Interface
}

func NewEmailIngestHandler(runUC RunIngestExecutor, logger logger.Interface) *EmailIngestHandler {
	return &EmailIngestHandler{runUC: runUC, logger: logger}
}

// Run handles POST /admin/email-ingest/run
//
//	@Summary	Run email ingest now
//	@Tags		admin
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Security	Bearer
//	@Param		request	body		RunEmailIngestRequest	false	"Run options"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse	"Run already in progress"
//	@Failure	502		{object}	utils.APIResponse	"Mailbox unreachable"
//	@Router		/admin/email-ingest/run [post]
func (h *EmailIngestHandler) Run(c *gin.Context) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return
	}

	var req RunEmailIngestRequest
	if c.Request.ContentLength > 0 || c.Request.URL.RawQuery != "" {
		if err := c.ShouldBind(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	h.logger.Infow("manual email ingest requested",
		"user_id", rc.UserID,
		"dry_run", req.DryRun,
		"limit", req.Limit,
	)

	result, err := h.runUC.Execute(c.Request.Context(), usecases.RunIngestCommand{
		Limit:  req.Limit,
		DryRun: req.DryRun,
	})
	if err != nil {
		h.logger.Errorw("manual email ingest failed", "user_id", rc.UserID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email ingest completed", result)
}
