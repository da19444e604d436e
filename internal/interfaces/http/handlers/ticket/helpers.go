package ticket

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// parseTicketRequest reads the caller and the :id path parameter, writing the
// error response itself when either is missing.
func (h *TicketHandler) parseTicketRequest(c *gin.Context) (*authorization.RequestContext, uint, bool) {
	rc, ok := utils.RequireRequestContext(c)
	if !ok {
		return nil, 0, false
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return nil, 0, false
	}
	return rc, ticketID, true
}
