package api

import (
	"net/http"

	"karabox/internal/handler/middleware"
	"karabox/internal/usecase/commands"
	"karabox/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	commands commands.LoyaltyCommands
	queries  queries.LoyaltyQueries
}

func NewLoyaltyHandler(cmds commands.LoyaltyCommands, qrs queries.LoyaltyQueries) *LoyaltyHandler {
	return &LoyaltyHandler{
		commands: cmds,
		queries:  qrs,
	}
}

// @Summary Loyalty balance
// @Description Current point balance for the authenticated customer
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.LoyaltyView
// @Failure 401 {object} map[string]string
// @Router /loyalty [get]
func (h *LoyaltyHandler) Balance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.queries.Balance(c.Request.Context(), userID)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Redeem loyalty points
// @Description Exchange points for a free session credit
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.LoyaltyView
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} map[string]string
// @Router /loyalty/redeem [post]
func (h *LoyaltyHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.commands.RedeemPoints(c.Request.Context(), userID); err != nil {
		abortBookingError(c, err)
		return
	}

	view, err := h.queries.Balance(c.Request.Context(), userID)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
