package api

import (
	"net/http"

	resdto "karabox/internal/handler/dto/response"
	"karabox/internal/handler/httperr"
	"karabox/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccessHandler struct {
	queries queries.ReservationQueries
}

func NewAccessHandler(qrs queries.ReservationQueries) *AccessHandler {
	return &AccessHandler{queries: qrs}
}

// @Summary Check door access
// @Description Decide whether a scanned reservation may enter right now
// @Tags access
// @Produce json
// @Param id query string true "Reservation ID"
// @Success 200 {object} resdto.AccessCheckResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /access/check [get]
func (h *AccessHandler) Check(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "id must be a reservation UUID", nil)
		return
	}

	view, err := h.queries.CheckAccess(c.Request.Context(), id)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAccessView(view))
}
