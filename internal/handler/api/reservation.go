package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "karabox/internal/handler/dto/request"
	resdto "karabox/internal/handler/dto/response"
	"karabox/internal/handler/httperr"
	"karabox/internal/handler/middleware"
	"karabox/internal/pkg/errs"
	"karabox/internal/usecase/commands"
	"karabox/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrs queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrs,
	}
}

// @Summary Verify cart availability
// @Description Resolve and price the cart, checking every slot for conflicts
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.VerifyCartRequest true "Cart to verify"
// @Success 200 {object} resdto.VerifyCartResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/verify-cart [post]
func (h *ReservationHandler) VerifyCart(c *gin.Context) {
	var req reqdto.VerifyCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	items, err := h.commands.VerifyCart(c.Request.Context(), reqdto.ToCartSlots(req.Items))
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVerifiedItems(items))
}

// @Summary Confirm reservation
// @Description Run the full booking workflow and persist the cart atomically
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.ConfirmReservationRequest true "Confirmation request"
// @Success 201 {object} resdto.ConfirmResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	var req reqdto.ConfirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	in := commands.ConfirmInput{
		Items:              reqdto.ToCartSlots(req.Cart),
		CustomerName:       req.Customer.Name,
		CustomerEmail:      req.Customer.Email,
		PromoCode:          req.PromoCode,
		PaymentRef:         req.PaymentReference,
		LoyaltyUsed:        req.LoyaltyUsed,
		DeclaredTotalCents: req.DeclaredTotalCents(),
		DeclaredFree:       req.IsFree,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		in.UserID = &userID
	}

	result, err := h.commands.Confirm(c.Request.Context(), in)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromConfirmResult(result))
}

// @Summary List reservations for a date
// @Description Confirmed slots for the given day, for the availability calendar
// @Tags reservations
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.DaySlotsResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations/slots [get]
func (h *ReservationHandler) SlotsByDate(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "date must be YYYY-MM-DD", nil)
		return
	}

	slots, err := h.queries.SlotsByDate(c.Request.Context(), date)
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.DaySlotsResponse{Reservations: slots})
}

// abortBookingError maps workflow errors onto HTTP statuses. Everything not
// recognized is a 500 with a generic body; the original error stays on the
// context for logging.
func abortBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrEmptyCart):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart is empty", nil)
	case errors.Is(err, errs.ErrMalformedSlot):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Malformed slot", nil)
	case errors.Is(err, errs.ErrInvalidBoxID):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid box identifier", nil)
	case errors.Is(err, errs.ErrMissingCustomer):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Customer name and email are required", nil)
	case errors.Is(err, errs.ErrPaymentRefRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment reference is required", nil)
	case errors.Is(err, errs.ErrPaymentNotVerified):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment could not be verified", nil)
	case errors.Is(err, errs.ErrInsufficientPoints):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Insufficient loyalty points", nil)
	case errors.Is(err, errs.ErrInvalidDepositAction):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid deposit action", nil)
	case errors.Is(err, errs.ErrSlotConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Slot is no longer available", nil)
	case errors.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
