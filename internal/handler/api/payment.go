package api

import (
	"context"
	"net/http"

	"karabox/internal/domain/reservation"
	reqdto "karabox/internal/handler/dto/request"
	resdto "karabox/internal/handler/dto/response"
	"karabox/internal/handler/httperr"
	"karabox/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: cmds}
}

// @Summary Create payment intent
// @Description Price the cart server-side and authorize that amount with the provider
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentIntentRequest true "Cart and customer"
// @Success 200 {object} resdto.PaymentIntentResponse
// @Failure 400 {object} httperr.Response
// @Router /payments/intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req reqdto.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.commands.CreateIntent(c.Request.Context(), commands.IntentInput{
		Items:         reqdto.ToCartSlots(req.Cart),
		CustomerName:  req.Customer.Name,
		CustomerEmail: req.Customer.Email,
		PromoCode:     req.PromoCode,
		LoyaltyUsed:   req.LoyaltyUsed,
	})
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromIntentResult(result))
}

// @Summary Authorize a deposit
// @Description Place a hold against an existing reservation
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.DepositAuthorizeRequest true "Reservation and amount"
// @Success 200 {object} resdto.DepositResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/deposit/authorize [post]
func (h *PaymentHandler) AuthorizeDeposit(c *gin.Context) {
	var req reqdto.DepositAuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	ref, err := h.commands.AuthorizeDeposit(c.Request.Context(), req.ReservationID, req.AmountCents())
	if err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.DepositResponse{
		ReservationID: req.ReservationID.String(),
		DepositStatus: string(reservation.DepositAuthorized),
		Reference:     ref,
	})
}

// @Summary Capture a deposit
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.DepositActionRequest true "Reservation"
// @Success 200 {object} resdto.DepositResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/deposit/capture [post]
func (h *PaymentHandler) CaptureDeposit(c *gin.Context) {
	h.settleDeposit(c, string(reservation.DepositCaptured), h.commands.CaptureDeposit)
}

// @Summary Cancel a deposit
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.DepositActionRequest true "Reservation"
// @Success 200 {object} resdto.DepositResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/deposit/cancel [post]
func (h *PaymentHandler) CancelDeposit(c *gin.Context) {
	h.settleDeposit(c, string(reservation.DepositCanceled), h.commands.CancelDeposit)
}

func (h *PaymentHandler) settleDeposit(c *gin.Context, status string, action func(context.Context, uuid.UUID) error) {
	var req reqdto.DepositActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := action(c.Request.Context(), req.ReservationID); err != nil {
		abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.DepositResponse{
		ReservationID: req.ReservationID.String(),
		DepositStatus: status,
	})
}
