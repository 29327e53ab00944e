package response

import "karabox/internal/usecase/commands"

type PaymentIntentResponse struct {
	PaymentReference *string        `json:"paymentReference,omitempty"`
	IsFree           bool           `json:"isFree"`
	TotalBefore      float64        `json:"totalBefore"`
	TotalAfter       float64        `json:"totalAfter"`
	Discount         float64        `json:"discount"`
	Promo            *PromoResponse `json:"promo,omitempty"`
}

func FromIntentResult(result *commands.IntentResult) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		PaymentReference: result.PaymentRef,
		IsFree:           result.IsFree,
		TotalBefore:      centsToUnits(result.Quote.BeforeCents),
		TotalAfter:       centsToUnits(result.Quote.AfterCents),
		Discount:         centsToUnits(result.Quote.DiscountCents),
		Promo:            fromApplied(result.Quote.Applied),
	}
}

type DepositResponse struct {
	ReservationID string `json:"reservationId"`
	DepositStatus string `json:"depositStatus"`
	Reference     string `json:"reference,omitempty"`
}
