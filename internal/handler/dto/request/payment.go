package request

import "github.com/google/uuid"

type PaymentIntentRequest struct {
	Cart        []SlotRequest   `json:"cart" binding:"required"`
	Customer    CustomerRequest `json:"customer" binding:"required"`
	PromoCode   *string         `json:"promoCode,omitempty"`
	LoyaltyUsed bool            `json:"loyaltyUsed,omitempty"`
}

type DepositAuthorizeRequest struct {
	ReservationID uuid.UUID `json:"reservationId" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
}

func (r DepositAuthorizeRequest) AmountCents() int64 {
	cents := priceToCents(&r.Amount)
	return *cents
}

type DepositActionRequest struct {
	ReservationID uuid.UUID `json:"reservationId" binding:"required"`
}
