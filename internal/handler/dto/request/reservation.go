package request

import (
	"math"
	"strconv"
	"time"

	"karabox/internal/usecase/commands"
)

// SlotRequest is one raw cart entry. Clients send the hour as a number (18,
// 18.5) or as free text ("18h30"), and the box under one of several aliased
// keys depending on frontend generation.
type SlotRequest struct {
	Date            string     `json:"date"`
	Hour            any        `json:"hour"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	TZOffsetMinutes int        `json:"tzOffsetMinutes"`
	Price           *float64   `json:"price"`
	Box             any        `json:"box"`
	BoxID           any        `json:"box_id"`
	BoxIDCamel      any        `json:"boxId"`
	ResourceID      any        `json:"resource_id"`
}

func (s SlotRequest) ToCartSlot() commands.CartSlot {
	return commands.CartSlot{
		Date:            s.Date,
		Hour:            coerceString(s.Hour),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		TZOffsetMinutes: s.TZOffsetMinutes,
		BoxRaw:          s.boxRaw(),
		PriceCents:      priceToCents(s.Price),
	}
}

func (s SlotRequest) boxRaw() string {
	for _, v := range []any{s.Box, s.BoxID, s.BoxIDCamel, s.ResourceID} {
		if raw := coerceString(v); raw != "" {
			return raw
		}
	}
	return ""
}

// coerceString renders whatever JSON scalar arrived as the string form the
// domain parsers expect.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// priceToCents converts decimal currency units to cents. Non-finite values
// count as absent so the default unit price gets substituted downstream.
func priceToCents(p *float64) *int64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	cents := int64(math.Round(*p * 100))
	return &cents
}

func ToCartSlots(items []SlotRequest) []commands.CartSlot {
	out := make([]commands.CartSlot, len(items))
	for i, it := range items {
		out[i] = it.ToCartSlot()
	}
	return out
}

type VerifyCartRequest struct {
	Items []SlotRequest `json:"items" binding:"required"`
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type ConfirmReservationRequest struct {
	Cart             []SlotRequest   `json:"cart" binding:"required"`
	Customer         CustomerRequest `json:"customer" binding:"required"`
	PromoCode        *string         `json:"promoCode,omitempty"`
	PaymentReference *string         `json:"paymentReference,omitempty"`
	LoyaltyUsed      bool            `json:"loyaltyUsed,omitempty"`
	IsFree           bool            `json:"isFree,omitempty"`
	Total            *float64        `json:"total,omitempty"`
}

func (r ConfirmReservationRequest) DeclaredTotalCents() *int64 {
	return priceToCents(r.Total)
}
