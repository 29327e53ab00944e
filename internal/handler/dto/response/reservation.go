package response

import (
	"time"

	"karabox/internal/domain/pricing"
	"karabox/internal/usecase/commands"
	"karabox/internal/usecase/queries"

	"github.com/google/uuid"
)

type CartItemResponse struct {
	ResourceID  int       `json:"resourceId"`
	Date        string    `json:"date"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"durationMin"`
	Price       float64   `json:"price"`
}

type VerifyCartResponse struct {
	Items []CartItemResponse `json:"items"`
}

func FromVerifiedItems(items []commands.VerifiedItem) *VerifyCartResponse {
	out := &VerifyCartResponse{Items: make([]CartItemResponse, len(items))}
	for i, it := range items {
		out.Items[i] = CartItemResponse{
			ResourceID:  it.BoxID,
			Date:        it.Date,
			Start:       it.Start,
			End:         it.End,
			DurationMin: it.DurationMin,
			Price:       centsToUnits(it.PriceCents),
		}
	}
	return out
}

type PromoResponse struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

type ConfirmedReservationResponse struct {
	ID         uuid.UUID `json:"id"`
	ResourceID int       `json:"resourceId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Price      float64   `json:"price"`
}

type ConfirmResponse struct {
	Status       string                         `json:"status"`
	Reservations []ConfirmedReservationResponse `json:"reservations"`
	TotalBefore  float64                        `json:"totalBefore"`
	TotalAfter   float64                        `json:"totalAfter"`
	Discount     float64                        `json:"discount"`
	Promo        *PromoResponse                 `json:"promo,omitempty"`
}

func FromConfirmResult(result *commands.ConfirmResult) *ConfirmResponse {
	resp := &ConfirmResponse{
		Status:      "ok",
		TotalBefore: centsToUnits(result.Quote.BeforeCents),
		TotalAfter:  centsToUnits(result.Quote.AfterCents),
		Discount:    centsToUnits(result.Quote.DiscountCents),
		Promo:       fromApplied(result.Quote.Applied),
	}
	for _, r := range result.Reservations {
		resp.Reservations = append(resp.Reservations, ConfirmedReservationResponse{
			ID:         r.ID,
			ResourceID: r.BoxID,
			Start:      r.Start,
			End:        r.End,
			Price:      centsToUnits(r.PriceCents),
		})
	}
	return resp
}

type DaySlotsResponse struct {
	Reservations []queries.DaySlotView `json:"reservations"`
}

type AccessCheckResponse struct {
	Valid       bool                    `json:"valid"`
	Access      bool                    `json:"access"`
	Reason      string                  `json:"reason,omitempty"`
	Reservation queries.ReservationView `json:"reservation"`
}

func FromAccessView(v *queries.AccessView) *AccessCheckResponse {
	return &AccessCheckResponse{
		Valid:       true,
		Access:      v.Granted,
		Reason:      v.Reason,
		Reservation: v.Reservation,
	}
}

func fromApplied(a *pricing.Applied) *PromoResponse {
	if a == nil {
		return nil
	}
	return &PromoResponse{Code: a.Code, Type: string(a.Type)}
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100.0
}
