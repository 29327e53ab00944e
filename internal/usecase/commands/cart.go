package commands

import (
	"time"

	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"
	"karabox/internal/pkg/errs"
)

// CartSlot is one raw cart entry after transport decoding but before any
// domain interpretation.
type CartSlot struct {
	Date            string
	Hour            string
	StartTime       *time.Time
	EndTime         *time.Time
	TZOffsetMinutes int
	BoxRaw          string
	PriceCents      *int64
}

// CartItem is a normalized cart entry: canonical UTC range plus resolved box.
type CartItem struct {
	Range      slot.Range
	BoxID      int
	PriceCents *int64
}

// normalizeCart resolves every slot and box id up front; the first bad entry
// fails the whole cart before anything else happens.
func normalizeCart(items []CartSlot, policy slot.Policy) ([]CartItem, error) {
	if len(items) == 0 {
		return nil, errs.ErrEmptyCart
	}

	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		rng, err := slot.Resolve(slot.Input{
			Date:            it.Date,
			Hour:            it.Hour,
			StartTime:       it.StartTime,
			EndTime:         it.EndTime,
			TZOffsetMinutes: it.TZOffsetMinutes,
		}, policy)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrMalformedSlot)
		}

		boxID, err := reservation.ParseBoxID(it.BoxRaw)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidBoxID)
		}

		out = append(out, CartItem{Range: rng, BoxID: boxID, PriceCents: it.PriceCents})
	}
	return out, nil
}

func itemPrices(items []CartItem) []*int64 {
	prices := make([]*int64, len(items))
	for i, it := range items {
		prices[i] = it.PriceCents
	}
	return prices
}
