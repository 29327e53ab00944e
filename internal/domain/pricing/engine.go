package pricing

import "time"

// Applied records which promo actually discounted the cart.
type Applied struct {
	ID   string
	Code string
	Type PromoType
}

// Quote is the outcome of pricing one cart. Invariants: AfterCents is never
// negative, DiscountCents is never negative, AfterCents <= BeforeCents.
type Quote struct {
	BeforeCents    int64
	AfterCents     int64
	DiscountCents  int64
	Applied        *Applied
	Rejection      string
	LoyaltyApplied bool
}

// IsFree reports whether the payable amount short-circuits payment
// authorization entirely.
func (q Quote) IsFree() bool {
	return q.AfterCents <= 0
}

type Engine struct {
	defaultItemPriceCents int64
}

func NewEngine(defaultItemPriceCents int64) *Engine {
	return &Engine{defaultItemPriceCents: defaultItemPriceCents}
}

// ComputeTotal sums the cart, applies at most one promo code (soft-fail: an
// unusable promo yields no discount plus a rejection reason, never an error),
// then applies the loyalty-free override last.
//
// A nil item price means the client omitted it; the configured default unit
// price is substituted.
func (e *Engine) ComputeTotal(itemPrices []*int64, promo *Promo, loyaltyFree bool, now time.Time) Quote {
	var before int64
	for _, p := range itemPrices {
		if p == nil || *p < 0 {
			before += e.defaultItemPriceCents
			continue
		}
		before += *p
	}

	q := Quote{BeforeCents: before, AfterCents: before}

	if promo != nil {
		if err := promo.UsableAt(now); err != nil {
			q.Rejection = err.Error()
		} else {
			q.DiscountCents = promo.DiscountFor(before)
			q.Applied = &Applied{
				ID:   promo.ID.String(),
				Code: promo.Code,
				Type: promo.Type,
			}
		}
	}

	if loyaltyFree {
		// Loyalty-free takes precedence over any promo outcome.
		q.DiscountCents = before
		q.LoyaltyApplied = true
	}

	q.AfterCents = before - q.DiscountCents
	if q.AfterCents < 0 {
		q.AfterCents = 0
	}

	return q
}
