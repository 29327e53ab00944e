package pricing

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPromoInactive    = errors.New("promo code is inactive")
	ErrPromoNotYetValid = errors.New("promo code is not yet valid")
	ErrPromoExpired     = errors.New("promo code has expired")
	ErrPromoExhausted   = errors.New("promo code usage limit reached")
)

type PromoType string

const (
	PromoPercent PromoType = "percent"
	PromoFixed   PromoType = "fixed"
	PromoFree    PromoType = "free"
)

// Promo is a promotional code. Value is percent points for PromoPercent and
// cents for PromoFixed; PromoFree ignores it. Codes are stored uppercase and
// matched case-insensitively.
type Promo struct {
	ID        uuid.UUID
	Code      string
	Type      PromoType
	Value     int64
	IsActive  bool
	ValidFrom *time.Time
	ValidTo   *time.Time
	MaxUses   *int32
	UsedCount int32
}

// NormalizeCode maps user input to the stored code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UsableAt checks the validity window at calendar-day granularity in UTC: a
// promo works from the first instant of ValidFrom's day through the last
// instant of ValidTo's day, whatever time-of-day the seeded timestamps carry.
func (p *Promo) UsableAt(t time.Time) error {
	if !p.IsActive {
		return ErrPromoInactive
	}
	day := dayOf(t)
	if p.ValidFrom != nil && day.Before(dayOf(*p.ValidFrom)) {
		return ErrPromoNotYetValid
	}
	if p.ValidTo != nil && day.After(dayOf(*p.ValidTo)) {
		return ErrPromoExpired
	}
	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return ErrPromoExhausted
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p *Promo) DiscountFor(beforeCents int64) int64 {
	switch p.Type {
	case PromoPercent:
		return (beforeCents*p.Value + 50) / 100
	case PromoFixed:
		if p.Value > beforeCents {
			return beforeCents
		}
		return p.Value
	case PromoFree:
		return beforeCents
	default:
		return 0
	}
}
