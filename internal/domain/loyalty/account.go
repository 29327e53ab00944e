package loyalty

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInsufficientPoints = errors.New("insufficient loyalty points")

const (
	// PointsPerSlot is credited per booked slot on a paid reservation.
	PointsPerSlot = 10
	// RedeemCost buys one loyalty-free session.
	RedeemCost = 100
)

type Account struct {
	userID uuid.UUID
	points int
}

func ReconstructAccount(userID uuid.UUID, points int) *Account {
	return &Account{userID: userID, points: points}
}

func (a *Account) CanRedeem() bool {
	return a.points >= RedeemCost
}

// CreditFor returns the points earned by a reservation of slotCount slots.
// Free sessions earn nothing: a session paid with points or a free promo must
// not also accrue points.
func CreditFor(slotCount int, wasFree bool) int {
	if wasFree || slotCount <= 0 {
		return 0
	}
	return slotCount * PointsPerSlot
}

func (a *Account) UserID() uuid.UUID { return a.userID }
func (a *Account) Points() int       { return a.points }
