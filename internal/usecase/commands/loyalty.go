package commands

import (
	"context"

	"karabox/internal/infra"
	"karabox/internal/pkg/errs"

	"github.com/google/uuid"
)

type LoyaltyCommands interface {
	RedeemPoints(ctx context.Context, userID uuid.UUID) error
}

type loyaltyCommandsImpl struct {
	loyaltyRepo LoyaltyRepository
}

func NewLoyaltyCommands(loyaltyRepo LoyaltyRepository) LoyaltyCommands {
	return &loyaltyCommandsImpl{loyaltyRepo: loyaltyRepo}
}

// RedeemPoints buys a free session. The balance gate is enforced by the
// storage-side conditional update, so concurrent redemptions cannot both pass.
func (l *loyaltyCommandsImpl) RedeemPoints(ctx context.Context, userID uuid.UUID) error {
	if err := l.loyaltyRepo.Redeem(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(err, errs.ErrInsufficientPoints)
		}
		return errs.Mark(err, errs.ErrDependencyUnavailable)
	}
	return nil
}
