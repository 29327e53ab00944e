package queries

import (
	"context"

	"karabox/internal/domain/loyalty"
	"karabox/internal/infra"
	"karabox/internal/pkg/errs"

	"github.com/google/uuid"
)

type LoyaltyView struct {
	UserID    uuid.UUID `json:"userId"`
	Points    int       `json:"points"`
	CanRedeem bool      `json:"canRedeem"`
}

type LoyaltyReadStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*loyalty.Account, error)
}

type LoyaltyQueries interface {
	Balance(ctx context.Context, userID uuid.UUID) (*LoyaltyView, error)
}

type loyaltyQueriesImpl struct {
	store LoyaltyReadStore
}

func NewLoyaltyQueries(store LoyaltyReadStore) LoyaltyQueries {
	return &loyaltyQueriesImpl{store: store}
}

// Balance treats a missing row as an empty account: every customer has zero
// points until the first credit lands.
func (l *loyaltyQueriesImpl) Balance(ctx context.Context, userID uuid.UUID) (*LoyaltyView, error) {
	account, err := l.store.Get(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &LoyaltyView{UserID: userID}, nil
		}
		return nil, errs.Mark(err, errs.ErrDependencyUnavailable)
	}

	return &LoyaltyView{
		UserID:    account.UserID(),
		Points:    account.Points(),
		CanRedeem: account.CanRedeem(),
	}, nil
}
