package repository

import (
	"context"

	"karabox/internal/domain/loyalty"
	"karabox/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoyaltyRepository struct {
	pool *pgxpool.Pool
}

func NewLoyaltyRepository(pool *pgxpool.Pool) *LoyaltyRepository {
	return &LoyaltyRepository{pool: pool}
}

func (r *LoyaltyRepository) Get(ctx context.Context, userID uuid.UUID) (*loyalty.Account, error) {
	const q = `SELECT points FROM loyalty_accounts WHERE user_id = $1`

	var points int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&points); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("loyalty account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load loyalty account", err)
	}
	return loyalty.ReconstructAccount(userID, points), nil
}

// Credit adds points with a storage-side upsert, never read-then-write.
func (r *LoyaltyRepository) Credit(ctx context.Context, userID uuid.UUID, points int) error {
	const q = `
		INSERT INTO loyalty_accounts (user_id, points)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET points = loyalty_accounts.points + EXCLUDED.points, updated_at = now()`

	if _, err := r.pool.Exec(ctx, q, userID, points); err != nil {
		return infra.WrapRepoErr("failed to credit loyalty points", err)
	}
	return nil
}

// Redeem debits the free-session cost atomically: the balance guard lives in
// the WHERE clause so two racing redemptions cannot both drain the account.
func (r *LoyaltyRepository) Redeem(ctx context.Context, userID uuid.UUID) error {
	const q = `
		UPDATE loyalty_accounts
		SET points = points - $2, updated_at = now()
		WHERE user_id = $1 AND points >= $2`

	tag, err := r.pool.Exec(ctx, q, userID, loyalty.RedeemCost)
	if err != nil {
		return infra.WrapRepoErr("failed to redeem loyalty points", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient loyalty points", nil, infra.KindConflict)
	}
	return nil
}
