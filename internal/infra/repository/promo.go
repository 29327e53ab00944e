package repository

import (
	"context"

	"karabox/internal/domain/pricing"
	"karabox/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromoRepository struct {
	pool *pgxpool.Pool
}

func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*pricing.Promo, error) {
	const q = `
		SELECT id, code, type, value, is_active, valid_from, valid_to, max_uses, used_count
		FROM promo_codes
		WHERE code = $1`

	p := &pricing.Promo{}
	var promoType string
	err := r.pool.QueryRow(ctx, q, pricing.NormalizeCode(code)).Scan(
		&p.ID, &p.Code, &promoType, &p.Value, &p.IsActive,
		&p.ValidFrom, &p.ValidTo, &p.MaxUses, &p.UsedCount,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promo code", err)
	}
	p.Type = pricing.PromoType(promoType)
	return p, nil
}

// RecordUsage logs one promo application and bumps the usage counter in a
// single transaction. The counter update is conditional on the cap so two
// racing confirmations cannot push used_count past max_uses; losing the race
// maps to KindConflict.
func (r *PromoRepository) RecordUsage(ctx context.Context, promoID uuid.UUID, reservationID uuid.UUID, paymentRef *string) error {
	const bump = `
		UPDATE promo_codes
		SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1 AND (max_uses IS NULL OR used_count < max_uses)`
	const log = `
		INSERT INTO promo_usages (id, promo_id, reservation_id, payment_ref)
		VALUES ($1, $2, $3, $4)`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, bump, promoID)
	if err != nil {
		return infra.WrapRepoErr("failed to increment promo usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("promo usage cap reached", nil, infra.KindConflict)
	}

	if _, err := tx.Exec(ctx, log, uuid.New(), promoID, reservationID, paymentRef); err != nil {
		return infra.WrapRepoErr("failed to record promo usage", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit promo usage", err)
	}
	return nil
}
