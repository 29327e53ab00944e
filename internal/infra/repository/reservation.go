package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"
	"karabox/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// HasConflict is the pre-insert availability check. It is advisory: the final
// authority is the exclusion constraint hit inside CreateBatch, since another
// request can commit between this check and the insert.
func (r *ReservationRepository) HasConflict(ctx context.Context, boxID int, rng slot.Range) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE box_id = $1
			  AND status = 'confirmed'
			  AND start_at < $3 AND end_at > $2
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, boxID, rng.Start, rng.End).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check availability", err)
	}
	return exists, nil
}

// CreateBatch persists a whole cart in one transaction: either every row is
// reserved or none is. An overlap rejected by the exclusion constraint
// surfaces as KindConflict.
func (r *ReservationRepository) CreateBatch(ctx context.Context, rows []*reservation.Reservation) error {
	const q = `
		INSERT INTO reservations (
			id, customer_name, customer_email, box_id,
			start_at, end_at, slot_date, duration_min,
			status, price_cents, promo_id, payment_ref
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	for _, res := range rows {
		rng := res.Range()
		_, err := tx.Exec(ctx, q,
			res.ID(), res.CustomerName(), res.CustomerEmail(), res.BoxID(),
			rng.Start, rng.End, rng.Date, rng.DurationMin,
			string(res.Status()), res.PriceCents(), res.PromoID(), res.PaymentRef(),
		)
		if err != nil {
			if isOverlapViolation(err) {
				return infra.WrapRepoErr("slot already reserved", err, infra.KindConflict)
			}
			return infra.WrapRepoErr("failed to insert reservation", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit reservation batch", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const q = `
		SELECT id, customer_name, customer_email, box_id,
		       start_at, end_at, slot_date, duration_min,
		       status, price_cents, promo_id, payment_ref,
		       deposit_ref, deposit_status, created_at, updated_at
		FROM reservations
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, q, id)

	var (
		resID          uuid.UUID
		name, email    string
		boxID          int
		start, end     time.Time
		slotDate       string
		durationMin    int
		status         string
		priceCents     int64
		promoID        *uuid.UUID
		paymentRef     *string
		depositRef     *string
		depositStatus  *string
		created, updat time.Time
	)
	err := row.Scan(&resID, &name, &email, &boxID, &start, &end, &slotDate, &durationMin,
		&status, &priceCents, &promoID, &paymentRef, &depositRef, &depositStatus, &created, &updat)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	var ds *reservation.DepositStatus
	if depositStatus != nil {
		v := reservation.DepositStatus(*depositStatus)
		ds = &v
	}

	return reservation.ReconstructReservation(
		resID, name, email, boxID,
		slot.Range{Start: start.UTC(), End: end.UTC(), Date: slotDate, DurationMin: durationMin},
		reservation.Status(status), priceCents, promoID, paymentRef, depositRef, ds,
		created, updat,
	), nil
}

// DaySlot is the read model for the public day listing.
type DaySlot struct {
	ID    uuid.UUID
	BoxID int
	Start time.Time
	End   time.Time
}

func (r *ReservationRepository) ListByDate(ctx context.Context, date string) ([]DaySlot, error) {
	const q = `
		SELECT id, box_id, start_at, end_at
		FROM reservations
		WHERE slot_date = $1 AND status = 'confirmed'
		ORDER BY box_id, start_at`

	rows, err := r.pool.Query(ctx, q, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by date", err)
	}
	defer rows.Close()

	var out []DaySlot
	for rows.Next() {
		var s DaySlot
		if err := rows.Scan(&s.ID, &s.BoxID, &s.Start, &s.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		s.Start = s.Start.UTC()
		s.End = s.End.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}
	return out, nil
}

func (r *ReservationRepository) UpdateDeposit(ctx context.Context, id uuid.UUID, ref string, status reservation.DepositStatus) error {
	const q = `
		UPDATE reservations
		SET deposit_ref = $2, deposit_status = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, id, ref, string(status))
	if err != nil {
		return infra.WrapRepoErr("failed to update deposit", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
