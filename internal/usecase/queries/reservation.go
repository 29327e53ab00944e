package queries

import (
	"context"
	"time"

	"karabox/internal/domain/reservation"
	"karabox/internal/infra"
	"karabox/internal/infra/repository"
	"karabox/internal/pkg/clock"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for the read side)

type DaySlotView struct {
	ID    uuid.UUID `json:"id"`
	BoxID int       `json:"resourceId"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ReservationView struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customerName"`
	BoxID         int       `json:"resourceId"`
	Date          string    `json:"date"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	PriceCents    int64     `json:"priceCents"`
	DepositStatus *string   `json:"depositStatus,omitempty"`
}

type AccessView struct {
	Granted     bool            `json:"access"`
	Reason      string          `json:"reason,omitempty"`
	Reservation ReservationView `json:"reservation"`
}

type ReservationReadStore interface {
	ListByDate(ctx context.Context, date string) ([]repository.DaySlot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
}

type ReservationQueries interface {
	SlotsByDate(ctx context.Context, date string) ([]DaySlotView, error)
	CheckAccess(ctx context.Context, id uuid.UUID) (*AccessView, error)
}

type reservationQueriesImpl struct {
	store  ReservationReadStore
	policy reservation.AccessPolicy
	clock  clock.Clock
}

func NewReservationQueries(store ReservationReadStore, cfg config.BookingConfig, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{
		store: store,
		policy: reservation.AccessPolicy{
			EarlyMargin: time.Duration(cfg.EarlyEntryMarginMin) * time.Minute,
			LateMargin:  time.Duration(cfg.LateEntryMarginMin) * time.Minute,
		},
		clock: clk,
	}
}

func (q *reservationQueriesImpl) SlotsByDate(ctx context.Context, date string) ([]DaySlotView, error) {
	rows, err := q.store.ListByDate(ctx, date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDependencyUnavailable)
	}

	out := make([]DaySlotView, len(rows))
	for i, r := range rows {
		out[i] = DaySlotView{ID: r.ID, BoxID: r.BoxID, Start: r.Start, End: r.End}
	}
	return out, nil
}

// CheckAccess is the door-scan decision: pure read, no reservation mutation.
func (q *reservationQueriesImpl) CheckAccess(ctx context.Context, id uuid.UUID) (*AccessView, error) {
	res, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDependencyUnavailable)
	}

	decision := reservation.CheckAccess(res, q.clock.Now(), q.policy)

	var depositStatus *string
	if ds := res.DepositStatus(); ds != nil {
		s := string(*ds)
		depositStatus = &s
	}

	rng := res.Range()
	return &AccessView{
		Granted: decision.Granted,
		Reason:  decision.Reason,
		Reservation: ReservationView{
			ID:            res.ID(),
			CustomerName:  res.CustomerName(),
			BoxID:         res.BoxID(),
			Date:          rng.Date,
			Start:         rng.Start,
			End:           rng.End,
			Status:        string(res.Status()),
			PriceCents:    res.PriceCents(),
			DepositStatus: depositStatus,
		},
	}, nil
}
