//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"karabox/internal/domain/loyalty"
	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"
	"karabox/internal/infra"
	"karabox/internal/infra/repository"
	"karabox/internal/pkg/clock"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"
	"karabox/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadStore struct {
	slots   []repository.DaySlot
	listErr error
	res     *reservation.Reservation
	findErr error
}

func (s *stubReadStore) ListByDate(_ context.Context, _ string) ([]repository.DaySlot, error) {
	return s.slots, s.listErr
}

func (s *stubReadStore) FindByID(_ context.Context, _ uuid.UUID) (*reservation.Reservation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.res, nil
}

func bookingConfig() config.BookingConfig {
	return config.BookingConfig{
		SessionMinutes:        60,
		EarlyEntryMarginMin:   5,
		LateEntryMarginMin:    5,
		DefaultSlotPriceCents: 2500,
	}
}

func confirmedAt(start time.Time) *reservation.Reservation {
	rng := slot.Range{Start: start, End: start.Add(time.Hour), Date: start.Format("2006-01-02"), DurationMin: 60}
	res, _ := reservation.NewReservation("Rin", "rin@example.com", 2, rng, 2500, nil, nil)
	return res
}

func TestSlotsByDate(t *testing.T) {
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	store := &stubReadStore{slots: []repository.DaySlot{
		{ID: uuid.New(), BoxID: 1, Start: start, End: start.Add(time.Hour)},
	}}
	q := queries.NewReservationQueries(store, bookingConfig(), clock.NewMockClock(start))

	views, err := q.SlotsByDate(context.Background(), "2025-03-10")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].BoxID)
	assert.Equal(t, start, views[0].Start)
}

func TestCheckAccess(t *testing.T) {
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	t.Run("granted inside the window", func(t *testing.T) {
		store := &stubReadStore{res: confirmedAt(start)}
		clk := clock.NewMockClock(start.Add(-3 * time.Minute))
		q := queries.NewReservationQueries(store, bookingConfig(), clk)

		view, err := q.CheckAccess(context.Background(), store.res.ID())
		require.NoError(t, err)
		assert.True(t, view.Granted)
		assert.Empty(t, view.Reason)
		assert.Equal(t, "Rin", view.Reservation.CustomerName)
	})

	t.Run("refused before the early margin", func(t *testing.T) {
		store := &stubReadStore{res: confirmedAt(start)}
		clk := clock.NewMockClock(start.Add(-10 * time.Minute))
		q := queries.NewReservationQueries(store, bookingConfig(), clk)

		view, err := q.CheckAccess(context.Background(), store.res.ID())
		require.NoError(t, err)
		assert.False(t, view.Granted)
		assert.Equal(t, reservation.ReasonTooEarly, view.Reason)
	})

	t.Run("refused inside the late margin", func(t *testing.T) {
		store := &stubReadStore{res: confirmedAt(start)}
		clk := clock.NewMockClock(start.Add(57 * time.Minute))
		q := queries.NewReservationQueries(store, bookingConfig(), clk)

		view, err := q.CheckAccess(context.Background(), store.res.ID())
		require.NoError(t, err)
		assert.False(t, view.Granted)
		assert.Equal(t, reservation.ReasonTooLate, view.Reason)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		store := &stubReadStore{findErr: infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)}
		q := queries.NewReservationQueries(store, bookingConfig(), clock.NewMockClock(start))

		_, err := q.CheckAccess(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrReservationNotFound)
	})
}

type stubLoyaltyStore struct {
	account *loyalty.Account
	err     error
}

func (s *stubLoyaltyStore) Get(_ context.Context, _ uuid.UUID) (*loyalty.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func TestLoyaltyBalance(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		userID := uuid.New()
		store := &stubLoyaltyStore{account: loyalty.ReconstructAccount(userID, loyalty.RedeemCost)}
		q := queries.NewLoyaltyQueries(store)

		view, err := q.Balance(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, loyalty.RedeemCost, view.Points)
		assert.True(t, view.CanRedeem)
	})

	t.Run("missing account reads as zero points", func(t *testing.T) {
		store := &stubLoyaltyStore{err: infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)}
		q := queries.NewLoyaltyQueries(store)

		view, err := q.Balance(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Zero(t, view.Points)
		assert.False(t, view.CanRedeem)
	})
}
