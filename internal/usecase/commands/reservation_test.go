//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"karabox/internal/domain/loyalty"
	"karabox/internal/domain/pricing"
	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"
	"karabox/internal/infra"
	"karabox/internal/pkg/clock"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"
	"karabox/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Handwritten stubs for the write-side ports. Counters are mutex-guarded
// because post-commit side effects run on their own goroutine.

type stubReservationRepo struct {
	mu        sync.Mutex
	conflict  bool
	createErr error
	created   []*reservation.Reservation
	findRes   *reservation.Reservation
	findErr   error
}

func (s *stubReservationRepo) HasConflict(_ context.Context, _ int, _ slot.Range) (bool, error) {
	return s.conflict, nil
}

func (s *stubReservationRepo) CreateBatch(_ context.Context, rows []*reservation.Reservation) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, rows...)
	return nil
}

func (s *stubReservationRepo) FindByID(_ context.Context, _ uuid.UUID) (*reservation.Reservation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.findRes, nil
}

func (s *stubReservationRepo) UpdateDeposit(_ context.Context, _ uuid.UUID, _ string, _ reservation.DepositStatus) error {
	return nil
}

func (s *stubReservationRepo) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type stubPromoRepo struct {
	mu      sync.Mutex
	promo   *pricing.Promo
	findErr error
	usages  int
}

func (s *stubPromoRepo) FindByCode(_ context.Context, _ string) (*pricing.Promo, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.promo == nil {
		return nil, infra.WrapRepoErr("promo code not found", nil, infra.KindNotFound)
	}
	return s.promo, nil
}

func (s *stubPromoRepo) RecordUsage(_ context.Context, _, _ uuid.UUID, _ *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages++
	return nil
}

func (s *stubPromoRepo) usageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usages
}

type stubLoyaltyRepo struct {
	mu        sync.Mutex
	redeemErr error
	credits   []int
}

func (s *stubLoyaltyRepo) Get(_ context.Context, userID uuid.UUID) (*loyalty.Account, error) {
	return loyalty.ReconstructAccount(userID, 0), nil
}

func (s *stubLoyaltyRepo) Credit(_ context.Context, _ uuid.UUID, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = append(s.credits, points)
	return nil
}

func (s *stubLoyaltyRepo) Redeem(_ context.Context, _ uuid.UUID) error {
	return s.redeemErr
}

func (s *stubLoyaltyRepo) creditTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, c := range s.credits {
		total += c
	}
	return total
}

type stubGateway struct {
	mu          sync.Mutex
	status      string
	statusErr   error
	statusCalls int
}

func (s *stubGateway) Authorize(_ context.Context, _ int64, _ map[string]string) (string, error) {
	return "pay_stub", nil
}

func (s *stubGateway) GetStatus(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	s.statusCalls++
	s.mu.Unlock()
	if s.statusErr != nil {
		return "", s.statusErr
	}
	return s.status, nil
}

func (s *stubGateway) Capture(_ context.Context, _ string, _ *int64) error { return nil }
func (s *stubGateway) Cancel(_ context.Context, _ string) error            { return nil }

func (s *stubGateway) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls
}

type stubMailer struct {
	mu   sync.Mutex
	sent int
}

func (s *stubMailer) SendConfirmation(_ context.Context, _ *reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	return nil
}

func (s *stubMailer) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

type stubPublisher struct {
	mu        sync.Mutex
	published int
}

func (s *stubPublisher) PublishConfirmed(_ context.Context, _ *reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published++
	return nil
}

func (s *stubPublisher) publishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

type fixture struct {
	reservations *stubReservationRepo
	promos       *stubPromoRepo
	loyalty      *stubLoyaltyRepo
	gateway      *stubGateway
	mailer       *stubMailer
	publisher    *stubPublisher
	commands     commands.ReservationCommands
}

func newFixture() *fixture {
	f := &fixture{
		reservations: &stubReservationRepo{},
		promos:       &stubPromoRepo{},
		loyalty:      &stubLoyaltyRepo{},
		gateway:      &stubGateway{status: commands.PaymentSucceeded},
		mailer:       &stubMailer{},
		publisher:    &stubPublisher{},
	}
	cfg := config.BookingConfig{
		SessionMinutes:        60,
		EarlyEntryMarginMin:   5,
		LateEntryMarginMin:    5,
		DefaultSlotPriceCents: 2500,
	}
	clk := clock.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	f.commands = commands.NewReservationCommands(
		f.reservations, f.promos, f.loyalty, f.gateway, f.mailer, f.publisher, cfg, clk,
	)
	return f
}

func cartOf(n int) []commands.CartSlot {
	out := make([]commands.CartSlot, n)
	for i := range out {
		out[i] = commands.CartSlot{Date: "2025-03-10", Hour: "18", BoxRaw: "box-1"}
		out[i].Hour = []string{"18", "19", "20"}[i%3]
	}
	return out
}

func confirmInput(items []commands.CartSlot) commands.ConfirmInput {
	ref := "pay_ok"
	return commands.ConfirmInput{
		Items:         items,
		CustomerName:  "Rin",
		CustomerEmail: "rin@example.com",
		PaymentRef:    &ref,
	}
}

func TestVerifyCart(t *testing.T) {
	t.Run("resolves and prices every slot", func(t *testing.T) {
		f := newFixture()

		items, err := f.commands.VerifyCart(context.Background(), cartOf(2))
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, 1, items[0].BoxID)
		assert.Equal(t, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), items[0].Start)
		assert.Equal(t, 60, items[0].DurationMin)
		assert.Equal(t, int64(2500), items[0].PriceCents)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture()
		_, err := f.commands.VerifyCart(context.Background(), nil)
		assert.ErrorIs(t, err, errs.ErrEmptyCart)
	})

	t.Run("malformed slot", func(t *testing.T) {
		f := newFixture()
		_, err := f.commands.VerifyCart(context.Background(), []commands.CartSlot{{Date: "2025-03-10", Hour: "evening", BoxRaw: "1"}})
		assert.ErrorIs(t, err, errs.ErrMalformedSlot)
	})

	t.Run("unparseable box id", func(t *testing.T) {
		f := newFixture()
		_, err := f.commands.VerifyCart(context.Background(), []commands.CartSlot{{Date: "2025-03-10", Hour: "18", BoxRaw: "lounge"}})
		assert.ErrorIs(t, err, errs.ErrInvalidBoxID)
	})

	t.Run("taken slot", func(t *testing.T) {
		f := newFixture()
		f.reservations.conflict = true
		_, err := f.commands.VerifyCart(context.Background(), cartOf(1))
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
	})
}

func TestConfirm(t *testing.T) {
	t.Run("happy path persists the cart and fires side effects", func(t *testing.T) {
		f := newFixture()

		result, err := f.commands.Confirm(context.Background(), confirmInput(cartOf(2)))
		require.NoError(t, err)
		require.Len(t, result.Reservations, 2)

		assert.Equal(t, 2, f.reservations.createdCount())
		assert.Equal(t, int64(5000), result.Quote.BeforeCents)
		assert.Equal(t, int64(5000), result.Quote.AfterCents)

		assert.Eventually(t, func() bool {
			return f.mailer.sentCount() == 2 && f.publisher.publishedCount() == 2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("missing customer", func(t *testing.T) {
		f := newFixture()
		in := confirmInput(cartOf(1))
		in.CustomerEmail = ""
		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrMissingCustomer)
		assert.Zero(t, f.reservations.createdCount())
	})

	t.Run("payment reference required for paid carts", func(t *testing.T) {
		f := newFixture()
		in := confirmInput(cartOf(1))
		in.PaymentRef = nil
		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrPaymentRefRequired)
	})

	t.Run("unverified payment rejects the booking", func(t *testing.T) {
		f := newFixture()
		f.gateway.status = "requires_action"
		_, err := f.commands.Confirm(context.Background(), confirmInput(cartOf(1)))
		assert.ErrorIs(t, err, errs.ErrPaymentNotVerified)
		assert.Zero(t, f.reservations.createdCount())
	})

	t.Run("conflict on pre-check", func(t *testing.T) {
		f := newFixture()
		f.reservations.conflict = true
		_, err := f.commands.Confirm(context.Background(), confirmInput(cartOf(1)))
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
	})

	t.Run("conflict at insert time maps to slot conflict", func(t *testing.T) {
		f := newFixture()
		f.reservations.createErr = infra.WrapRepoErr("slot already reserved", nil, infra.KindConflict)
		_, err := f.commands.Confirm(context.Background(), confirmInput(cartOf(1)))
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
	})

	t.Run("storage failure maps to persistence error", func(t *testing.T) {
		f := newFixture()
		f.reservations.createErr = infra.WrapRepoErr("boom", nil)
		_, err := f.commands.Confirm(context.Background(), confirmInput(cartOf(1)))
		assert.ErrorIs(t, err, errs.ErrPersistenceFailed)
	})

	t.Run("free promo never touches the gateway", func(t *testing.T) {
		f := newFixture()
		code := "VIP"
		f.promos.promo = &pricing.Promo{ID: uuid.New(), Code: code, Type: pricing.PromoFree, IsActive: true}

		in := confirmInput(cartOf(1))
		in.PaymentRef = nil
		in.PromoCode = &code

		result, err := f.commands.Confirm(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, result.Quote.IsFree())
		assert.Zero(t, f.gateway.calls())
		assert.Equal(t, 1, f.reservations.createdCount())
	})

	t.Run("unknown promo code prices without discount", func(t *testing.T) {
		f := newFixture()
		code := "NOPE"
		in := confirmInput(cartOf(1))
		in.PromoCode = &code

		result, err := f.commands.Confirm(context.Background(), in)
		require.NoError(t, err)
		assert.Nil(t, result.Quote.Applied)
		assert.Equal(t, result.Quote.BeforeCents, result.Quote.AfterCents)
	})

	t.Run("client free flag never waives payment", func(t *testing.T) {
		f := newFixture()
		in := confirmInput(cartOf(1))
		in.DeclaredFree = true
		in.PaymentRef = nil

		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrPaymentRefRequired)
		assert.Zero(t, f.reservations.createdCount())
	})

	t.Run("loyalty redemption requires a user", func(t *testing.T) {
		f := newFixture()
		in := confirmInput(cartOf(1))
		in.LoyaltyUsed = true
		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrMissingCustomer)
	})

	t.Run("insufficient points block the booking", func(t *testing.T) {
		f := newFixture()
		f.loyalty.redeemErr = infra.WrapRepoErr("insufficient loyalty points", nil, infra.KindConflict)

		userID := uuid.New()
		in := confirmInput(cartOf(1))
		in.LoyaltyUsed = true
		in.UserID = &userID
		in.PaymentRef = nil

		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrInsufficientPoints)
		assert.Zero(t, f.reservations.createdCount())
	})

	t.Run("slot conflict after redemption refunds the points", func(t *testing.T) {
		f := newFixture()
		f.reservations.conflict = true

		userID := uuid.New()
		in := confirmInput(cartOf(1))
		in.LoyaltyUsed = true
		in.UserID = &userID
		in.PaymentRef = nil

		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
		assert.Zero(t, f.reservations.createdCount())
		assert.Equal(t, loyalty.RedeemCost, f.loyalty.creditTotal())
	})

	t.Run("insert failure after redemption refunds the points", func(t *testing.T) {
		f := newFixture()
		f.reservations.createErr = infra.WrapRepoErr("boom", nil)

		userID := uuid.New()
		in := confirmInput(cartOf(1))
		in.LoyaltyUsed = true
		in.UserID = &userID
		in.PaymentRef = nil

		_, err := f.commands.Confirm(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrPersistenceFailed)
		assert.Equal(t, loyalty.RedeemCost, f.loyalty.creditTotal())
	})

	t.Run("loyalty free session skips payment and earns no points", func(t *testing.T) {
		f := newFixture()

		userID := uuid.New()
		in := confirmInput(cartOf(1))
		in.LoyaltyUsed = true
		in.UserID = &userID
		in.PaymentRef = nil

		result, err := f.commands.Confirm(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, result.Quote.LoyaltyApplied)
		assert.Zero(t, f.gateway.calls())

		assert.Eventually(t, func() bool {
			return f.mailer.sentCount() == 1
		}, time.Second, 10*time.Millisecond)
		assert.Zero(t, f.loyalty.creditTotal())
	})

	t.Run("paid booking by a known user credits points", func(t *testing.T) {
		f := newFixture()

		userID := uuid.New()
		in := confirmInput(cartOf(2))
		in.UserID = &userID

		_, err := f.commands.Confirm(context.Background(), in)
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			return f.loyalty.creditTotal() == 2*loyalty.PointsPerSlot
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("applied discount records promo usage", func(t *testing.T) {
		f := newFixture()
		code := "HALF"
		f.promos.promo = &pricing.Promo{ID: uuid.New(), Code: code, Type: pricing.PromoPercent, Value: 50, IsActive: true}

		in := confirmInput(cartOf(1))
		in.PromoCode = &code

		result, err := f.commands.Confirm(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, result.Quote.Applied)

		assert.Eventually(t, func() bool {
			return f.promos.usageCount() == 1
		}, time.Second, 10*time.Millisecond)
	})
}
