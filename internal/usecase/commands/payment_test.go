//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

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

type paymentFixture struct {
	reservations *stubReservationRepo
	promos       *stubPromoRepo
	gateway      *stubGateway
	commands     commands.PaymentCommands
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		reservations: &stubReservationRepo{},
		promos:       &stubPromoRepo{},
		gateway:      &stubGateway{status: commands.PaymentSucceeded},
	}
	cfg := config.BookingConfig{SessionMinutes: 60, DefaultSlotPriceCents: 2500}
	clk := clock.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	f.commands = commands.NewPaymentCommands(f.reservations, f.promos, f.gateway, cfg, clk)
	return f
}

func intentInput(items []commands.CartSlot) commands.IntentInput {
	return commands.IntentInput{
		Items:         items,
		CustomerName:  "Rin",
		CustomerEmail: "rin@example.com",
	}
}

func withDeposit(t *testing.T) *reservation.Reservation {
	t.Helper()
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	rng := slot.Range{Start: start, End: start.Add(time.Hour), Date: "2025-03-10", DurationMin: 60}
	res, err := reservation.NewReservation("Rin", "rin@example.com", 1, rng, 2500, nil, nil)
	require.NoError(t, err)
	res.AttachDeposit("dep_123")
	return res
}

func TestCreateIntent(t *testing.T) {
	t.Run("paid cart returns a provider reference", func(t *testing.T) {
		f := newPaymentFixture()

		result, err := f.commands.CreateIntent(context.Background(), intentInput(cartOf(2)))
		require.NoError(t, err)
		require.NotNil(t, result.PaymentRef)
		assert.Equal(t, "pay_stub", *result.PaymentRef)
		assert.False(t, result.IsFree)
		assert.Equal(t, int64(5000), result.Quote.AfterCents)
	})

	t.Run("free cart issues no reference", func(t *testing.T) {
		f := newPaymentFixture()
		code := "VIP"
		f.promos.promo = &pricing.Promo{ID: uuid.New(), Code: code, Type: pricing.PromoFree, IsActive: true}

		in := intentInput(cartOf(1))
		in.PromoCode = &code

		result, err := f.commands.CreateIntent(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, result.IsFree)
		assert.Nil(t, result.PaymentRef)
	})

	t.Run("missing customer", func(t *testing.T) {
		f := newPaymentFixture()
		in := intentInput(cartOf(1))
		in.CustomerName = ""
		_, err := f.commands.CreateIntent(context.Background(), in)
		assert.ErrorIs(t, err, errs.ErrMissingCustomer)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newPaymentFixture()
		_, err := f.commands.CreateIntent(context.Background(), intentInput(nil))
		assert.ErrorIs(t, err, errs.ErrEmptyCart)
	})
}

func TestDepositCommands(t *testing.T) {
	t.Run("capture an authorized deposit", func(t *testing.T) {
		f := newPaymentFixture()
		f.reservations.findRes = withDeposit(t)

		err := f.commands.CaptureDeposit(context.Background(), f.reservations.findRes.ID())
		assert.NoError(t, err)
	})

	t.Run("cancel an authorized deposit", func(t *testing.T) {
		f := newPaymentFixture()
		f.reservations.findRes = withDeposit(t)

		err := f.commands.CancelDeposit(context.Background(), f.reservations.findRes.ID())
		assert.NoError(t, err)
	})

	t.Run("capture without a hold is invalid", func(t *testing.T) {
		f := newPaymentFixture()
		start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
		rng := slot.Range{Start: start, End: start.Add(time.Hour), Date: "2025-03-10", DurationMin: 60}
		res, err := reservation.NewReservation("Rin", "rin@example.com", 1, rng, 2500, nil, nil)
		require.NoError(t, err)
		f.reservations.findRes = res

		err = f.commands.CaptureDeposit(context.Background(), res.ID())
		assert.ErrorIs(t, err, errs.ErrInvalidDepositAction)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newPaymentFixture()
		f.reservations.findErr = infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)

		err := f.commands.CaptureDeposit(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrReservationNotFound)
	})
}
