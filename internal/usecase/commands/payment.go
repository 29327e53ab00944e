package commands

import (
	"context"
	"log/slog"
	"strconv"

	"karabox/internal/domain/pricing"
	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"
	"karabox/internal/infra"
	"karabox/internal/pkg/clock"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"

	"github.com/google/uuid"
)

type IntentInput struct {
	Items         []CartSlot
	CustomerName  string
	CustomerEmail string
	PromoCode     *string
	LoyaltyUsed   bool
}

// IntentResult carries the quote plus a provider reference. IsFree means no
// reference was issued: zero-cost carts never touch the payment provider.
type IntentResult struct {
	PaymentRef *string
	IsFree     bool
	Quote      pricing.Quote
}

type PaymentCommands interface {
	CreateIntent(ctx context.Context, in IntentInput) (*IntentResult, error)
	AuthorizeDeposit(ctx context.Context, reservationID uuid.UUID, amountCents int64) (string, error)
	CaptureDeposit(ctx context.Context, reservationID uuid.UUID) error
	CancelDeposit(ctx context.Context, reservationID uuid.UUID) error
}

type paymentCommandsImpl struct {
	reservationRepo ReservationRepository
	promoRepo       PromoRepository
	gateway         PaymentGateway
	engine          *pricing.Engine
	policy          slot.Policy
	clock           clock.Clock
}

func NewPaymentCommands(
	reservationRepo ReservationRepository,
	promoRepo PromoRepository,
	gateway PaymentGateway,
	cfg config.BookingConfig,
	clk clock.Clock,
) PaymentCommands {
	return &paymentCommandsImpl{
		reservationRepo: reservationRepo,
		promoRepo:       promoRepo,
		gateway:         gateway,
		engine:          pricing.NewEngine(cfg.DefaultSlotPriceCents),
		policy:          slot.Policy{SessionMinutes: cfg.SessionMinutes},
		clock:           clk,
	}
}

// CreateIntent prices the cart server-side and authorizes exactly that
// amount. The same pricing runs again at confirmation, so the amount
// authorized here always equals the amount checked there.
func (p *paymentCommandsImpl) CreateIntent(ctx context.Context, in IntentInput) (*IntentResult, error) {
	if in.CustomerName == "" || in.CustomerEmail == "" {
		return nil, errs.ErrMissingCustomer
	}

	cart, err := normalizeCart(in.Items, p.policy)
	if err != nil {
		return nil, err
	}

	var promo *pricing.Promo
	if in.PromoCode != nil && *in.PromoCode != "" {
		found, err := p.promoRepo.FindByCode(ctx, *in.PromoCode)
		if err != nil {
			slog.Info("promo code not applied", "code", *in.PromoCode, "reason", err.Error())
		} else {
			promo = found
		}
	}

	quote := p.engine.ComputeTotal(itemPrices(cart), promo, in.LoyaltyUsed, p.clock.Now())
	if quote.IsFree() {
		return &IntentResult{IsFree: true, Quote: quote}, nil
	}

	ref, err := p.gateway.Authorize(ctx, quote.AfterCents, map[string]string{
		"customer_email": in.CustomerEmail,
		"slot_count":     strconv.Itoa(len(cart)),
	})
	if err != nil {
		return nil, err
	}

	return &IntentResult{PaymentRef: &ref, Quote: quote}, nil
}

func (p *paymentCommandsImpl) AuthorizeDeposit(ctx context.Context, reservationID uuid.UUID, amountCents int64) (string, error) {
	res, err := p.findReservation(ctx, reservationID)
	if err != nil {
		return "", err
	}

	ref, err := p.gateway.Authorize(ctx, amountCents, map[string]string{
		"kind":           "deposit",
		"reservation_id": res.ID().String(),
	})
	if err != nil {
		return "", err
	}

	if err := p.reservationRepo.UpdateDeposit(ctx, reservationID, ref, reservation.DepositAuthorized); err != nil {
		return "", errs.Mark(err, errs.ErrPersistenceFailed)
	}
	return ref, nil
}

func (p *paymentCommandsImpl) CaptureDeposit(ctx context.Context, reservationID uuid.UUID) error {
	return p.settleDeposit(ctx, reservationID, reservation.DepositCaptured)
}

func (p *paymentCommandsImpl) CancelDeposit(ctx context.Context, reservationID uuid.UUID) error {
	return p.settleDeposit(ctx, reservationID, reservation.DepositCanceled)
}

func (p *paymentCommandsImpl) settleDeposit(ctx context.Context, reservationID uuid.UUID, next reservation.DepositStatus) error {
	res, err := p.findReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	// Validates the authorized → captured|canceled transition before the
	// provider is involved.
	if err := res.TransitionDeposit(next); err != nil {
		return errs.Mark(err, errs.ErrInvalidDepositAction)
	}

	ref := *res.DepositRef()
	switch next {
	case reservation.DepositCaptured:
		err = p.gateway.Capture(ctx, ref, nil)
	case reservation.DepositCanceled:
		err = p.gateway.Cancel(ctx, ref)
	}
	if err != nil {
		return err
	}

	if err := p.reservationRepo.UpdateDeposit(ctx, reservationID, ref, next); err != nil {
		return errs.Mark(err, errs.ErrPersistenceFailed)
	}
	return nil
}

func (p *paymentCommandsImpl) findReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := p.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDependencyUnavailable)
	}
	return res, nil
}

