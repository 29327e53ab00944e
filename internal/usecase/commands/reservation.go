package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"karabox/internal/domain/loyalty"
	"karabox/internal/domain/pricing"
	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"
	"karabox/internal/infra"
	"karabox/internal/pkg/clock"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"

	"github.com/google/uuid"
)

type VerifiedItem struct {
	BoxID       int
	Start       time.Time
	End         time.Time
	Date        string
	DurationMin int
	PriceCents  int64
}

type ConfirmInput struct {
	Items              []CartSlot
	CustomerName       string
	CustomerEmail      string
	PromoCode          *string
	PaymentRef         *string
	LoyaltyUsed        bool
	DeclaredTotalCents *int64
	DeclaredFree       bool
	UserID             *uuid.UUID
}

type ConfirmedReservation struct {
	ID         uuid.UUID
	BoxID      int
	Start      time.Time
	End        time.Time
	PriceCents int64
}

type ConfirmResult struct {
	Reservations []ConfirmedReservation
	Quote        pricing.Quote
}

type ReservationCommands interface {
	VerifyCart(ctx context.Context, items []CartSlot) ([]VerifiedItem, error)
	Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
}

type reservationCommandsImpl struct {
	reservationRepo ReservationRepository
	promoRepo       PromoRepository
	loyaltyRepo     LoyaltyRepository
	gateway         PaymentGateway
	mailer          Mailer
	publisher       EventPublisher
	engine          *pricing.Engine
	policy          slot.Policy
	clock           clock.Clock
}

func NewReservationCommands(
	reservationRepo ReservationRepository,
	promoRepo PromoRepository,
	loyaltyRepo LoyaltyRepository,
	gateway PaymentGateway,
	mailer Mailer,
	publisher EventPublisher,
	cfg config.BookingConfig,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		reservationRepo: reservationRepo,
		promoRepo:       promoRepo,
		loyaltyRepo:     loyaltyRepo,
		gateway:         gateway,
		mailer:          mailer,
		publisher:       publisher,
		engine:          pricing.NewEngine(cfg.DefaultSlotPriceCents),
		policy:          slot.Policy{SessionMinutes: cfg.SessionMinutes},
		clock:           clk,
	}
}

// VerifyCart resolves and prices a cart without writing anything. Conflicts
// are checked sequentially so the first taken slot short-circuits the rest.
func (r *reservationCommandsImpl) VerifyCart(ctx context.Context, items []CartSlot) ([]VerifiedItem, error) {
	cart, err := normalizeCart(items, r.policy)
	if err != nil {
		return nil, err
	}

	out := make([]VerifiedItem, 0, len(cart))
	for _, it := range cart {
		conflict, err := r.reservationRepo.HasConflict(ctx, it.BoxID, it.Range)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDependencyUnavailable)
		}
		if conflict {
			return nil, errs.ErrSlotConflict
		}

		price := r.engine.ComputeTotal([]*int64{it.PriceCents}, nil, false, r.clock.Now())
		out = append(out, VerifiedItem{
			BoxID:       it.BoxID,
			Start:       it.Range.Start,
			End:         it.Range.End,
			Date:        it.Range.Date,
			DurationMin: it.Range.DurationMin,
			PriceCents:  price.BeforeCents,
		})
	}
	return out, nil
}

// Confirm runs the reservation workflow: validate → resolve → price →
// verify payment → availability → persist, then fires the best-effort
// post-commit side effects. Anything failing before persistence leaves no
// state behind; anything after persistence is logged and swallowed.
func (r *reservationCommandsImpl) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	if in.CustomerName == "" || in.CustomerEmail == "" {
		return nil, errs.ErrMissingCustomer
	}

	cart, err := normalizeCart(in.Items, r.policy)
	if err != nil {
		return nil, err
	}

	quote, promo := r.price(ctx, cart, in.PromoCode, in.LoyaltyUsed)

	// The client's declared total is diagnostic only; the server-side quote
	// is what gets charged and stored.
	if in.DeclaredTotalCents != nil && *in.DeclaredTotalCents != quote.AfterCents {
		slog.Warn("client total mismatch",
			"declared_cents", *in.DeclaredTotalCents,
			"computed_cents", quote.AfterCents,
			"customer", in.CustomerEmail)
	}
	if in.DeclaredFree && !quote.IsFree() {
		slog.Warn("client declared a free booking but computed total is payable",
			"computed_cents", quote.AfterCents,
			"customer", in.CustomerEmail)
	}

	redeemed := false
	if in.LoyaltyUsed {
		if in.UserID == nil {
			return nil, errs.ErrMissingCustomer
		}
		if err := r.loyaltyRepo.Redeem(ctx, *in.UserID); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return nil, errs.Mark(err, errs.ErrInsufficientPoints)
			}
			return nil, errs.Mark(err, errs.ErrDependencyUnavailable)
		}
		redeemed = true
	}

	// Every rejection after the loyalty debit must give the points back:
	// a failed booking may not leave the customer poorer.
	fail := func(err error) (*ConfirmResult, error) {
		if redeemed {
			r.refundLoyalty(ctx, *in.UserID)
		}
		return nil, err
	}

	if !quote.IsFree() {
		if err := r.verifyPayment(ctx, in.PaymentRef); err != nil {
			return fail(err)
		}
	}

	// Sequential per-item pre-check; the exclusion constraint inside
	// CreateBatch remains the authority against concurrent confirmations.
	for _, it := range cart {
		conflict, err := r.reservationRepo.HasConflict(ctx, it.BoxID, it.Range)
		if err != nil {
			return fail(errs.Mark(err, errs.ErrDependencyUnavailable))
		}
		if conflict {
			return fail(errs.ErrSlotConflict)
		}
	}

	rows, err := r.buildReservations(cart, in, promo, quote)
	if err != nil {
		return fail(err)
	}

	if err := r.reservationRepo.CreateBatch(ctx, rows); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return fail(errs.Mark(err, errs.ErrSlotConflict))
		}
		return fail(errs.Mark(err, errs.ErrPersistenceFailed))
	}

	r.dispatchPostCommit(ctx, rows, in, promo, quote)

	result := &ConfirmResult{Quote: quote}
	for _, row := range rows {
		rng := row.Range()
		result.Reservations = append(result.Reservations, ConfirmedReservation{
			ID:         row.ID(),
			BoxID:      row.BoxID(),
			Start:      rng.Start,
			End:        rng.End,
			PriceCents: row.PriceCents(),
		})
	}
	return result, nil
}

// price looks up the promo (soft-fail: unknown codes price the cart without a
// discount) and computes the quote.
func (r *reservationCommandsImpl) price(ctx context.Context, cart []CartItem, code *string, loyaltyUsed bool) (pricing.Quote, *pricing.Promo) {
	var promo *pricing.Promo
	if code != nil && *code != "" {
		found, err := r.promoRepo.FindByCode(ctx, *code)
		if err != nil {
			slog.Info("promo code not applied", "code", *code, "reason", err.Error())
		} else {
			promo = found
		}
	}

	quote := r.engine.ComputeTotal(itemPrices(cart), promo, loyaltyUsed, r.clock.Now())
	if quote.Rejection != "" {
		slog.Info("promo code rejected", "code", promo.Code, "reason", quote.Rejection)
	}
	return quote, promo
}

// refundLoyalty re-credits a redeemed free session after the booking was
// rejected. Best effort on a detached context: a failed refund is logged for
// reconciliation, never surfaced to the caller.
func (r *reservationCommandsImpl) refundLoyalty(ctx context.Context, userID uuid.UUID) {
	if err := r.loyaltyRepo.Credit(context.WithoutCancel(ctx), userID, loyalty.RedeemCost); err != nil {
		slog.Error("failed to refund loyalty points", "user_id", userID, "error", err)
	}
}

func (r *reservationCommandsImpl) verifyPayment(ctx context.Context, ref *string) error {
	if ref == nil || *ref == "" {
		return errs.ErrPaymentRefRequired
	}

	status, err := r.gateway.GetStatus(ctx, *ref)
	if err != nil {
		if errors.Is(err, errs.ErrDependencyUnavailable) {
			return err
		}
		return errs.Mark(err, errs.ErrPaymentNotVerified)
	}
	if status != PaymentSucceeded {
		slog.Warn("payment not confirmed", "reference", *ref, "status", status)
		return errs.ErrPaymentNotVerified
	}
	return nil
}

func (r *reservationCommandsImpl) buildReservations(
	cart []CartItem,
	in ConfirmInput,
	promo *pricing.Promo,
	quote pricing.Quote,
) ([]*reservation.Reservation, error) {
	var promoID *uuid.UUID
	if quote.Applied != nil && promo != nil {
		id := promo.ID
		promoID = &id
	}

	var paymentRef *string
	if !quote.IsFree() {
		paymentRef = in.PaymentRef
	}

	rows := make([]*reservation.Reservation, 0, len(cart))
	for _, it := range cart {
		price := r.engine.ComputeTotal([]*int64{it.PriceCents}, nil, false, r.clock.Now()).BeforeCents
		row, err := reservation.NewReservation(
			in.CustomerName, in.CustomerEmail,
			it.BoxID, it.Range, price, promoID, paymentRef,
		)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrMalformedSlot)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// dispatchPostCommit launches the best-effort side effects: confirmation
// notifications per reservation, loyalty credit, promo usage recording. All
// outcomes are joined and logged; none can fail the request or roll back the
// reservation, and once started they run to completion regardless of the
// caller hanging up.
func (r *reservationCommandsImpl) dispatchPostCommit(
	ctx context.Context,
	rows []*reservation.Reservation,
	in ConfirmInput,
	promo *pricing.Promo,
	quote pricing.Quote,
) {
	detached := context.WithoutCancel(ctx)

	var tasks []task
	for _, row := range rows {
		row := row
		tasks = append(tasks,
			task{"send confirmation mail", func(ctx context.Context) error {
				return r.mailer.SendConfirmation(ctx, row)
			}},
			task{"publish confirmed event", func(ctx context.Context) error {
				return r.publisher.PublishConfirmed(ctx, row)
			}},
		)
	}

	wasFree := quote.IsFree()
	if in.UserID != nil {
		userID := *in.UserID
		points := loyalty.CreditFor(len(rows), wasFree)
		if points > 0 {
			tasks = append(tasks, task{"credit loyalty points", func(ctx context.Context) error {
				return r.loyaltyRepo.Credit(ctx, userID, points)
			}})
		}
	}

	if quote.Applied != nil && quote.DiscountCents > 0 && promo != nil {
		promoID := promo.ID
		firstID := rows[0].ID()
		paymentRef := in.PaymentRef
		tasks = append(tasks, task{"record promo usage", func(ctx context.Context) error {
			return r.promoRepo.RecordUsage(ctx, promoID, firstID, paymentRef)
		}})
	}

	go runAllSettled(detached, tasks)
}
