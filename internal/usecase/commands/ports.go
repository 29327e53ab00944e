package commands

import (
	"context"

	"karabox/internal/domain/loyalty"
	"karabox/internal/domain/pricing"
	"karabox/internal/domain/reservation"
	"karabox/internal/domain/slot"

	"github.com/google/uuid"
)

// Write-side ports. Implementations live in internal/infra; the workflow only
// sees capabilities, never concrete clients, so an unconfigured collaborator
// is an error value rather than a nil global.

type ReservationRepository interface {
	HasConflict(ctx context.Context, boxID int, rng slot.Range) (bool, error)
	CreateBatch(ctx context.Context, rows []*reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	UpdateDeposit(ctx context.Context, id uuid.UUID, ref string, status reservation.DepositStatus) error
}

type PromoRepository interface {
	FindByCode(ctx context.Context, code string) (*pricing.Promo, error)
	RecordUsage(ctx context.Context, promoID, reservationID uuid.UUID, paymentRef *string) error
}

type LoyaltyRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*loyalty.Account, error)
	Credit(ctx context.Context, userID uuid.UUID, points int) error
	Redeem(ctx context.Context, userID uuid.UUID) error
}

type PaymentGateway interface {
	Authorize(ctx context.Context, amountCents int64, metadata map[string]string) (string, error)
	GetStatus(ctx context.Context, reference string) (string, error)
	Capture(ctx context.Context, reference string, amountCents *int64) error
	Cancel(ctx context.Context, reference string) error
}

type Mailer interface {
	SendConfirmation(ctx context.Context, res *reservation.Reservation) error
}

type EventPublisher interface {
	PublishConfirmed(ctx context.Context, res *reservation.Reservation) error
}

// PaymentSucceeded is the only provider status that confirms a booking.
const PaymentSucceeded = "succeeded"
