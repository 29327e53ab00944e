package reservation

import (
	"errors"
	"strings"
	"time"

	"karabox/internal/domain/slot"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange      = errors.New("reservation range must end after it starts")
	ErrInvalidBox        = errors.New("box identifier must be a positive number")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrMissingCustomer   = errors.New("customer name and email are required")
	ErrBadDepositChange  = errors.New("deposit can only move from authorized to captured or canceled")
	ErrDepositNotPresent = errors.New("reservation has no deposit hold")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	// Reachable only through external administration, never set by this core.
	StatusCanceled Status = "canceled"
	StatusNoShow   Status = "no_show"
)

type DepositStatus string

const (
	DepositAuthorized DepositStatus = "authorized"
	DepositCaptured   DepositStatus = "captured"
	DepositCanceled   DepositStatus = "canceled"
)

func (s DepositStatus) CanTransitionTo(next DepositStatus) bool {
	return s == DepositAuthorized && (next == DepositCaptured || next == DepositCanceled)
}

type Reservation struct {
	id            uuid.UUID
	customerName  string
	customerEmail string
	boxID         int
	rng           slot.Range
	status        Status
	priceCents    int64
	promoID       *uuid.UUID
	paymentRef    *string
	depositRef    *string
	depositStatus *DepositStatus
	createdAt     time.Time
	updatedAt     time.Time
}

func NewReservation(
	customerName, customerEmail string,
	boxID int,
	rng slot.Range,
	priceCents int64,
	promoID *uuid.UUID,
	paymentRef *string,
) (*Reservation, error) {
	if strings.TrimSpace(customerName) == "" || strings.TrimSpace(customerEmail) == "" {
		return nil, ErrMissingCustomer
	}
	if boxID < 1 {
		return nil, ErrInvalidBox
	}
	if !rng.End.After(rng.Start) {
		return nil, ErrInvalidRange
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Reservation{
		id:            uuid.New(),
		customerName:  strings.TrimSpace(customerName),
		customerEmail: strings.TrimSpace(customerEmail),
		boxID:         boxID,
		rng:           rng,
		status:        StatusConfirmed,
		priceCents:    priceCents,
		promoID:       promoID,
		paymentRef:    paymentRef,
	}, nil
}

func ReconstructReservation(
	id uuid.UUID,
	customerName, customerEmail string,
	boxID int,
	rng slot.Range,
	status Status,
	priceCents int64,
	promoID *uuid.UUID,
	paymentRef, depositRef *string,
	depositStatus *DepositStatus,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		customerName:  customerName,
		customerEmail: customerEmail,
		boxID:         boxID,
		rng:           rng,
		status:        status,
		priceCents:    priceCents,
		promoID:       promoID,
		paymentRef:    paymentRef,
		depositRef:    depositRef,
		depositStatus: depositStatus,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Conflicts applies the per-box half-open overlap rule: back-to-back slots on
// the same box never conflict.
func (r *Reservation) Conflicts(boxID int, rng slot.Range) bool {
	return r.boxID == boxID && r.rng.Overlaps(rng)
}

func (r *Reservation) AttachDeposit(ref string) {
	status := DepositAuthorized
	r.depositRef = &ref
	r.depositStatus = &status
}

func (r *Reservation) TransitionDeposit(next DepositStatus) error {
	if r.depositStatus == nil || r.depositRef == nil {
		return ErrDepositNotPresent
	}
	if !r.depositStatus.CanTransitionTo(next) {
		return ErrBadDepositChange
	}
	r.depositStatus = &next
	return nil
}

func (r *Reservation) IsConfirmed() bool { return r.status == StatusConfirmed }

func (r *Reservation) ID() uuid.UUID                  { return r.id }
func (r *Reservation) CustomerName() string           { return r.customerName }
func (r *Reservation) CustomerEmail() string          { return r.customerEmail }
func (r *Reservation) BoxID() int                     { return r.boxID }
func (r *Reservation) Range() slot.Range              { return r.rng }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) PriceCents() int64              { return r.priceCents }
func (r *Reservation) PromoID() *uuid.UUID            { return r.promoID }
func (r *Reservation) PaymentRef() *string            { return r.paymentRef }
func (r *Reservation) DepositRef() *string            { return r.depositRef }
func (r *Reservation) DepositStatus() *DepositStatus  { return r.depositStatus }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }
