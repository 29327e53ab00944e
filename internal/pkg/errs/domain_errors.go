package errs

import "errors"

// Sentinel errors shared between the usecase and handler layers.
var (
	// Validation
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMalformedSlot   = errors.New("malformed slot")
	ErrInvalidBoxID    = errors.New("invalid box identifier")
	ErrMissingCustomer = errors.New("customer name and email are required")

	// Availability
	ErrSlotConflict = errors.New("slot conflict")

	// Payment
	ErrPaymentNotVerified    = errors.New("payment not verified")
	ErrPaymentRefRequired    = errors.New("payment reference required")
	ErrInvalidDepositAction  = errors.New("invalid deposit transition")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Lookup
	ErrReservationNotFound = errors.New("reservation not found")

	// Loyalty
	ErrInsufficientPoints = errors.New("insufficient loyalty points")

	// Operation
	ErrPersistenceFailed = errors.New("persistence failed")
)
