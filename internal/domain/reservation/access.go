package reservation

import "time"

// AccessPolicy holds the two door margins. They are independent constants: a
// customer may enter EarlyMargin before start and is refused once fewer than
// LateMargin remain before end.
type AccessPolicy struct {
	EarlyMargin time.Duration
	LateMargin  time.Duration
}

type AccessDecision struct {
	Granted bool
	Reason  string
}

const (
	ReasonTooEarly     = "too early"
	ReasonTooLate      = "too late"
	ReasonNotConfirmed = "reservation not confirmed"
)

// CheckAccess decides whether the door opens for a reservation at scan time.
// First match wins; the decision never mutates reservation state.
func CheckAccess(r *Reservation, now time.Time, p AccessPolicy) AccessDecision {
	switch {
	case now.Before(r.rng.Start.Add(-p.EarlyMargin)):
		return AccessDecision{Reason: ReasonTooEarly}
	case now.After(r.rng.End.Add(-p.LateMargin)):
		return AccessDecision{Reason: ReasonTooLate}
	case r.status != StatusConfirmed:
		return AccessDecision{Reason: ReasonNotConfirmed}
	default:
		return AccessDecision{Granted: true}
	}
}
