//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"karabox/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAccess(t *testing.T) {
	policy := reservation.AccessPolicy{
		EarlyMargin: 5 * time.Minute,
		LateMargin:  5 * time.Minute,
	}

	rng := sessionRange(18)
	start := rng.Start
	end := rng.End

	confirmed := newReservation(t)

	tests := []struct {
		name    string
		now     time.Time
		granted bool
		reason  string
	}{
		{name: "ten minutes early is refused", now: start.Add(-10 * time.Minute), reason: reservation.ReasonTooEarly},
		{name: "just outside the early margin", now: start.Add(-5*time.Minute - time.Second), reason: reservation.ReasonTooEarly},
		{name: "inside the early margin", now: start.Add(-3 * time.Minute), granted: true},
		{name: "exactly at start", now: start, granted: true},
		{name: "mid session", now: start.Add(30 * time.Minute), granted: true},
		{name: "inside the late margin is refused", now: end.Add(-3 * time.Minute), reason: reservation.ReasonTooLate},
		{name: "after end is refused", now: end.Add(time.Minute), reason: reservation.ReasonTooLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := reservation.CheckAccess(confirmed, tt.now, policy)
			assert.Equal(t, tt.granted, d.Granted)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}

	t.Run("non confirmed reservation is refused in window", func(t *testing.T) {
		canceled := reservation.ReconstructReservation(
			confirmed.ID(), "Rin", "rin@example.com", 3, rng,
			reservation.StatusCanceled, 2500, nil, nil, nil, nil,
			time.Now(), time.Now(),
		)

		d := reservation.CheckAccess(canceled, start.Add(10*time.Minute), policy)
		require.False(t, d.Granted)
		assert.Equal(t, reservation.ReasonNotConfirmed, d.Reason)
	})

	t.Run("time window is checked before status", func(t *testing.T) {
		canceled := reservation.ReconstructReservation(
			confirmed.ID(), "Rin", "rin@example.com", 3, rng,
			reservation.StatusCanceled, 2500, nil, nil, nil, nil,
			time.Now(), time.Now(),
		)

		d := reservation.CheckAccess(canceled, start.Add(-time.Hour), policy)
		assert.Equal(t, reservation.ReasonTooEarly, d.Reason)
	})
}
