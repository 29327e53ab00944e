//go:build unit

package loyalty_test

import (
	"testing"

	"karabox/internal/domain/loyalty"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanRedeem(t *testing.T) {
	assert.False(t, loyalty.ReconstructAccount(uuid.New(), loyalty.RedeemCost-1).CanRedeem())
	assert.True(t, loyalty.ReconstructAccount(uuid.New(), loyalty.RedeemCost).CanRedeem())
}

func TestCreditFor(t *testing.T) {
	tests := []struct {
		name      string
		slotCount int
		wasFree   bool
		want      int
	}{
		{name: "paid single slot", slotCount: 1, want: loyalty.PointsPerSlot},
		{name: "paid multi slot", slotCount: 3, want: 3 * loyalty.PointsPerSlot},
		{name: "free session earns nothing", slotCount: 2, wasFree: true, want: 0},
		{name: "empty cart earns nothing", slotCount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loyalty.CreditFor(tt.slotCount, tt.wasFree))
		})
	}
}
