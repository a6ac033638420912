package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name       string
		gross      int64
		feeRateBps int
		wantFee    int64
		wantNet    int64
	}{
		{"standard rate", 10000, 2000, 2000, 8000},
		{"rounds down", 1, 2000, 0, 1},
		{"zero gross", 0, 2000, 0, 0},
		{"zero rate", 500, 0, 0, 500},
		{"full rate", 100, 10000, 100, 0},
		{"odd split rounds down", 99, 2500, 24, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, net := ComputeFee(tt.gross, tt.feeRateBps)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantNet, net)
		})
	}
}

func TestComputeFee_Conservation(t *testing.T) {
	// fee + net must always reassemble the gross amount
	for gross := int64(0); gross < 200; gross++ {
		for _, bps := range []int{0, 1, 250, 2000, 9999, 10000} {
			fee, net := ComputeFee(gross, bps)
			assert.Equal(t, gross, fee+net, "gross %d bps %d", gross, bps)
			assert.GreaterOrEqual(t, fee, int64(0))
			assert.GreaterOrEqual(t, net, int64(0))
		}
	}
}
