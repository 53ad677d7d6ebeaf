package vault

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
)

func TestSharesForValue(t *testing.T) {
	tests := []struct {
		name        string
		value       int64
		totalValue  int64
		totalShares int64
		want        int64
	}{
		{name: "bootstrap mints one to one", value: 100, totalValue: 0, totalShares: 0, want: 100},
		{name: "par price", value: 100, totalValue: 500, totalShares: 500, want: 100},
		{name: "appreciated shares mint fewer", value: 100, totalValue: 200, totalShares: 100, want: 50},
		{name: "truncates toward zero", value: 100, totalValue: 300, totalShares: 200, want: 66},
		{name: "tiny deposit against large pool", value: 1, totalValue: 1_000_000, totalShares: 1_000, want: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := SharesForValue(sdkmath.NewInt(test.value), sdkmath.NewInt(test.totalValue), sdkmath.NewInt(test.totalShares))
			assert.Equal(t, sdkmath.NewInt(test.want), got)
		})
	}
}

func TestValueForShares(t *testing.T) {
	tests := []struct {
		name        string
		shares      int64
		totalValue  int64
		totalShares int64
		want        int64
	}{
		{name: "empty supply is worthless", shares: 100, totalValue: 0, totalShares: 0, want: 0},
		{name: "par price", shares: 100, totalValue: 500, totalShares: 500, want: 100},
		{name: "appreciated shares redeem more", shares: 50, totalValue: 200, totalShares: 100, want: 100},
		{name: "truncates toward zero", shares: 1, totalValue: 100, totalShares: 3, want: 33},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ValueForShares(sdkmath.NewInt(test.shares), sdkmath.NewInt(test.totalValue), sdkmath.NewInt(test.totalShares))
			assert.Equal(t, sdkmath.NewInt(test.want), got)
		})
	}
}
