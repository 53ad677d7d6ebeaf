package vault

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// SharesForValue computes the shares minted for a deposit of value. The
// first deposit bootstraps 1:1; afterwards the depositor receives the
// truncated proportion, so rounding never dilutes existing holders.
// Callers must reject totalValue zero when shares are outstanding before
// calling; the share price does not exist in that state.
func SharesForValue(value, totalValue, totalShares sdkmath.Int) sdkmath.Int {
	if totalShares.IsZero() {
		return value
	}
	return value.Mul(totalShares).Quo(totalValue)
}

// ValueForShares computes the value redeemable for a share amount,
// truncating in the vault's favor.
func ValueForShares(shares, totalValue, totalShares sdkmath.Int) sdkmath.Int {
	if totalShares.IsZero() {
		return sdkmath.ZeroInt()
	}
	return shares.Mul(totalValue).Quo(totalShares)
}

// TotalValue returns idle reserve plus the value reported by every
// registered strategy, iterated in registration order. A single failing
// strategy fails the whole valuation: the vault never reports a value it
// cannot back.
func (v *Vault) TotalValue() (sdkmath.Int, error) {
	if err := v.registry.requireInitialized(); err != nil {
		return sdkmath.ZeroInt(), err
	}

	total := v.IdleReserve()
	for _, a := range v.registry.Actions() {
		value, err := a.CurrentValue()
		if err != nil {
			return sdkmath.ZeroInt(), fmt.Errorf("action %s valuation failed: %w", a.ID(), err)
		}
		if value.IsNil() || value.IsNegative() {
			return sdkmath.ZeroInt(), fmt.Errorf("%w: action %s reported %s", ErrInvalidAmount, a.ID(), value)
		}
		total = total.Add(value)
	}
	return total, nil
}
