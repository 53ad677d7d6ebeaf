package vault

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// ShareLedger maps depositor identities to share balances and tracks
// total shares outstanding. Invariant: the sum of all balances equals
// totalShares after every successful mint or burn.
type ShareLedger struct {
	balances    map[string]sdkmath.Int
	totalShares sdkmath.Int
}

// NewShareLedger returns an empty ledger.
func NewShareLedger() *ShareLedger {
	return &ShareLedger{
		balances:    make(map[string]sdkmath.Int),
		totalShares: sdkmath.ZeroInt(),
	}
}

// Mint credits shares to a depositor and grows the total supply.
func (l *ShareLedger) Mint(depositor string, shares sdkmath.Int) error {
	if shares.IsNil() || shares.IsNegative() {
		return fmt.Errorf("%w: mint of %s shares", ErrInvalidAmount, shares)
	}
	l.balances[depositor] = l.BalanceOf(depositor).Add(shares)
	l.totalShares = l.totalShares.Add(shares)
	return nil
}

// Burn debits shares from a depositor and shrinks the total supply. It
// fails without side effects when the balance is insufficient.
func (l *ShareLedger) Burn(depositor string, shares sdkmath.Int) error {
	if shares.IsNil() || shares.IsNegative() {
		return fmt.Errorf("%w: burn of %s shares", ErrInvalidAmount, shares)
	}
	balance := l.BalanceOf(depositor)
	if balance.LT(shares) {
		return fmt.Errorf("%w: %s has %s, burn of %s requested",
			ErrInsufficientShares, depositor, balance, shares)
	}
	l.balances[depositor] = balance.Sub(shares)
	l.totalShares = l.totalShares.Sub(shares)
	return nil
}

// BalanceOf returns the share balance of a depositor. Balances can reach
// zero but accounts are never deleted.
func (l *ShareLedger) BalanceOf(depositor string) sdkmath.Int {
	if b, ok := l.balances[depositor]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}

// TotalShares returns the total shares outstanding.
func (l *ShareLedger) TotalShares() sdkmath.Int {
	return l.totalShares
}
