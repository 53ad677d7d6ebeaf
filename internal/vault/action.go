package vault

import (
	sdkmath "cosmossdk.io/math"
)

// BaseUnit is the denominator for all basis-point percentage math.
const BaseUnit = int64(10_000)

// Action is the contract every strategy collaborator must satisfy.
// Implementations are untrusted: any error from them aborts the calling
// operation, and a reported value is never substituted with a default.
type Action interface {
	// ID returns the unique identifier of the strategy. It doubles as the
	// strategy's account on the Bank.
	ID() string

	// CurrentValue reports the native-asset value currently held by the
	// strategy.
	CurrentValue() (sdkmath.Int, error)

	// AcceptCapital is invoked during distribution after the capital has
	// been transferred to the strategy's account.
	AcceptCapital(amount sdkmath.Int) error

	// ReleaseCapital closes the strategy's position and returns the
	// realized amount, which must be liquid in the strategy's account
	// when the call returns.
	ReleaseCapital() (sdkmath.Int, error)
}

// Bank is the native-asset transfer primitive. The vault branches on the
// returned error and fails explicitly rather than assuming success.
type Bank interface {
	// Transfer moves amount from one account to another. A non-nil error
	// means no value moved.
	Transfer(from, to string, amount sdkmath.Int) error

	// BalanceOf reports the liquid balance of an account.
	BalanceOf(account string) sdkmath.Int
}
