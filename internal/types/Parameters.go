/*

This file contains the operator-tunable vault parameters persisted in
the database, versioned per config name with a single active row.

*/

package types

import (
	sdkmath "cosmossdk.io/math"
)

// VaultParameters are the persisted operator settings applied to the
// vault core at startup and on admin changes.
type VaultParameters struct {
	// VaultCap is the maximum total value accepted via deposits, in base
	// units. Zero means uncapped.
	VaultCap sdkmath.Int `json:"vault_cap"`

	// WithdrawalReserveBps bounds, in basis points, how much of the
	// total value a rollover may leave idle for withdrawals. Strictly
	// below 5000.
	WithdrawalReserveBps int64 `json:"withdrawal_reserve_bps"`

	// WithdrawFeeBps is the protocol fee taken from gross withdrawals.
	WithdrawFeeBps int64 `json:"withdraw_fee_bps"`

	// FeeRecipient is the treasury account credited with fees.
	FeeRecipient string `json:"fee_recipient"`
}
