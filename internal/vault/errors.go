package vault

import "errors"

// Error definitions for zero-tolerance error handling. Every failed
// operation leaves vault state exactly as it was before the call.
var (
	// Registry setup misuse.
	ErrAlreadyInitialized  = errors.New("actions already initialized")
	ErrNoActionInitialized = errors.New("no action initialized")
	ErrInvalidAction       = errors.New("invalid action")
	ErrDuplicateAction     = errors.New("duplicate action")

	// Lifecycle state mismatches.
	ErrVaultLocked    = errors.New("vault is locked")
	ErrVaultUnlocked  = errors.New("vault is unlocked")
	ErrInEmergency    = errors.New("vault already in emergency")
	ErrNotInEmergency = errors.New("vault not in emergency")
	ErrEmergencyState = errors.New("vault is in emergency state")

	// Allocation table validation.
	ErrInconsistentAllocPercent = errors.New("allocation percentage count does not match action count")
	ErrSumExceedsBase           = errors.New("allocation percentages sum exceeds base")
	ErrSumNotBase               = errors.New("allocation percentages do not sum to base")

	// Deposit / withdraw guards.
	ErrEmptyDeposit       = errors.New("deposit amount is zero")
	ErrExceedVaultCap     = errors.New("deposit exceeds vault cap")
	ErrReachVaultBalance  = errors.New("withdrawal reaches vault balance")
	ErrSlippageExceeded   = errors.New("withdrawal below minimum amount out")
	ErrInsufficientShares = errors.New("insufficient share balance")
	ErrVaultValueZero     = errors.New("vault value is zero with shares outstanding")

	// Transfer outcomes.
	ErrFeeTransferFailed    = errors.New("fee transfer failed")
	ErrFailedUserWithdrawal = errors.New("user withdrawal transfer failed")

	// Parameter validation.
	ErrInvalidReserveRatio = errors.New("withdrawal reserve ratio must be below half of base")
	ErrInvalidAmount       = errors.New("amount is invalid")
)
