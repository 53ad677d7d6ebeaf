/*

This file contains the snapshot types recorded around every allocation
cycle for auditing and the dashboard API.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// CycleSnapshot captures vault state before and after one allocation
// cycle (close positions, then roll over).
type CycleSnapshot struct {
	SnapshotID  int64     `json:"snapshot_id,omitempty"` // Auto-incremented by DB
	CycleNumber int       `json:"cycle_number"`          // Global persistent cycle counter
	CycleID     string    `json:"cycle_id"`              // UUID for tracing logs across the cycle
	Timestamp   time.Time `json:"timestamp"`
	ParamsID    *int64    `json:"params_id,omitempty"` // Active vault parameters during the cycle

	// Pre-cycle state
	StateBefore   string      `json:"state_before"`
	ReserveBefore sdkmath.Int `json:"reserve_before"`
	ValueBefore   sdkmath.Int `json:"value_before"`

	// The plan
	StrategyIDs []string         `json:"strategy_ids"`
	Allocations map[string]int64 `json:"allocations"` // basis points per strategy

	// The outcome
	StateAfter     string                 `json:"state_after"`
	ReserveAfter   sdkmath.Int            `json:"reserve_after"`
	ValueAfter     sdkmath.Int            `json:"value_after"`
	TotalShares    sdkmath.Int            `json:"total_shares"`
	StrategyValues map[string]sdkmath.Int `json:"strategy_values"` // value per strategy after rollover
	Collected      sdkmath.Int            `json:"collected"`       // realized by the close phase

	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// VaultSummary is the aggregate view served by the API.
type VaultSummary struct {
	State                string      `json:"state"`
	IdleReserve          sdkmath.Int `json:"idle_reserve"`
	TotalValue           sdkmath.Int `json:"total_value"`
	TotalShares          sdkmath.Int `json:"total_shares"`
	VaultCap             sdkmath.Int `json:"vault_cap"`
	WithdrawalReserveBps int64       `json:"withdrawal_reserve_bps"`
	WithdrawFeeBps       int64       `json:"withdraw_fee_bps"`
	FeeRecipient         string      `json:"fee_recipient"`
	StrategyCount        int         `json:"strategy_count"`
	TotalValueDisplay    float64     `json:"total_value_display"`
}
