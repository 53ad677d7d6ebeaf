// ./internal/state/snapshot_store.go
package state

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/lib/pq" // PostgreSQL driver for array support
	"github.com/rs/zerolog/log"

	"github.com/nativevault/nvm/internal/types"
)

// SaveCycleSnapshot saves a complete cycle snapshot to the database.
func SaveCycleSnapshot(snapshot types.CycleSnapshot) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	allocationsJSON, err := json.Marshal(snapshot.Allocations)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal allocations: %w", err)
	}

	strategyValuesJSON, err := json.Marshal(snapshot.StrategyValues)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal strategy_values: %w", err)
	}

	query := `
		INSERT INTO cycle_snapshots (
			cycle_number, cycle_id, snapshot_timestamp, params_id,
			state_before, reserve_before, value_before,
			strategy_ids, allocations,
			state_after, reserve_after, value_after,
			total_shares, strategy_values, collected,
			success, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING snapshot_id;
	`

	var snapshotID int64
	err = DB.QueryRow(
		query,
		snapshot.CycleNumber, snapshot.CycleID, snapshot.Timestamp, snapshot.ParamsID,
		snapshot.StateBefore, intOrZero(snapshot.ReserveBefore), intOrZero(snapshot.ValueBefore),
		pq.Array(snapshot.StrategyIDs), allocationsJSON,
		snapshot.StateAfter, intOrZero(snapshot.ReserveAfter), intOrZero(snapshot.ValueAfter),
		intOrZero(snapshot.TotalShares), strategyValuesJSON, intOrZero(snapshot.Collected),
		snapshot.Success, snapshot.Message,
	).Scan(&snapshotID)

	if err != nil {
		return 0, fmt.Errorf("failed to save cycle snapshot: %w", err)
	}

	log.Info().
		Int64("snapshot_id", snapshotID).
		Int("cycle_number", snapshot.CycleNumber).
		Str("state_after", snapshot.StateAfter).
		Msg("Cycle snapshot saved to database")

	return snapshotID, nil
}

// intOrZero renders a possibly-nil Int as its decimal string for NUMERIC columns.
func intOrZero(v sdkmath.Int) string {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}

// parseInt scans a NUMERIC column value back into an Int.
func parseInt(raw string) (sdkmath.Int, error) {
	if raw == "" {
		return sdkmath.ZeroInt(), nil
	}
	v, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("invalid integer value %q in database", raw)
	}
	return v, nil
}
