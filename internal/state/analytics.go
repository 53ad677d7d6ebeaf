package state

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver for array support
	"github.com/rs/zerolog/log"

	"github.com/nativevault/nvm/internal/types"
)

// PerformanceMetrics represents aggregated cycle performance data
type PerformanceMetrics struct {
	NetReturn        float64 `json:"net_return"`
	TotalCollected   float64 `json:"total_collected"`
	TotalCycles      int     `json:"total_cycles"`
	SuccessfulCycles int     `json:"successful_cycles"`
	LastCycleTime    string  `json:"last_cycle_time,omitempty"`
}

const cycleColumns = `
	snapshot_id, cycle_number, cycle_id, snapshot_timestamp, params_id,
	state_before, reserve_before, value_before,
	strategy_ids, allocations,
	state_after, reserve_after, value_after,
	total_shares, strategy_values, collected,
	success, message`

// GetRecentCycles retrieves recent cycle snapshots with pagination
func GetRecentCycles(limit int) ([]types.CycleSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 10 // Default limit
	}

	query := `
		SELECT ` + cycleColumns + `
		FROM cycle_snapshots
		ORDER BY snapshot_timestamp DESC
		LIMIT $1
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query recent cycles")
		return nil, fmt.Errorf("failed to query recent cycles: %w", err)
	}
	defer rows.Close()

	var cycles []types.CycleSnapshot
	for rows.Next() {
		cycle, err := scanCycle(rows.Scan)
		if err != nil {
			log.Error().Err(err).Msg("Failed to scan cycle row")
			continue // Skip this row and continue with others
		}
		cycles = append(cycles, *cycle)
	}

	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error occurred during row iteration")
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	log.Info().Int("count", len(cycles)).Int("limit", limit).Msg("Retrieved recent cycles")
	return cycles, nil
}

// GetCycleByID retrieves a specific cycle by its snapshot ID
func GetCycleByID(snapshotID int64) (*types.CycleSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT ` + cycleColumns + `
		FROM cycle_snapshots
		WHERE snapshot_id = $1
	`

	row := DB.QueryRow(query, snapshotID)
	cycle, err := scanCycle(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cycle with ID %d not found", snapshotID)
		}
		log.Error().Err(err).Int64("snapshot_id", snapshotID).Msg("Failed to query cycle by ID")
		return nil, fmt.Errorf("failed to query cycle by ID: %w", err)
	}

	log.Info().Int64("snapshot_id", snapshotID).Int("cycle_number", cycle.CycleNumber).Msg("Retrieved cycle by ID")
	return cycle, nil
}

// scanCycle scans one cycle_snapshots row in cycleColumns order.
func scanCycle(scan func(dest ...interface{}) error) (*types.CycleSnapshot, error) {
	var cycle types.CycleSnapshot
	var paramsID sql.NullInt64
	var rawReserveBefore, rawValueBefore, rawReserveAfter, rawValueAfter, rawShares, rawCollected string
	var allocationsJSON, strategyValuesJSON []byte
	var message sql.NullString

	err := scan(
		&cycle.SnapshotID, &cycle.CycleNumber, &cycle.CycleID, &cycle.Timestamp, &paramsID,
		&cycle.StateBefore, &rawReserveBefore, &rawValueBefore,
		pq.Array(&cycle.StrategyIDs), &allocationsJSON, // Use pq.Array for PostgreSQL array
		&cycle.StateAfter, &rawReserveAfter, &rawValueAfter,
		&rawShares, &strategyValuesJSON, &rawCollected,
		&cycle.Success, &message,
	)
	if err != nil {
		return nil, err
	}

	if paramsID.Valid {
		cycle.ParamsID = &paramsID.Int64
	}
	if message.Valid {
		cycle.Message = message.String
	}

	if cycle.ReserveBefore, err = parseInt(rawReserveBefore); err != nil {
		return nil, err
	}
	if cycle.ValueBefore, err = parseInt(rawValueBefore); err != nil {
		return nil, err
	}
	if cycle.ReserveAfter, err = parseInt(rawReserveAfter); err != nil {
		return nil, err
	}
	if cycle.ValueAfter, err = parseInt(rawValueAfter); err != nil {
		return nil, err
	}
	if cycle.TotalShares, err = parseInt(rawShares); err != nil {
		return nil, err
	}
	if cycle.Collected, err = parseInt(rawCollected); err != nil {
		return nil, err
	}

	if len(allocationsJSON) > 0 {
		if err := json.Unmarshal(allocationsJSON, &cycle.Allocations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allocations: %w", err)
		}
	}
	if len(strategyValuesJSON) > 0 {
		if err := json.Unmarshal(strategyValuesJSON, &cycle.StrategyValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strategy values: %w", err)
		}
	}

	return &cycle, nil
}

// GetPerformanceMetrics retrieves aggregated performance metrics
func GetPerformanceMetrics() (*PerformanceMetrics, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	metrics := &PerformanceMetrics{}

	query := `
		SELECT
			COALESCE(SUM(value_after - value_before), 0) as net_return,
			COALESCE(SUM(collected), 0) as total_collected,
			COUNT(*) as total_cycles,
			COUNT(CASE WHEN success THEN 1 END) as successful_cycles,
			COALESCE(MAX(snapshot_timestamp)::text, '') as last_cycle_time
		FROM cycle_snapshots
	`

	err := DB.QueryRow(query).Scan(
		&metrics.NetReturn,
		&metrics.TotalCollected,
		&metrics.TotalCycles,
		&metrics.SuccessfulCycles,
		&metrics.LastCycleTime,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get performance metrics: %w", err)
	}

	log.Info().
		Float64("netReturn", metrics.NetReturn).
		Int("totalCycles", metrics.TotalCycles).
		Msg("Retrieved performance metrics")

	return metrics, nil
}
