package engine

import (
	"context"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nativevault/nvm/internal/logger"
	"github.com/nativevault/nvm/internal/state"
	"github.com/nativevault/nvm/internal/types"
	"github.com/nativevault/nvm/internal/vault"
)

const (
	// Export constants for use in main.go
	DEFAULT_PARAMS_CONFIG_NAME    = "default_vault_params"
	DEFAULT_PARAMS_CONFIG_VERSION = 1
)

// Engine drives allocation cycles against the vault core: close open
// positions if any, then roll the idle reserve over per the active plan,
// snapshotting state on both sides of the cycle.
type Engine struct {
	logger zerolog.Logger
	vault  *vault.Vault
	plan   *types.AllocationPlan

	configName string
	cycleCount int
}

// Config holds the configuration for creating a new Engine instance
type Config struct {
	Vault      *vault.Vault
	Plan       *types.AllocationPlan
	ConfigName string
}

// New creates a new Engine instance with dependency injection
func New(cfg Config) (*Engine, error) {
	if err := validateEngineConfig(cfg); err != nil {
		return nil, fmt.Errorf("engine configuration validation failed: %w", err)
	}

	e := &Engine{
		logger:     logger.GetForComponent("cycle_engine"),
		vault:      cfg.Vault,
		plan:       cfg.Plan,
		configName: cfg.ConfigName,
	}

	e.logger.Info().
		Str("configName", e.configName).
		Int("strategies", len(e.plan.Strategies)).
		Msg("Engine instance created")
	return e, nil
}

func validateEngineConfig(cfg Config) error {
	if cfg.Vault == nil {
		return fmt.Errorf("vault cannot be nil")
	}
	if cfg.Plan == nil {
		return fmt.Errorf("allocation plan cannot be nil")
	}
	if err := cfg.Plan.Validate(); err != nil {
		return fmt.Errorf("allocation plan invalid: %w", err)
	}
	if cfg.ConfigName == "" {
		return fmt.Errorf("config name cannot be empty")
	}
	return nil
}

// RunCycle executes one complete allocation cycle.
func (e *Engine) RunCycle(ctx context.Context) error {
	cycleStartTime := time.Now()
	e.cycleCount++

	// Unique cycle ID for tracing logs across the entire cycle
	cycleID := uuid.New().String()
	cycleLogger := e.logger.With().Str("cycle_id", cycleID).Logger()

	cycleLogger.Info().Msg("--- Starting allocation cycle ---")

	snapshot := types.CycleSnapshot{
		CycleNumber: e.getCycleNumber(),
		CycleID:     cycleID,
		Timestamp:   cycleStartTime,
		ParamsID:    e.getParamsID(),
		StrategyIDs: e.strategyIDs(),
		Allocations: e.plan.TargetBpsByID(),
	}

	// --- Step 1: Pre-cycle state ---
	snapshot.StateBefore = e.vault.State().String()
	snapshot.ReserveBefore = e.vault.IdleReserve()
	valueBefore, err := e.vault.TotalValue()
	if err != nil {
		cycleLogger.Error().Err(err).Msg("Cycle aborted: failed to value the vault.")
		return err
	}
	snapshot.ValueBefore = valueBefore

	cycleLogger.Info().
		Str("state", snapshot.StateBefore).
		Str("reserve", snapshot.ReserveBefore.String()).
		Str("totalValue", valueBefore.String()).
		Msg("Step 1: Vault state assessed.")

	// --- Step 2: Close open positions ---
	collected := sdkmath.ZeroInt()
	switch e.vault.State() {
	case vault.StateEmergency:
		err := vault.ErrEmergencyState
		cycleLogger.Warn().Msg("Cycle aborted: vault is in emergency state.")
		e.finalizeSnapshot(&snapshot, collected, false, "vault in emergency state")
		e.saveSnapshot(snapshot, cycleLogger)
		return err
	case vault.StateLocked:
		cycleLogger.Info().Msg("Step 2: Closing open positions...")
		if err := e.vault.ClosePositions(); err != nil {
			cycleLogger.Error().Err(err).Msg("Cycle aborted: failed to close positions.")
			e.finalizeSnapshot(&snapshot, collected, false, fmt.Sprintf("close failed: %v", err))
			e.saveSnapshot(snapshot, cycleLogger)
			return err
		}
		collected = e.vault.IdleReserve().Sub(snapshot.ReserveBefore)
		cycleLogger.Info().Str("collected", collected.String()).Msg("Step 2: Positions closed.")
	default:
		cycleLogger.Info().Msg("Step 2: No open positions to close.")
	}

	// --- Step 3: Roll over per the active plan ---
	cycleLogger.Info().Msg("Step 3: Rolling idle reserve over to strategies...")
	if err := e.vault.RollOver(e.plan.Percentages()); err != nil {
		cycleLogger.Error().Err(err).Msg("Cycle aborted: rollover failed.")
		e.finalizeSnapshot(&snapshot, collected, false, fmt.Sprintf("rollover failed: %v", err))
		e.saveSnapshot(snapshot, cycleLogger)
		return err
	}

	// --- Step 4: Capture final state ---
	e.finalizeSnapshot(&snapshot, collected, true, "")
	e.saveSnapshot(snapshot, cycleLogger)

	cycleLogger.Info().
		Str("state", snapshot.StateAfter).
		Str("reserve", snapshot.ReserveAfter.String()).
		Str("totalValue", snapshot.ValueAfter.String()).
		Str("cycleDuration", time.Since(cycleStartTime).String()).
		Msg("--- Allocation cycle completed ---")
	return nil
}

// finalizeSnapshot captures post-cycle vault state into the snapshot.
func (e *Engine) finalizeSnapshot(snapshot *types.CycleSnapshot, collected sdkmath.Int, success bool, message string) {
	snapshot.StateAfter = e.vault.State().String()
	snapshot.ReserveAfter = e.vault.IdleReserve()
	snapshot.TotalShares = e.vault.TotalShares()
	snapshot.Collected = collected
	snapshot.Success = success
	snapshot.Message = message

	valueAfter, err := e.vault.TotalValue()
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to value the vault after cycle, recording pre-cycle value")
		valueAfter = snapshot.ValueBefore
	}
	snapshot.ValueAfter = valueAfter

	values := make(map[string]sdkmath.Int, len(e.vault.Actions()))
	for _, a := range e.vault.Actions() {
		value, err := a.CurrentValue()
		if err != nil {
			e.logger.Error().Err(err).Str("action", a.ID()).Msg("Failed to value strategy for snapshot")
			continue
		}
		values[a.ID()] = value
	}
	snapshot.StrategyValues = values
}

// getCycleNumber increments and returns the persistent cycle counter from database
func (e *Engine) getCycleNumber() int {
	cycleNumber, err := state.IncrementCycleNumber()
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to increment cycle number, using fallback")
		// Fallback to a timestamp-derived counter if database fails
		return int(time.Now().Unix() % 1000000)
	}
	return cycleNumber
}

// getParamsID retrieves the current active vault parameters ID from database
func (e *Engine) getParamsID() *int64 {
	paramsID, err := state.GetActiveVaultParametersID(e.configName)
	if err != nil {
		e.logger.Error().Err(err).Str("configName", e.configName).Msg("Failed to get active vault parameters ID")
		return nil
	}
	return paramsID
}

func (e *Engine) strategyIDs() []string {
	ids := make([]string, len(e.plan.Strategies))
	for i, s := range e.plan.Strategies {
		ids[i] = s.ID
	}
	return ids
}

// saveSnapshot saves the cycle snapshot to database
func (e *Engine) saveSnapshot(snapshot types.CycleSnapshot, cycleLogger zerolog.Logger) {
	snapshotID, err := state.SaveCycleSnapshot(snapshot)
	if err != nil {
		cycleLogger.Error().Err(err).Msg("Failed to save cycle snapshot to database")
		return
	}
	cycleLogger.Info().Int64("snapshot_id", snapshotID).Msg("Cycle snapshot saved successfully")
}
