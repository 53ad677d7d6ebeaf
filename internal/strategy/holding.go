package strategy

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/nativevault/nvm/internal/logger"
	"github.com/nativevault/nvm/internal/vault"
)

// Holding is the simplest Action: it parks accepted capital in its own
// bank account and reports its balance as its value. Suitable as a
// conservative allocation target and as the baseline for dry runs.
type Holding struct {
	id     string
	bank   vault.Bank
	logger zerolog.Logger

	mu        sync.Mutex
	principal sdkmath.Int
}

// NewHolding creates a holding strategy identified by id.
func NewHolding(id string, bank vault.Bank) (*Holding, error) {
	if id == "" {
		return nil, fmt.Errorf("holding strategy id cannot be empty")
	}
	if bank == nil {
		return nil, fmt.Errorf("holding strategy bank cannot be nil")
	}
	return &Holding{
		id:        id,
		bank:      bank,
		logger:    logger.GetForComponent("strategy_holding"),
		principal: sdkmath.ZeroInt(),
	}, nil
}

// ID implements vault.Action.
func (h *Holding) ID() string {
	return h.id
}

// CurrentValue reports the strategy's liquid balance.
func (h *Holding) CurrentValue() (sdkmath.Int, error) {
	return h.bank.BalanceOf(h.id), nil
}

// AcceptCapital records the capital that the vault transferred in. The
// transfer happens before this call, so the balance must already cover
// the amount.
func (h *Holding) AcceptCapital(amount sdkmath.Int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("holding %s: invalid capital amount %s", h.id, amount)
	}
	if h.bank.BalanceOf(h.id).LT(amount) {
		return fmt.Errorf("holding %s: capital of %s not funded", h.id, amount)
	}
	h.principal = h.principal.Add(amount)
	h.logger.Debug().Str("id", h.id).Str("amount", amount.String()).Msg("Capital accepted")
	return nil
}

// ReleaseCapital closes the position. Held capital stays liquid in the
// account the whole time, so release is just reporting it.
func (h *Holding) ReleaseCapital() (sdkmath.Int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	realized := h.bank.BalanceOf(h.id)
	h.principal = sdkmath.ZeroInt()
	h.logger.Debug().Str("id", h.id).Str("realized", realized.String()).Msg("Capital released")
	return realized, nil
}
