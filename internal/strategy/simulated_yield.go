package strategy

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/nativevault/nvm/internal/logger"
	"github.com/nativevault/nvm/internal/vault"
)

// CreditBank extends the transfer primitive with the ability to create
// new units, which the simulated strategy uses to accrue yield.
type CreditBank interface {
	vault.Bank
	Credit(account string, amount sdkmath.Int) error
}

// SimulatedYield is an Action that accrues a fixed per-cycle yield in
// basis points on its held principal. It exists for dry-run and demo
// deployments where no real strategy contract is wired.
type SimulatedYield struct {
	id       string
	bank     CreditBank
	yieldBps int64
	logger   zerolog.Logger

	mu        sync.Mutex
	principal sdkmath.Int
}

// NewSimulatedYield creates a simulated strategy accruing yieldBps per
// allocation cycle.
func NewSimulatedYield(id string, bank CreditBank, yieldBps int64) (*SimulatedYield, error) {
	if id == "" {
		return nil, fmt.Errorf("simulated yield strategy id cannot be empty")
	}
	if bank == nil {
		return nil, fmt.Errorf("simulated yield strategy bank cannot be nil")
	}
	if yieldBps < 0 {
		return nil, fmt.Errorf("simulated yield of %d bps is negative", yieldBps)
	}
	return &SimulatedYield{
		id:        id,
		bank:      bank,
		yieldBps:  yieldBps,
		logger:    logger.GetForComponent("strategy_sim_yield"),
		principal: sdkmath.ZeroInt(),
	}, nil
}

// ID implements vault.Action.
func (s *SimulatedYield) ID() string {
	return s.id
}

// CurrentValue reports the liquid balance plus yield accrued so far on
// the open position.
func (s *SimulatedYield) CurrentValue() (sdkmath.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.bank.BalanceOf(s.id)
	return balance.Add(s.pendingYieldLocked()), nil
}

// AcceptCapital opens the position on the transferred-in capital.
func (s *SimulatedYield) AcceptCapital(amount sdkmath.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("simulated yield %s: invalid capital amount %s", s.id, amount)
	}
	if s.bank.BalanceOf(s.id).LT(amount) {
		return fmt.Errorf("simulated yield %s: capital of %s not funded", s.id, amount)
	}
	s.principal = s.principal.Add(amount)
	return nil
}

// ReleaseCapital credits the accrued yield and returns principal plus
// yield as the realized amount.
func (s *SimulatedYield) ReleaseCapital() (sdkmath.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	yield := s.pendingYieldLocked()
	if yield.IsPositive() {
		if err := s.bank.Credit(s.id, yield); err != nil {
			return sdkmath.ZeroInt(), fmt.Errorf("simulated yield %s: accrual failed: %w", s.id, err)
		}
	}
	realized := s.bank.BalanceOf(s.id)
	s.principal = sdkmath.ZeroInt()
	s.logger.Debug().
		Str("id", s.id).
		Str("yield", yield.String()).
		Str("realized", realized.String()).
		Msg("Position closed with accrued yield")
	return realized, nil
}

func (s *SimulatedYield) pendingYieldLocked() sdkmath.Int {
	if !s.principal.IsPositive() {
		return sdkmath.ZeroInt()
	}
	return s.principal.MulRaw(s.yieldBps).QuoRaw(vault.BaseUnit)
}
