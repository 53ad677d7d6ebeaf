package treasury

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/nativevault/nvm/internal/logger"
	"github.com/rs/zerolog"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAccount    = errors.New("invalid account")
	ErrInvalidTransfer   = errors.New("invalid transfer")
)

// Treasury is an in-memory custodial implementation of the vault's
// native-asset transfer primitive. Every account is a plain string
// identifier; balances never go negative.
type Treasury struct {
	logger   zerolog.Logger
	mu       sync.RWMutex
	balances map[string]sdkmath.Int
}

// New returns an empty treasury.
func New() *Treasury {
	return &Treasury{
		logger:   logger.GetForComponent("treasury"),
		balances: make(map[string]sdkmath.Int),
	}
}

// Transfer moves amount between accounts. A non-nil error means no value
// moved.
func (t *Treasury) Transfer(from, to string, amount sdkmath.Int) error {
	if from == "" || to == "" {
		return fmt.Errorf("%w: from %q to %q", ErrInvalidAccount, from, to)
	}
	if from == to {
		return fmt.Errorf("%w: self transfer for %q", ErrInvalidTransfer, from)
	}
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: amount %s", ErrInvalidTransfer, amount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	balance := t.balanceLocked(from)
	if balance.LT(amount) {
		return fmt.Errorf("%w: %s has %s, transfer of %s requested",
			ErrInsufficientFunds, from, balance, amount)
	}
	t.balances[from] = balance.Sub(amount)
	t.balances[to] = t.balanceLocked(to).Add(amount)

	t.logger.Debug().
		Str("from", from).
		Str("to", to).
		Str("amount", amount.String()).
		Msg("Transfer executed")
	return nil
}

// BalanceOf reports the liquid balance of an account.
func (t *Treasury) BalanceOf(account string) sdkmath.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balanceLocked(account)
}

// Credit creates new units on an account. Used to fund depositor
// accounts and to accrue simulated strategy yield.
func (t *Treasury) Credit(account string, amount sdkmath.Int) error {
	if account == "" {
		return ErrInvalidAccount
	}
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: credit of %s", ErrInvalidTransfer, amount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[account] = t.balanceLocked(account).Add(amount)
	return nil
}

// Accounts returns all known accounts in lexical order.
func (t *Treasury) Accounts() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	accounts := make([]string, 0, len(t.balances))
	for account := range t.balances {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

func (t *Treasury) balanceLocked(account string) sdkmath.Int {
	if b, ok := t.balances[account]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}
