package vault

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/nativevault/nvm/internal/logger"
)

// State is the vault lifecycle state. Exactly one is active at a time.
type State uint8

const (
	// StateUnlocked is the initial state: deposits and withdrawals are
	// open and the idle reserve holds all unallocated capital.
	StateUnlocked State = iota
	// StateLocked means capital is distributed across strategies.
	StateLocked
	// StateEmergency halts every mutating operation until resumed.
	StateEmergency
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnlocked:
		return "unlocked"
	case StateLocked:
		return "locked"
	case StateEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Parameters are the operator-tunable settings of a vault.
type Parameters struct {
	// VaultCap is the maximum total value accepted via deposits. Zero
	// means uncapped.
	VaultCap sdkmath.Int
	// WithdrawalReserveBps is the share of total value, in basis points,
	// that a rollover may leave unallocated for withdrawals. Must be
	// strictly below half of BaseUnit.
	WithdrawalReserveBps int64
	// WithdrawFeeBps is the protocol fee taken from gross withdrawals.
	WithdrawFeeBps int64
	// FeeRecipient is the bank account credited with withdrawal fees.
	FeeRecipient string
}

// Config holds the dependencies for creating a new Vault.
type Config struct {
	Bank       Bank
	Account    string // the vault's own bank account
	Parameters Parameters
}

// Vault is the pooled-capital vault core: share accounting, the
// locked/unlocked/emergency lifecycle, and the capital-allocation
// protocol. All mutating operations hold a non-reentrant operation lock
// for their entire duration; read-only valuation is not gated by it.
type Vault struct {
	logger  zerolog.Logger
	bank    Bank
	account string

	registry ActionRegistry

	// opMu serializes mutating operations end to end.
	opMu sync.Mutex
	// stateMu guards the fields below for ungated reads. It is held only
	// for field access, never across external calls.
	stateMu              sync.RWMutex
	state                State
	idleReserve          sdkmath.Int
	ledger               *ShareLedger
	vaultCap             sdkmath.Int
	withdrawalReserveBps int64
	withdrawFeeBps       int64
	feeRecipient         string
}

// New creates a Vault in the Unlocked state with an empty ledger.
func New(cfg Config) (*Vault, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("vault configuration validation failed: %w", err)
	}

	vaultCap := cfg.Parameters.VaultCap
	if vaultCap.IsNil() {
		vaultCap = sdkmath.ZeroInt()
	}

	return &Vault{
		logger:               logger.GetForComponent("vault_core"),
		bank:                 cfg.Bank,
		account:              cfg.Account,
		state:                StateUnlocked,
		idleReserve:          sdkmath.ZeroInt(),
		ledger:               NewShareLedger(),
		vaultCap:             vaultCap,
		withdrawalReserveBps: cfg.Parameters.WithdrawalReserveBps,
		withdrawFeeBps:       cfg.Parameters.WithdrawFeeBps,
		feeRecipient:         cfg.Parameters.FeeRecipient,
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Bank == nil {
		return fmt.Errorf("bank cannot be nil")
	}
	if cfg.Account == "" {
		return fmt.Errorf("vault account cannot be empty")
	}
	if cfg.Parameters.FeeRecipient == "" {
		return fmt.Errorf("fee recipient cannot be empty")
	}
	if cfg.Parameters.FeeRecipient == cfg.Account {
		return fmt.Errorf("fee recipient cannot be the vault account")
	}
	if cfg.Parameters.WithdrawFeeBps < 0 || cfg.Parameters.WithdrawFeeBps >= BaseUnit {
		return fmt.Errorf("withdraw fee of %d bps is out of range", cfg.Parameters.WithdrawFeeBps)
	}
	if cfg.Parameters.WithdrawalReserveBps < 0 || cfg.Parameters.WithdrawalReserveBps >= BaseUnit/2 {
		return ErrInvalidReserveRatio
	}
	if !cfg.Parameters.VaultCap.IsNil() && cfg.Parameters.VaultCap.IsNegative() {
		return fmt.Errorf("%w: negative vault cap", ErrInvalidAmount)
	}
	return nil
}

// InitializeActions fixes the strategy list. It can succeed exactly once
// for the lifetime of the vault.
func (v *Vault) InitializeActions(actions []Action) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if err := v.registry.Initialize(actions, v.account); err != nil {
		return err
	}
	v.logger.Info().Int("actions", v.registry.Len()).Msg("Action registry initialized")
	return nil
}

// Deposit mints shares against a native-asset deposit. Total value is
// read before crediting the deposit, so the share price cannot observe
// the incoming amount. There is no fee on deposit: value after equals
// value before plus amount, exactly.
func (v *Vault) Deposit(depositor string, amount sdkmath.Int) (sdkmath.Int, error) {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if v.State() == StateEmergency {
		return sdkmath.ZeroInt(), ErrEmergencyState
	}
	if err := v.registry.requireInitialized(); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if depositor == "" {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: empty depositor", ErrInvalidAmount)
	}
	if amount.IsNil() || amount.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	if amount.IsZero() {
		return sdkmath.ZeroInt(), ErrEmptyDeposit
	}

	totalValue, err := v.TotalValue()
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if v.VaultCap().IsPositive() && totalValue.Add(amount).GT(v.VaultCap()) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: value %s + deposit %s over cap %s",
			ErrExceedVaultCap, totalValue, amount, v.VaultCap())
	}

	// Shares outstanding against zero value means the share price is
	// undefined; minting here would hand the depositor claims on nothing.
	if totalValue.IsZero() && v.TotalShares().IsPositive() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %s shares", ErrVaultValueZero, v.TotalShares())
	}

	shares := SharesForValue(amount, totalValue, v.TotalShares())

	if err := v.bank.Transfer(depositor, v.account, amount); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("deposit transfer failed: %w", err)
	}
	if err := v.mintShares(depositor, shares); err != nil {
		// Undo the funding transfer; the mint only rejects malformed
		// amounts, which cannot happen past the guards above.
		if rerr := v.bank.Transfer(v.account, depositor, amount); rerr != nil {
			v.logger.Error().Err(rerr).Str("depositor", depositor).Msg("Failed to refund rejected deposit")
		}
		return sdkmath.ZeroInt(), err
	}
	v.addIdleReserve(amount)

	v.logger.Info().
		Str("depositor", depositor).
		Str("amount", amount.String()).
		Str("shares", shares.String()).
		Msg("Deposit accepted")
	return shares, nil
}

// Withdraw burns shares and pays out their value from the idle reserve,
// net of the protocol fee. The share burn and both transfers commit as
// one unit: any transfer failure restores the burned shares and reverses
// the fee transfer.
func (v *Vault) Withdraw(depositor string, shares, minAmountOut sdkmath.Int) (sdkmath.Int, error) {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if v.State() == StateEmergency {
		return sdkmath.ZeroInt(), ErrEmergencyState
	}
	if err := v.registry.requireInitialized(); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if shares.IsNil() || !shares.IsPositive() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: withdrawal of %s shares", ErrInvalidAmount, shares)
	}
	if minAmountOut.IsNil() {
		minAmountOut = sdkmath.ZeroInt()
	}

	totalValue, err := v.TotalValue()
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	gross := ValueForShares(shares, totalValue, v.TotalShares())
	// Strict inequality: a withdrawal that would fully drain the idle
	// reserve is rejected rather than partially served.
	if gross.GTE(v.IdleReserve()) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: value %s against reserve %s",
			ErrReachVaultBalance, gross, v.IdleReserve())
	}

	fee := gross.MulRaw(v.withdrawFeeBps).QuoRaw(BaseUnit)
	net := gross.Sub(fee)
	if net.LT(minAmountOut) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: net %s below minimum %s",
			ErrSlippageExceeded, net, minAmountOut)
	}

	if err := v.burnShares(depositor, shares); err != nil {
		return sdkmath.ZeroInt(), err
	}

	if fee.IsPositive() {
		if err := v.bank.Transfer(v.account, v.feeRecipient, fee); err != nil {
			v.restoreShares(depositor, shares)
			return sdkmath.ZeroInt(), fmt.Errorf("%w: %w", ErrFeeTransferFailed, err)
		}
	}
	if err := v.bank.Transfer(v.account, depositor, net); err != nil {
		if fee.IsPositive() {
			if rerr := v.bank.Transfer(v.feeRecipient, v.account, fee); rerr != nil {
				v.logger.Error().Err(rerr).Msg("Failed to reverse fee transfer")
			}
		}
		v.restoreShares(depositor, shares)
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %w", ErrFailedUserWithdrawal, err)
	}
	v.subIdleReserve(gross)

	v.logger.Info().
		Str("depositor", depositor).
		Str("shares", shares.String()).
		Str("gross", gross.String()).
		Str("fee", fee.String()).
		Str("net", net.String()).
		Msg("Withdrawal paid out")
	return net, nil
}

func (v *Vault) restoreShares(depositor string, shares sdkmath.Int) {
	if err := v.mintShares(depositor, shares); err != nil {
		v.logger.Error().Err(err).Str("depositor", depositor).Msg("Failed to restore burned shares")
	}
}

// mintShares and burnShares mutate the ledger under the write lock so
// ungated balance reads stay consistent.
func (v *Vault) mintShares(depositor string, shares sdkmath.Int) error {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	return v.ledger.Mint(depositor, shares)
}

func (v *Vault) burnShares(depositor string, shares sdkmath.Int) error {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	return v.ledger.Burn(depositor, shares)
}

// RollOver validates the percentage table, distributes the idle reserve
// across strategies and locks the vault. The configured withdrawal
// reserve ratio bounds how much a table may leave unallocated; with a
// zero ratio the table must sum to exactly BaseUnit.
func (v *Vault) RollOver(percentages []int64) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	switch v.State() {
	case StateEmergency:
		return ErrEmergencyState
	case StateLocked:
		return ErrVaultLocked
	}
	if err := v.registry.requireInitialized(); err != nil {
		return err
	}

	if len(percentages) != v.registry.Len() {
		return fmt.Errorf("%w: %d percentages for %d actions",
			ErrInconsistentAllocPercent, len(percentages), v.registry.Len())
	}
	var sum int64
	for _, pct := range percentages {
		if pct < 0 {
			return fmt.Errorf("%w: negative percentage %d", ErrInconsistentAllocPercent, pct)
		}
		sum += pct
	}
	if sum > BaseUnit {
		return fmt.Errorf("%w: sum %d", ErrSumExceedsBase, sum)
	}
	reserveBps := v.WithdrawalReserve()
	if reserveBps == 0 && sum != BaseUnit {
		return fmt.Errorf("%w: sum %d", ErrSumNotBase, sum)
	}
	if reserveBps > 0 && BaseUnit-sum > reserveBps {
		return fmt.Errorf("%w: sum %d leaves more than the %d bps reserve",
			ErrSumNotBase, sum, reserveBps)
	}

	if err := v.distribute(percentages); err != nil {
		return err
	}
	v.setState(StateLocked)
	v.logger.Info().Int64("allocatedBps", sum).Msg("Vault locked")
	return nil
}

// ClosePositions collects capital back from every strategy and unlocks
// the vault. Any strategy failing to close aborts the full collection
// with state and reserve unchanged.
func (v *Vault) ClosePositions() error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	switch v.State() {
	case StateEmergency:
		return ErrEmergencyState
	case StateUnlocked:
		return ErrVaultUnlocked
	}
	if err := v.registry.requireInitialized(); err != nil {
		return err
	}

	collected, err := v.collect()
	if err != nil {
		return err
	}
	v.addIdleReserve(collected)
	v.setState(StateUnlocked)
	v.logger.Info().Str("collected", collected.String()).Msg("Vault unlocked")
	return nil
}

// EmergencyPause halts the vault from any non-emergency state.
func (v *Vault) EmergencyPause() error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if v.State() == StateEmergency {
		return ErrInEmergency
	}
	v.setState(StateEmergency)
	v.logger.Warn().Msg("Vault paused")
	return nil
}

// ResumeFromPause returns the vault from Emergency to Unlocked.
func (v *Vault) ResumeFromPause() error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if v.State() != StateEmergency {
		return ErrNotInEmergency
	}
	v.setState(StateUnlocked)
	v.logger.Warn().Msg("Vault resumed")
	return nil
}

// SetVaultCap updates the maximum total value accepted via deposits.
// Zero removes the cap. The cap is checked at deposit time only, so
// lowering it never affects existing holdings.
func (v *Vault) SetVaultCap(vaultCap sdkmath.Int) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if vaultCap.IsNil() || vaultCap.IsNegative() {
		return fmt.Errorf("%w: vault cap %s", ErrInvalidAmount, vaultCap)
	}
	v.stateMu.Lock()
	v.vaultCap = vaultCap
	v.stateMu.Unlock()
	v.logger.Info().Str("cap", vaultCap.String()).Msg("Vault cap updated")
	return nil
}

// SetWithdrawalReserve updates the withdrawal reserve ratio. The ratio
// is an upper bound strictly below half of BaseUnit.
func (v *Vault) SetWithdrawalReserve(bps int64) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if bps < 0 || bps >= BaseUnit/2 {
		return fmt.Errorf("%w: %d bps", ErrInvalidReserveRatio, bps)
	}
	v.stateMu.Lock()
	v.withdrawalReserveBps = bps
	v.stateMu.Unlock()
	v.logger.Info().Int64("bps", bps).Msg("Withdrawal reserve updated")
	return nil
}

// SetFeeRecipient updates the account credited with withdrawal fees.
func (v *Vault) SetFeeRecipient(account string) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	if account == "" || account == v.account {
		return fmt.Errorf("%w: fee recipient %q", ErrInvalidAmount, account)
	}
	v.stateMu.Lock()
	v.feeRecipient = account
	v.stateMu.Unlock()
	v.logger.Info().Str("account", account).Msg("Fee recipient updated")
	return nil
}

// State returns the current lifecycle state.
func (v *Vault) State() State {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.state
}

func (v *Vault) setState(s State) {
	v.stateMu.Lock()
	v.state = s
	v.stateMu.Unlock()
}

// IdleReserve returns the native-asset balance held directly by the
// vault, not yet allocated to any strategy.
func (v *Vault) IdleReserve() sdkmath.Int {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.idleReserve
}

func (v *Vault) addIdleReserve(amount sdkmath.Int) {
	v.stateMu.Lock()
	v.idleReserve = v.idleReserve.Add(amount)
	v.stateMu.Unlock()
}

func (v *Vault) subIdleReserve(amount sdkmath.Int) {
	v.stateMu.Lock()
	v.idleReserve = v.idleReserve.Sub(amount)
	v.stateMu.Unlock()
}

// VaultCap returns the configured deposit cap; zero means uncapped.
func (v *Vault) VaultCap() sdkmath.Int {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.vaultCap
}

// WithdrawalReserve returns the withdrawal reserve ratio in basis points.
func (v *Vault) WithdrawalReserve() int64 {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.withdrawalReserveBps
}

// WithdrawFee returns the withdrawal fee in basis points.
func (v *Vault) WithdrawFee() int64 {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.withdrawFeeBps
}

// FeeRecipient returns the account credited with withdrawal fees.
func (v *Vault) FeeRecipient() string {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.feeRecipient
}

// Account returns the vault's own bank account.
func (v *Vault) Account() string {
	return v.account
}

// ShareBalance returns the share balance of a depositor.
func (v *Vault) ShareBalance(depositor string) sdkmath.Int {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.ledger.BalanceOf(depositor)
}

// TotalShares returns the total shares outstanding.
func (v *Vault) TotalShares() sdkmath.Int {
	v.stateMu.RLock()
	defer v.stateMu.RUnlock()
	return v.ledger.TotalShares()
}

// Actions returns the registered strategies in registration order.
func (v *Vault) Actions() []Action {
	return v.registry.Actions()
}
