package vault

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// distribute transfers idleReserve * pct / BaseUnit to each strategy in
// registration order and invokes its capital-accepting entry point. Any
// failure aborts the whole cycle: capital already moved is returned via
// compensating transfers and no vault-internal field mutates. Truncation
// dust and any unallocated remainder stay in the idle reserve.
func (v *Vault) distribute(percentages []int64) error {
	reserve := v.IdleReserve()
	actions := v.registry.Actions()
	// Strategy count may be large relative to the rest of the call, so
	// the loop bound is cached once and not re-read per iteration.
	n := len(actions)

	amounts := make([]sdkmath.Int, n)
	for i := 0; i < n; i++ {
		amounts[i] = reserve.MulRaw(percentages[i]).QuoRaw(BaseUnit)
	}

	var failure error
	funded := 0
	for i := 0; i < n; i++ {
		if amounts[i].IsZero() {
			funded = i + 1
			continue
		}
		if err := v.bank.Transfer(v.account, actions[i].ID(), amounts[i]); err != nil {
			failure = fmt.Errorf("transfer to action %s failed: %w", actions[i].ID(), err)
			break
		}
		funded = i + 1
	}

	if failure == nil {
		for i := 0; i < n; i++ {
			if amounts[i].IsZero() {
				continue
			}
			if err := actions[i].AcceptCapital(amounts[i]); err != nil {
				failure = fmt.Errorf("action %s rejected capital: %w", actions[i].ID(), err)
				break
			}
		}
	}

	if failure != nil {
		v.reclaim(actions, amounts, funded)
		return failure
	}

	allocated := sdkmath.ZeroInt()
	for i := 0; i < n; i++ {
		allocated = allocated.Add(amounts[i])
	}
	v.subIdleReserve(allocated)
	return nil
}

// reclaim pulls already-distributed capital back to the vault account
// after an aborted distribution. Reclaim failures are logged; the idle
// reserve was never debited, so vault accounting stays consistent.
func (v *Vault) reclaim(actions []Action, amounts []sdkmath.Int, funded int) {
	for i := 0; i < funded; i++ {
		if amounts[i].IsZero() {
			continue
		}
		if err := v.bank.Transfer(actions[i].ID(), v.account, amounts[i]); err != nil {
			v.logger.Error().Err(err).
				Str("action", actions[i].ID()).
				Str("amount", amounts[i].String()).
				Msg("Failed to reclaim capital after aborted distribution")
		}
	}
}

// collect invokes every strategy's value-realizing exit entry point and
// pulls the realized amounts back to the vault account. Any strategy
// failing to close aborts the full collection; nothing is committed
// until every strategy has closed and every transfer succeeded.
func (v *Vault) collect() (sdkmath.Int, error) {
	actions := v.registry.Actions()
	n := len(actions)

	amounts := make([]sdkmath.Int, n)
	for i := 0; i < n; i++ {
		amount, err := actions[i].ReleaseCapital()
		if err != nil {
			return sdkmath.ZeroInt(), fmt.Errorf("action %s failed to close: %w", actions[i].ID(), err)
		}
		if amount.IsNil() || amount.IsNegative() {
			return sdkmath.ZeroInt(), fmt.Errorf("%w: action %s released %s",
				ErrInvalidAmount, actions[i].ID(), amount)
		}
		amounts[i] = amount
	}

	for i := 0; i < n; i++ {
		if amounts[i].IsZero() {
			continue
		}
		if err := v.bank.Transfer(actions[i].ID(), v.account, amounts[i]); err != nil {
			// Return what was already pulled so the aborted collection
			// leaves strategy accounts as the releases left them.
			for j := 0; j < i; j++ {
				if amounts[j].IsZero() {
					continue
				}
				if rerr := v.bank.Transfer(v.account, actions[j].ID(), amounts[j]); rerr != nil {
					v.logger.Error().Err(rerr).
						Str("action", actions[j].ID()).
						Msg("Failed to return collected capital after aborted collection")
				}
			}
			return sdkmath.ZeroInt(), fmt.Errorf("collection transfer from action %s failed: %w",
				actions[i].ID(), err)
		}
	}

	total := sdkmath.ZeroInt()
	for i := 0; i < n; i++ {
		total = total.Add(amounts[i])
	}
	return total, nil
}
