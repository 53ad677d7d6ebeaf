package strategy

import (
	"fmt"

	"github.com/nativevault/nvm/internal/types"
	"github.com/nativevault/nvm/internal/vault"
)

// FromSpecs constructs the strategy set described by plan entries, in
// plan order.
func FromSpecs(specs []types.StrategySpec, bank CreditBank) ([]vault.Action, error) {
	actions := make([]vault.Action, 0, len(specs))
	for _, spec := range specs {
		switch spec.Kind {
		case types.StrategyHolding:
			holding, err := NewHolding(spec.ID, bank)
			if err != nil {
				return nil, err
			}
			actions = append(actions, holding)
		case types.StrategySimulatedYield:
			yield, err := NewSimulatedYield(spec.ID, bank, spec.YieldBps)
			if err != nil {
				return nil, err
			}
			actions = append(actions, yield)
		default:
			return nil, fmt.Errorf("unknown strategy kind %q for %q", spec.Kind, spec.ID)
		}
	}
	return actions, nil
}
