/*

This file contains the allocation plan loaded from the operator's YAML
plan file: the strategy roster and the target percentage table applied
on each rollover.

*/

package types

import (
	"fmt"
)

// StrategyKind selects which bundled Action implementation backs a plan
// entry.
type StrategyKind string

const (
	StrategyHolding        StrategyKind = "holding"
	StrategySimulatedYield StrategyKind = "simulated_yield"
)

// StrategySpec describes one strategy in the allocation plan.
type StrategySpec struct {
	ID        string       `yaml:"id" json:"id"`
	Kind      StrategyKind `yaml:"kind" json:"kind"`
	YieldBps  int64        `yaml:"yield_bps,omitempty" json:"yield_bps,omitempty"` // simulated_yield only
	TargetBps int64        `yaml:"target_bps" json:"target_bps"`
}

// AllocationPlan is the operator-authored strategy roster with per-cycle
// target allocations in basis points.
type AllocationPlan struct {
	Strategies []StrategySpec `yaml:"strategies" json:"strategies"`
}

// Validate checks the structural rules the vault core will also enforce,
// so a malformed plan is rejected at load time instead of mid-cycle.
func (p *AllocationPlan) Validate() error {
	if len(p.Strategies) == 0 {
		return fmt.Errorf("allocation plan has no strategies")
	}

	seen := make(map[string]struct{}, len(p.Strategies))
	var sum int64
	for i, s := range p.Strategies {
		if s.ID == "" {
			return fmt.Errorf("strategy at index %d has empty id", i)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("duplicate strategy id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		switch s.Kind {
		case StrategyHolding:
			if s.YieldBps != 0 {
				return fmt.Errorf("strategy %q: yield_bps is only valid for %s", s.ID, StrategySimulatedYield)
			}
		case StrategySimulatedYield:
			if s.YieldBps < 0 {
				return fmt.Errorf("strategy %q: negative yield_bps %d", s.ID, s.YieldBps)
			}
		default:
			return fmt.Errorf("strategy %q: unknown kind %q", s.ID, s.Kind)
		}

		if s.TargetBps < 0 {
			return fmt.Errorf("strategy %q: negative target_bps %d", s.ID, s.TargetBps)
		}
		sum += s.TargetBps
	}

	if sum > 10_000 {
		return fmt.Errorf("target allocations sum to %d bps, exceeding the base unit", sum)
	}
	return nil
}

// Percentages returns the target table in plan order.
func (p *AllocationPlan) Percentages() []int64 {
	percentages := make([]int64, len(p.Strategies))
	for i, s := range p.Strategies {
		percentages[i] = s.TargetBps
	}
	return percentages
}

// TargetBpsByID returns the allocation table keyed by strategy id.
func (p *AllocationPlan) TargetBpsByID() map[string]int64 {
	targets := make(map[string]int64, len(p.Strategies))
	for _, s := range p.Strategies {
		targets[s.ID] = s.TargetBps
	}
	return targets
}
