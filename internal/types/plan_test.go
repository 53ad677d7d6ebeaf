package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocationPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    AllocationPlan
		wantErr bool
	}{
		{
			name:    "empty plan",
			plan:    AllocationPlan{},
			wantErr: true,
		},
		{
			name: "valid mixed plan",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: StrategyHolding, TargetBps: 4_000},
				{ID: "farm", Kind: StrategySimulatedYield, YieldBps: 250, TargetBps: 6_000},
			}},
		},
		{
			name: "partial allocation is legal at plan level",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: StrategyHolding, TargetBps: 9_500},
			}},
		},
		{
			name: "empty id",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "", Kind: StrategyHolding, TargetBps: 10_000},
			}},
			wantErr: true,
		},
		{
			name: "duplicate id",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: StrategyHolding, TargetBps: 5_000},
				{ID: "park", Kind: StrategyHolding, TargetBps: 5_000},
			}},
			wantErr: true,
		},
		{
			name: "unknown kind",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: "perpetuals", TargetBps: 10_000},
			}},
			wantErr: true,
		},
		{
			name: "yield on holding",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: StrategyHolding, YieldBps: 100, TargetBps: 10_000},
			}},
			wantErr: true,
		},
		{
			name: "negative yield",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "farm", Kind: StrategySimulatedYield, YieldBps: -1, TargetBps: 10_000},
			}},
			wantErr: true,
		},
		{
			name: "negative target",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: StrategyHolding, TargetBps: -1},
			}},
			wantErr: true,
		},
		{
			name: "targets above base unit",
			plan: AllocationPlan{Strategies: []StrategySpec{
				{ID: "park", Kind: StrategyHolding, TargetBps: 5_001},
				{ID: "farm", Kind: StrategySimulatedYield, TargetBps: 5_000},
			}},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.plan.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllocationPlanTables(t *testing.T) {
	plan := AllocationPlan{Strategies: []StrategySpec{
		{ID: "park", Kind: StrategyHolding, TargetBps: 4_000},
		{ID: "farm", Kind: StrategySimulatedYield, YieldBps: 250, TargetBps: 6_000},
	}}

	assert.Equal(t, []int64{4_000, 6_000}, plan.Percentages())
	assert.Equal(t, map[string]int64{"park": 4_000, "farm": 6_000}, plan.TargetBpsByID())
}
