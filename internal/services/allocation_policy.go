package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// AllocationPolicy decides how one income cut is credited to a user's goals.
// Split returns one share per goal, in the same order.
type AllocationPolicy interface {
	Name() string
	Split(cut decimal.Decimal, goals []core.Goal) []decimal.Decimal
}

// DuplicatePolicy credits the full cut to every goal.
type DuplicatePolicy struct{}

func (DuplicatePolicy) Name() string { return "duplicate" }

func (DuplicatePolicy) Split(cut decimal.Decimal, goals []core.Goal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(goals))
	for i := range shares {
		shares[i] = cut
	}
	return shares
}

// ProportionalPolicy splits the cut by each goal's remaining need
// (amount - savedAmount, floored at zero). When no goal needs anything the
// cut is split evenly. Shares are rounded to cents and the rounding
// remainder goes to the last goal, so shares always sum to cut.
type ProportionalPolicy struct{}

func (ProportionalPolicy) Name() string { return "proportional" }

func (ProportionalPolicy) Split(cut decimal.Decimal, goals []core.Goal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(goals))
	if len(goals) == 0 {
		return shares
	}

	weights := make([]decimal.Decimal, len(goals))
	total := decimal.Zero
	for i, g := range goals {
		need := g.Amount.Sub(g.SavedAmount)
		if need.IsNegative() {
			need = decimal.Zero
		}
		weights[i] = need
		total = total.Add(need)
	}
	if total.IsZero() {
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
		total = decimal.NewFromInt(int64(len(goals)))
	}

	assigned := decimal.Zero
	last := len(goals) - 1
	for i := 0; i < last; i++ {
		shares[i] = core.Round2(cut.Mul(weights[i]).Div(total))
		assigned = assigned.Add(shares[i])
	}
	shares[last] = cut.Sub(assigned)
	return shares
}

var allocationPolicies = map[string]AllocationPolicy{
	DuplicatePolicy{}.Name():    DuplicatePolicy{},
	ProportionalPolicy{}.Name(): ProportionalPolicy{},
}

// ParseAllocationPolicy resolves a policy by name; empty means duplicate.
func ParseAllocationPolicy(name string) (AllocationPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DuplicatePolicy{}, nil
	}
	p, ok := allocationPolicies[name]
	if !ok {
		return nil, fmt.Errorf("unknown allocation policy %q", name)
	}
	return p, nil
}
