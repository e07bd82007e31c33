package sim

import (
	"fmt"
	"sort"
)

// SolveOffline computes the cost-minimal Solution with full knowledge of inst.
//
// Days are ranked by effective price t[i] = p[i] + sum(h[0..i-1]) (ties by
// day index) and filled cheapest first. Since h[i] >= 0, moving a person to a
// day with lower effective price never increases cost, so the greedy fill is
// optimal.
//
// Panics if people remain unassigned; a validated Instance makes that unreachable.
func SolveOffline(inst *Instance) *Solution {
	t := inst.EffectivePrices()
	order := make([]int, inst.m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t[order[a]] < t[order[b]]
	})

	f := make([]int, inst.m)
	remaining := inst.n
	for _, day := range order {
		if remaining == 0 {
			break
		}
		f[day] = min(remaining, inst.s[day])
		remaining -= f[day]
	}
	if remaining != 0 {
		panic(fmt.Sprintf("SolveOffline: %d people unassigned for %v", remaining, inst))
	}

	sol, err := NewSolutionFromF(inst, f)
	if err != nil {
		panic(fmt.Sprintf("SolveOffline: %v", err))
	}
	return sol
}
