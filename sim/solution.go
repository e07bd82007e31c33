package sim

import (
	"fmt"
	"slices"
)

// Solution is a committed day-by-day schedule for an Instance.
// f[i] people depart on day i; r[i] people are still waiting after day i.
// Constructors recompute the cost and reject schedules that break the
// invariants, so every *Solution in circulation is consistent.
type Solution struct {
	inst *Instance
	f    []int
	r    []int
	cost int64
}

// NewSolutionFromF builds a Solution from per-day departures; the
// remainder is derived as r[i] = r[i-1] - f[i] with r[-1] = n.
func NewSolutionFromF(inst *Instance, f []int) (*Solution, error) {
	if len(f) != inst.m {
		return nil, fmt.Errorf("%w: f must have length m=%d, got %d", ErrInvalidSolution, inst.m, len(f))
	}
	r := make([]int, inst.m)
	left := inst.n
	for i, fi := range f {
		left -= fi
		r[i] = left
	}
	return newSolution(inst, slices.Clone(f), r)
}

// NewSolutionFromR builds a Solution from per-day remainders; departures
// are derived as f[i] = r[i-1] - r[i] with r[-1] = n.
func NewSolutionFromR(inst *Instance, r []int) (*Solution, error) {
	if len(r) != inst.m {
		return nil, fmt.Errorf("%w: r must have length m=%d, got %d", ErrInvalidSolution, inst.m, len(r))
	}
	f := make([]int, inst.m)
	prev := inst.n
	for i, ri := range r {
		f[i] = prev - ri
		prev = ri
	}
	return newSolution(inst, f, slices.Clone(r))
}

func newSolution(inst *Instance, f, r []int) (*Solution, error) {
	sum := 0
	prev := inst.n
	var cost int64
	for i := 0; i < inst.m; i++ {
		if f[i] < 0 {
			return nil, fmt.Errorf("%w: f[%d] must be at least 0, got %d", ErrInvalidSolution, i, f[i])
		}
		if r[i] < 0 {
			return nil, fmt.Errorf("%w: r[%d] must be at least 0, got %d", ErrInvalidSolution, i, r[i])
		}
		if prev-f[i] != r[i] {
			return nil, fmt.Errorf("%w: r[%d]=%d does not equal r[%d]-f[%d]=%d",
				ErrInvalidSolution, i, r[i], i-1, i, prev-f[i])
		}
		sum += f[i]
		prev = r[i]
		cost += int64(f[i])*int64(inst.p[i]) + int64(inst.h[i])*int64(r[i])
	}
	if sum != inst.n {
		return nil, fmt.Errorf("%w: sum(f)=%d must equal n=%d", ErrInvalidSolution, sum, inst.n)
	}
	if r[inst.m-1] != 0 {
		return nil, fmt.Errorf("%w: r[m-1] must be 0, got %d", ErrInvalidSolution, r[inst.m-1])
	}
	return &Solution{inst: inst, f: f, r: r, cost: cost}, nil
}

// Instance returns the instance this schedule solves.
func (s *Solution) Instance() *Instance { return s.inst }

// F returns a copy of the per-day departures.
func (s *Solution) F() []int { return slices.Clone(s.f) }

// R returns a copy of the per-day remainders.
func (s *Solution) R() []int { return slices.Clone(s.r) }

// Cost returns sum(f[i]*p[i] + h[i]*r[i]).
func (s *Solution) Cost() int64 { return s.cost }

// Equal compares schedules and costs; the instances must be structurally equal.
func (s *Solution) Equal(other *Solution) bool {
	return s.cost == other.cost &&
		slices.Equal(s.f, other.f) &&
		slices.Equal(s.r, other.r) &&
		s.inst.Equal(other.inst)
}
