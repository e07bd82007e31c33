package sim

import (
	"errors"
	"fmt"
	"slices"
)

// Error classes returned by the data model and the online run loop.
// Callers match them with errors.Is; messages carry the offending field.
var (
	ErrInvalidInstance = errors.New("invalid instance")
	ErrInvalidSolution = errors.New("invalid solution")
	ErrPrecondition    = errors.New("policy precondition violated")
	ErrBadDecision     = errors.New("decision out of range")
	ErrStranded        = errors.New("people left after final day")
)

// Instance is one evacuation problem: n people, m days, and per-day seats,
// ticket price and waiting cost. Instances are immutable once constructed;
// accessors hand out copies.
//
// A bounded instance additionally carries pMax and hMax, the global price
// and waiting-cost ranges that some online policies are allowed to know in
// advance.
type Instance struct {
	n int
	m int
	s []int
	p []int
	h []int

	bounded bool
	pMax    int
	hMax    int
}

// NewInstance validates and constructs an unbounded Instance.
// The input slices are copied.
func NewInstance(n, m int, s, p, h []int) (*Instance, error) {
	inst := &Instance{n: n, m: m, s: slices.Clone(s), p: slices.Clone(p), h: slices.Clone(h)}
	if err := inst.validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// NewBoundedInstance validates and constructs an Instance that exposes
// p_max and h_max to online policies.
func NewBoundedInstance(n, m int, s, p, h []int, pMax, hMax int) (*Instance, error) {
	inst := &Instance{
		n: n, m: m,
		s: slices.Clone(s), p: slices.Clone(p), h: slices.Clone(h),
		bounded: true, pMax: pMax, hMax: hMax,
	}
	if err := inst.validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) validate() error {
	if inst.n < 1 {
		return fmt.Errorf("%w: n must be at least 1, got %d", ErrInvalidInstance, inst.n)
	}
	if inst.m < 1 {
		return fmt.Errorf("%w: m must be at least 1, got %d", ErrInvalidInstance, inst.m)
	}
	if len(inst.s) != inst.m || len(inst.p) != inst.m || len(inst.h) != inst.m {
		return fmt.Errorf("%w: s, p, h must have length m=%d, got %d, %d, %d",
			ErrInvalidInstance, inst.m, len(inst.s), len(inst.p), len(inst.h))
	}
	total := 0
	for i := 0; i < inst.m; i++ {
		if inst.s[i] < 1 {
			return fmt.Errorf("%w: s[%d] must be at least 1, got %d", ErrInvalidInstance, i, inst.s[i])
		}
		if inst.p[i] < 1 {
			return fmt.Errorf("%w: p[%d] must be at least 1, got %d", ErrInvalidInstance, i, inst.p[i])
		}
		if inst.h[i] < 0 {
			return fmt.Errorf("%w: h[%d] must be at least 0, got %d", ErrInvalidInstance, i, inst.h[i])
		}
		total += inst.s[i]
	}
	if total < inst.n {
		return fmt.Errorf("%w: sum(s)=%d must be at least n=%d", ErrInvalidInstance, total, inst.n)
	}
	if !inst.bounded {
		return nil
	}
	if inst.pMax < 1 {
		return fmt.Errorf("%w: p_max must be at least 1, got %d", ErrInvalidInstance, inst.pMax)
	}
	if inst.hMax < 0 {
		return fmt.Errorf("%w: h_max must be at least 0, got %d", ErrInvalidInstance, inst.hMax)
	}
	for i := 0; i < inst.m; i++ {
		if inst.p[i] > inst.pMax {
			return fmt.Errorf("%w: p[%d]=%d exceeds p_max=%d", ErrInvalidInstance, i, inst.p[i], inst.pMax)
		}
		if inst.h[i] > inst.hMax {
			return fmt.Errorf("%w: h[%d]=%d exceeds h_max=%d", ErrInvalidInstance, i, inst.h[i], inst.hMax)
		}
	}
	return nil
}

// N returns the number of people to relocate.
func (inst *Instance) N() int { return inst.n }

// M returns the number of days.
func (inst *Instance) M() int { return inst.m }

// Seats returns a copy of the per-day seat counts.
func (inst *Instance) Seats() []int { return slices.Clone(inst.s) }

// Prices returns a copy of the per-day ticket prices.
func (inst *Instance) Prices() []int { return slices.Clone(inst.p) }

// WaitCosts returns a copy of the per-day waiting costs.
func (inst *Instance) WaitCosts() []int { return slices.Clone(inst.h) }

// Day returns seats, price and waiting cost of day i (0-based).
func (inst *Instance) Day(i int) (seats, price, waitCost int) {
	return inst.s[i], inst.p[i], inst.h[i]
}

// Bounded reports whether the instance exposes p_max and h_max.
func (inst *Instance) Bounded() bool { return inst.bounded }

// Bounds returns p_max and h_max. ok is false for unbounded instances.
func (inst *Instance) Bounds() (pMax, hMax int, ok bool) {
	return inst.pMax, inst.hMax, inst.bounded
}

// TotalSeats returns sum(s).
func (inst *Instance) TotalSeats() int {
	total := 0
	for _, s := range inst.s {
		total += s
	}
	return total
}

// EffectivePrices returns t[i] = p[i] + sum(h[0..i-1]): the per-person cost
// of departing on day i including the waiting already paid to get there.
func (inst *Instance) EffectivePrices() []int64 {
	t := make([]int64, inst.m)
	var waited int64
	for i := 0; i < inst.m; i++ {
		t[i] = int64(inst.p[i]) + waited
		waited += int64(inst.h[i])
	}
	return t
}

// Equal reports structural equality, bounds included.
func (inst *Instance) Equal(other *Instance) bool {
	if inst == nil || other == nil {
		return inst == other
	}
	return inst.n == other.n && inst.m == other.m &&
		slices.Equal(inst.s, other.s) &&
		slices.Equal(inst.p, other.p) &&
		slices.Equal(inst.h, other.h) &&
		inst.bounded == other.bounded &&
		inst.pMax == other.pMax && inst.hMax == other.hMax
}

// String renders a compact description for log lines.
func (inst *Instance) String() string {
	if inst.bounded {
		return fmt.Sprintf("Instance{n=%d, m=%d, p_max=%d, h_max=%d}", inst.n, inst.m, inst.pMax, inst.hMax)
	}
	return fmt.Sprintf("Instance{n=%d, m=%d}", inst.n, inst.m)
}
