package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/strike-sim/strike-sim/sim/trace"
)

// PolicyKind separates policies whose runs are reproducible from those that
// draw random numbers and need repeated trials to estimate their cost.
type PolicyKind int

const (
	Deterministic PolicyKind = iota
	Randomized
)

func (k PolicyKind) String() string {
	switch k {
	case Deterministic:
		return "deterministic"
	case Randomized:
		return "randomized"
	default:
		return fmt.Sprintf("PolicyKind(%d)", int(k))
	}
}

// Policy is an online decision rule. Day i is decided seeing only the data
// of days <= i plus whatever the policy learned from the Instance in Setup
// (e.g. bounds on a bounded instance).
//
// A run goes Setup, Decide(0), ..., Decide(m-1); each day is decided exactly
// once, in order. Setup is called at the start of every run and must reset
// all private state so that runs are independent.
type Policy interface {
	Name() string
	Kind() PolicyKind
	// Setup binds the policy to inst. Returns an error if inst does not meet
	// the policy's assumptions (e.g. missing p_max).
	Setup(inst *Instance) error
	// Decide returns the number of departures on day i, given the number of
	// people still waiting and the day's seats, price and waiting cost.
	// The result must lie in [0, min(remaining, seats)].
	Decide(i, remaining, seats, price, waitCost int) int
}

// Run executes policy on inst day by day and returns the resulting Solution.
func Run(inst *Instance, policy Policy) (*Solution, error) {
	return RunTraced(inst, policy, nil)
}

// RunTraced is Run with every decision appended to tr. tr may be nil.
//
// An out-of-range decision returns ErrBadDecision; people still waiting
// after day m-1 return ErrStranded. Both indicate a defective policy and
// are not retried.
func RunTraced(inst *Instance, policy Policy, tr *trace.RunTrace) (*Solution, error) {
	if err := policy.Setup(inst); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPrecondition, policy.Name(), err)
	}

	f := make([]int, inst.m)
	remaining := inst.n
	for i := 0; i < inst.m; i++ {
		s, p, h := inst.s[i], inst.p[i], inst.h[i]
		fi := policy.Decide(i, remaining, s, p, h)
		if fi < 0 || fi > min(remaining, s) {
			return nil, fmt.Errorf("%w: %s chose %d on day %d with %d waiting and %d seats",
				ErrBadDecision, policy.Name(), fi, i, remaining, s)
		}
		remaining -= fi
		f[i] = fi
		if tr != nil {
			tr.Record(trace.DecisionRecord{
				Day: i, Remaining: remaining + fi, Seats: s, Price: p, WaitCost: h,
				Departed: fi, DayCost: int64(fi)*int64(p) + int64(h)*int64(remaining),
			})
		}
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: %s left %d of %d people on %v",
			ErrStranded, policy.Name(), remaining, inst.n, inst)
	}

	sol, err := NewSolutionFromF(inst, f)
	if err != nil {
		return nil, err
	}
	logrus.Tracef("%s on %v: f=%v cost=%d", policy.Name(), inst, f, sol.cost)
	return sol, nil
}

// isLastDay reports whether i is the final day of inst.
func isLastDay(inst *Instance, i int) bool {
	return i == inst.m-1
}

// requireBounds returns p_max or an error for unbounded instances.
func requireBounds(name string, inst *Instance) (int, error) {
	pMax, _, ok := inst.Bounds()
	if !ok {
		return 0, fmt.Errorf("%s requires an instance with known p_max and h_max", name)
	}
	return pMax, nil
}
