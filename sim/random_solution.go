package sim

import "fmt"

// RandomSolution aggregates the Solutions of repeated randomized runs on the
// same Instance: per-day departure and waiting statistics plus total cost.
// It is owned by the goroutine driving the trials.
type RandomSolution struct {
	inst       *Instance
	departures []RunningStat
	waiting    []RunningStat
	cost       RunningStat

	// Converged is set by the trial driver when the stopping rule fired
	// before the trial budget ran out.
	Converged bool
}

// NewRandomSolution returns an empty accumulator for inst.
func NewRandomSolution(inst *Instance) *RandomSolution {
	return &RandomSolution{
		inst:       inst,
		departures: make([]RunningStat, inst.m),
		waiting:    make([]RunningStat, inst.m),
	}
}

// Add records one trial and returns the change in the running mean cost.
func (rs *RandomSolution) Add(sol *Solution) (float64, error) {
	if len(sol.f) != len(rs.departures) || sol.inst.n != rs.inst.n {
		return 0, fmt.Errorf("solution for %v cannot be added to accumulator for %v", sol.inst, rs.inst)
	}
	for i := range sol.f {
		rs.departures[i].Add(float64(sol.f[i]))
		rs.waiting[i].Add(float64(sol.r[i]))
	}
	return rs.cost.Add(float64(sol.cost)), nil
}

// Merge folds another accumulator for the same instance into rs.
func (rs *RandomSolution) Merge(other *RandomSolution) error {
	if !rs.inst.Equal(other.inst) {
		return fmt.Errorf("cannot merge accumulators of different instances %v and %v", rs.inst, other.inst)
	}
	for i := range rs.departures {
		rs.departures[i].Merge(other.departures[i])
		rs.waiting[i].Merge(other.waiting[i])
	}
	rs.cost.Merge(other.cost)
	return nil
}

// Instance returns the instance the trials ran on.
func (rs *RandomSolution) Instance() *Instance { return rs.inst }

// Trials returns the number of recorded runs.
func (rs *RandomSolution) Trials() int { return rs.cost.Count() }

// Cost returns the statistics of total cost across trials.
func (rs *RandomSolution) Cost() RunningStat { return rs.cost }

// Departures returns the statistics of f[i] across trials.
func (rs *RandomSolution) Departures(i int) RunningStat { return rs.departures[i] }

// Waiting returns the statistics of r[i] across trials.
func (rs *RandomSolution) Waiting(i int) RunningStat { return rs.waiting[i] }

// MeanDepartures returns the mean of f[i] for every day.
func (rs *RandomSolution) MeanDepartures() []float64 {
	out := make([]float64, len(rs.departures))
	for i, st := range rs.departures {
		out[i] = st.Mean()
	}
	return out
}

// MeanWaiting returns the mean of r[i] for every day.
func (rs *RandomSolution) MeanWaiting() []float64 {
	out := make([]float64, len(rs.waiting))
	for i, st := range rs.waiting {
		out[i] = st.Mean()
	}
	return out
}
