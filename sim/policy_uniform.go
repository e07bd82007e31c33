package sim

import "math/rand"

// UniformRandom assigns every person a uniformly random day at the start of
// the run and sends them home on that day. People who find no seat on their
// day roll over to the next one; the last day takes everyone left.
// It is the baseline the other randomized policies are compared against.
type UniformRandom struct {
	rng     *rand.Rand
	inst    *Instance
	planned []int
	carried int
}

// NewUniformRandom creates a UniformRandom policy drawing from rng.
func NewUniformRandom(rng *rand.Rand) *UniformRandom {
	return &UniformRandom{rng: rng}
}

func (u *UniformRandom) Name() string     { return "uniform-random" }
func (u *UniformRandom) Kind() PolicyKind { return Randomized }

// Setup draws a fresh day for each of the n people.
func (u *UniformRandom) Setup(inst *Instance) error {
	u.inst = inst
	u.carried = 0
	u.planned = make([]int, inst.m)
	for k := 0; k < inst.n; k++ {
		u.planned[u.rng.Intn(inst.m)]++
	}
	return nil
}

// Decide implements Policy.
func (u *UniformRandom) Decide(i, remaining, seats, _, _ int) int {
	if isLastDay(u.inst, i) {
		return min(remaining, seats)
	}
	want := u.planned[i] + u.carried
	f := min(want, remaining, seats)
	u.carried = want - f
	return f
}
