package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strike-sim/strike-sim/sim/trace"
)

// fixedPolicy departs a fixed number each day, for exercising the run loop.
type fixedPolicy struct {
	perDay   int
	setupErr error
	setups   int
}

func (p *fixedPolicy) Name() string     { return "fixed" }
func (p *fixedPolicy) Kind() PolicyKind { return Deterministic }
func (p *fixedPolicy) Setup(*Instance) error {
	p.setups++
	return p.setupErr
}
func (p *fixedPolicy) Decide(_, _, _, _, _ int) int { return p.perDay }

func boundedInstance(t *testing.T, n int, p, h []int, pMax, hMax int) *Instance {
	t.Helper()
	s := make([]int, len(p))
	for i := range s {
		s[i] = n
	}
	inst, err := NewBoundedInstance(n, len(p), s, p, h, pMax, hMax)
	require.NoError(t, err)
	return inst
}

func allPolicies(seed int64) []Policy {
	rng := rand.New(rand.NewSource(seed))
	return []Policy{
		NewThreshold(0),
		NewGreedy(),
		NewGreedyExhaustive(),
		NewProximity(DefaultProximityAlpha, DefaultProximityBeta, InterpolationQuadratic, rng),
		NewUniformRandom(rng),
	}
}

func TestRun_FixedPolicy_BuildsSolution(t *testing.T) {
	inst, err := NewInstance(4, 2, []int{2, 2}, []int{3, 1}, []int{1, 1})
	require.NoError(t, err)

	sol, err := Run(inst, &fixedPolicy{perDay: 2})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, sol.F())
	assert.Equal(t, []int{2, 0}, sol.R())
	assert.Equal(t, int64(2*3+1*2+2*1), sol.Cost())
}

func TestRun_DecisionAboveSeats_ReturnsErrBadDecision(t *testing.T) {
	inst, err := NewInstance(4, 2, []int{2, 2}, []int{3, 1}, []int{1, 1})
	require.NoError(t, err)

	_, err = Run(inst, &fixedPolicy{perDay: 3})
	assert.ErrorIs(t, err, ErrBadDecision)
}

func TestRun_NegativeDecision_ReturnsErrBadDecision(t *testing.T) {
	inst, err := NewInstance(1, 1, []int{1}, []int{1}, []int{0})
	require.NoError(t, err)

	_, err = Run(inst, &fixedPolicy{perDay: -1})
	assert.ErrorIs(t, err, ErrBadDecision)
}

func TestRun_PeopleLeftBehind_ReturnsErrStranded(t *testing.T) {
	// GIVEN a policy that never sends anyone
	inst, err := NewInstance(3, 2, []int{3, 3}, []int{1, 1}, []int{0, 0})
	require.NoError(t, err)

	// WHEN run
	sol, err := Run(inst, &fixedPolicy{perDay: 0})

	// THEN the run fails with ErrStranded and no solution
	assert.ErrorIs(t, err, ErrStranded)
	assert.Nil(t, sol)
}

func TestRun_SetupFailure_ReturnsErrPrecondition(t *testing.T) {
	inst, err := NewInstance(1, 1, []int{1}, []int{1}, []int{0})
	require.NoError(t, err)

	_, err = Run(inst, &fixedPolicy{setupErr: errors.New("boom")})
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestRun_CallsSetupEveryRun(t *testing.T) {
	inst, err := NewInstance(1, 1, []int{1}, []int{1}, []int{0})
	require.NoError(t, err)
	p := &fixedPolicy{perDay: 1}

	for i := 0; i < 3; i++ {
		_, err := Run(inst, p)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, p.setups)
}

func TestRun_BoundedPoliciesRejectUnboundedInstance(t *testing.T) {
	inst, err := NewInstance(2, 2, []int{2, 2}, []int{1, 1}, []int{0, 0})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))

	for _, p := range []Policy{NewThreshold(0.5), NewGreedy(), NewGreedyExhaustive(), NewProximity(0.5, 0.5, "", rng)} {
		t.Run(p.Name(), func(t *testing.T) {
			_, err := Run(inst, p)
			assert.ErrorIs(t, err, ErrPrecondition)
		})
	}
}

func TestRun_SingleDay_EveryPolicyDepartsEveryone(t *testing.T) {
	// GIVEN n=5, m=1, s=[5], p=[10]
	inst, err := NewBoundedInstance(5, 1, []int{5}, []int{10}, []int{0}, 10, 0)
	require.NoError(t, err)

	for _, p := range allPolicies(3) {
		t.Run(p.Name(), func(t *testing.T) {
			sol, err := Run(inst, p)
			require.NoError(t, err)
			assert.Equal(t, []int{5}, sol.F())
			assert.Equal(t, []int{0}, sol.R())
			assert.Equal(t, int64(50), sol.Cost())
		})
	}
}

func TestRun_OnlineNeverBeatsOffline(t *testing.T) {
	// GIVEN random bounded instances with s[i] = n
	gen := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		n := 1 + gen.Intn(20)
		m := 1 + gen.Intn(8)
		pMax := 1 + gen.Intn(64)
		p := make([]int, m)
		h := make([]int, m)
		for i := range p {
			p[i] = 1 + gen.Intn(pMax)
			h[i] = gen.Intn(3)
		}
		inst := boundedInstance(t, n, p, h, pMax, 2)
		opt := SolveOffline(inst).Cost()

		// WHEN each policy runs
		for _, policy := range allPolicies(int64(trial)) {
			sol, err := Run(inst, policy)
			require.NoError(t, err, "%s on %v", policy.Name(), inst)

			// THEN its cost is at least the offline optimum
			if sol.Cost() < opt {
				t.Fatalf("%s cost %d below offline optimum %d on %v", policy.Name(), sol.Cost(), opt, inst)
			}
		}
	}
}

func TestRun_DeterministicPoliciesAreReproducible(t *testing.T) {
	inst := boundedInstance(t, 12, []int{40, 17, 3, 25, 60, 8}, []int{1, 0, 2, 1, 0, 1}, 64, 2)

	makers := []func() Policy{
		func() Policy { return NewThreshold(0.3) },
		func() Policy { return NewGreedy() },
		func() Policy { return NewGreedyExhaustive() },
	}
	for _, mk := range makers {
		a, err := Run(inst, mk())
		require.NoError(t, err)
		b, err := Run(inst, mk())
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "%s produced different solutions", mk().Name())
	}
}

func TestRunTraced_RecordsEveryDay(t *testing.T) {
	inst := boundedInstance(t, 6, []int{9, 2, 5}, []int{1, 1, 1}, 10, 1)
	tr := trace.NewRunTrace("threshold")

	sol, err := RunTraced(inst, NewThreshold(0.3), tr)
	require.NoError(t, err)

	require.Len(t, tr.Decisions, 3)
	summary := trace.Summarize(tr)
	assert.Equal(t, inst.N(), summary.TotalDeparted)
	assert.Equal(t, sol.Cost(), summary.FareCost+summary.WaitingCost)
	for i, d := range tr.Decisions {
		assert.Equal(t, sol.F()[i], d.Departed)
		assert.Equal(t, sol.R()[i], d.Waiting())
	}
}

func TestPolicyKind_String(t *testing.T) {
	assert.Equal(t, "deterministic", Deterministic.String())
	assert.Equal(t, "randomized", Randomized.String())
}
