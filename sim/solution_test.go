package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioB(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(3, 2, []int{2, 2}, []int{5, 1}, []int{0, 0})
	require.NoError(t, err)
	return inst
}

func TestNewSolutionFromF_DerivesRemainderAndCost(t *testing.T) {
	inst, err := NewInstance(5, 3, []int{5, 5, 5}, []int{4, 2, 3}, []int{1, 2, 3})
	require.NoError(t, err)

	sol, err := NewSolutionFromF(inst, []int{1, 3, 1})
	require.NoError(t, err)

	assert.Equal(t, []int{4, 1, 0}, sol.R())
	// fares 4+6+3, waiting 1*4 + 2*1 + 3*0
	assert.Equal(t, int64(13+6), sol.Cost())
}

func TestNewSolutionFromR_DerivesDepartures(t *testing.T) {
	inst, err := NewInstance(5, 3, []int{5, 5, 5}, []int{4, 2, 3}, []int{1, 2, 3})
	require.NoError(t, err)

	fromR, err := NewSolutionFromR(inst, []int{4, 1, 0})
	require.NoError(t, err)
	fromF, err := NewSolutionFromF(inst, []int{1, 3, 1})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 1}, fromR.F())
	assert.True(t, fromR.Equal(fromF), "both constructors must agree")
}

func TestNewSolution_InvalidSchedules(t *testing.T) {
	inst := scenarioB(t)
	tests := []struct {
		name string
		f    []int
		r    []int
	}{
		{name: "f too short", f: []int{3}},
		{name: "negative departure", f: []int{-1, 4}},
		{name: "too few departures", f: []int{1, 1}},
		{name: "too many departures", f: []int{2, 2}},
		{name: "r too long", r: []int{1, 0, 0}},
		{name: "remainder not zero", r: []int{2, 1}},
		{name: "remainder grows", r: []int{1, 2}},
		{name: "negative remainder", r: []int{-1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sol *Solution
			var err error
			if tt.f != nil {
				sol, err = NewSolutionFromF(inst, tt.f)
			} else {
				sol, err = NewSolutionFromR(inst, tt.r)
			}
			if !errors.Is(err, ErrInvalidSolution) {
				t.Fatalf("expected ErrInvalidSolution, got %v", err)
			}
			if sol != nil {
				t.Error("expected nil solution on error")
			}
		})
	}
}

func TestSolution_AccessorsReturnCopies(t *testing.T) {
	inst := scenarioB(t)
	sol, err := NewSolutionFromF(inst, []int{1, 2})
	require.NoError(t, err)

	sol.F()[0] = 99
	sol.R()[0] = 99

	assert.Equal(t, []int{1, 2}, sol.F())
	assert.Equal(t, []int{1, 0}, sol.R())
	assert.Same(t, inst, sol.Instance())
}
