package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/strike-sim/strike-sim/sim"
	"github.com/strike-sim/strike-sim/sim/trace"
	"github.com/strike-sim/strike-sim/sim/workload"
)

func TestSolve_Offline(t *testing.T) {
	inst, err := sim.NewInstance(3, 2, []int{2, 2}, []int{5, 1}, []int{0, 0})
	require.NoError(t, err)

	sol, err := solve(inst, sim.PolicyConfig{Name: offlinePolicy}, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, sol.F())
	assert.Equal(t, int64(7), sol.Cost())
}

func TestSolve_OnlineWithTrace_RecordsEveryDay(t *testing.T) {
	inst, err := sim.NewBoundedInstance(4, 3, []int{4, 4, 4}, []int{9, 2, 7}, []int{1, 1, 1}, 16, 1)
	require.NoError(t, err)
	tr := trace.NewRunTrace("greedy")

	sol, err := solve(inst, sim.PolicyConfig{Name: "greedy"}, 1, tr)
	require.NoError(t, err)

	require.Len(t, tr.Decisions, 3)
	s := trace.Summarize(tr)
	assert.Equal(t, 4, s.TotalDeparted)
	assert.Equal(t, sol.Cost(), s.FareCost+s.WaitingCost)
}

func TestSolve_UnboundedInstance_PreconditionError(t *testing.T) {
	inst, err := sim.NewInstance(2, 2, []int{2, 2}, []int{5, 1}, []int{0, 0})
	require.NoError(t, err)

	_, err = solve(inst, sim.PolicyConfig{Name: "threshold"}, 1, nil)
	assert.ErrorIs(t, err, sim.ErrPrecondition)
}

func TestSolve_UnknownPolicy(t *testing.T) {
	inst, err := sim.NewInstance(1, 1, []int{1}, []int{1}, []int{0})
	require.NoError(t, err)

	_, err = solve(inst, sim.PolicyConfig{Name: "psychic"}, 1, nil)
	assert.Error(t, err)
}

func TestNewSolveTrace(t *testing.T) {
	tr, err := newSolveTrace("greedy", trace.TraceLevelDecisions)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "greedy", tr.Policy)

	tr, err = newSolveTrace(offlinePolicy, trace.TraceLevelNone)
	require.NoError(t, err)
	assert.Nil(t, tr)

	_, err = newSolveTrace(offlinePolicy, trace.TraceLevelDecisions)
	assert.Error(t, err)
}

func TestGenerateThenSolve_EndToEnd(t *testing.T) {
	// GIVEN instance files written by writeInstances
	dir := t.TempDir()
	instances, err := workload.Generate(workload.GeneratorConfig{
		Count: 2, N: workload.Fixed(6), M: workload.Fixed(4),
		Price: workload.IntRange{Min: 1, Max: 20}, Wait: workload.IntRange{Min: 0, Max: 2},
	}, sim.NewPartitionedRNG(sim.NewExperimentKey(5)).ForSubsystem(sim.SubsystemWorkload))
	require.NoError(t, err)
	paths, err := writeInstances(filepath.Join(dir, "inst"), instances)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "instance_0000.txt", filepath.Base(paths[0]))

	// WHEN the solve command runs on the first file
	out := filepath.Join(dir, "schedule.txt")
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"solve", paths[0], "--policy", "greedy", "--trace", "decisions", "--out", out, "--log", "error"})
	require.NoError(t, rootCmd.Execute())

	// THEN the schedule has one "f, r" line per day ending with nobody left
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[3], ", 0"))
}
