package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strike-sim/strike-sim/sim/eval"
	"github.com/strike-sim/strike-sim/sim/store"
	"github.com/strike-sim/strike-sim/sim/workload"
)

func smallSweep() sweepOptions {
	return sweepOptions{
		Seed:      11,
		Policies:  []string{"greedy", "uniform-random"},
		Instances: 6,
		Points:    []workload.SweepPoint{{N: 3, M: 2, PMax: 8}, {N: 5, M: 4, PMax: 32}},
		Trials:    eval.TrialConfig{MaxTrials: 20, MinTrials: 2, Epsilon: 0.01},
		Jobs:      3,
	}
}

func TestRunSweep_OrderedByPointThenPolicy(t *testing.T) {
	// GIVEN two grid points and two policies
	opts := smallSweep()

	// WHEN the sweep runs concurrently
	reports, err := runSweep(context.Background(), opts)
	require.NoError(t, err)

	// THEN reports come back point-major with matching coordinates
	require.Len(t, reports, 4)
	for i, r := range reports {
		point := opts.Points[i/2]
		assert.Equal(t, opts.Policies[i%2], r.Policy)
		require.Len(t, r.Records, opts.Instances)
		for _, rec := range r.Records {
			assert.Equal(t, point.N, rec.N)
			assert.Equal(t, point.M, rec.M)
			assert.Equal(t, point.PMax, rec.PMax)
			assert.GreaterOrEqual(t, rec.Ratio, 1.0-1e-9)
		}
	}
}

func TestRunSweep_PoliciesAtAPointShareInstances(t *testing.T) {
	reports, err := runSweep(context.Background(), smallSweep())
	require.NoError(t, err)

	for p := 0; p < 2; p++ {
		greedy, uniform := reports[2*p], reports[2*p+1]
		for k := range greedy.Records {
			assert.Equal(t, greedy.Records[k].OfflineCost, uniform.Records[k].OfflineCost)
		}
	}
}

func TestRunSweep_SameSeed_Reproducible(t *testing.T) {
	a, err := runSweep(context.Background(), smallSweep())
	require.NoError(t, err)
	b, err := runSweep(context.Background(), smallSweep())
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Ratios(), b[i].Ratios())
	}
}

func TestRunSweep_UnknownPolicy(t *testing.T) {
	opts := smallSweep()
	opts.Policies = []string{"greedy", "clairvoyant"}

	_, err := runSweep(context.Background(), opts)
	assert.ErrorContains(t, err, "clairvoyant")
}

func TestStoreSweep_OneRunPerReport(t *testing.T) {
	opts := smallSweep()
	reports, err := runSweep(context.Background(), opts)
	require.NoError(t, err)
	path := t.TempDir() + "/sweep.db"

	require.NoError(t, storeSweep(context.Background(), path, opts, reports))

	db, err := store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}
