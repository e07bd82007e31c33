package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestExperimentKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewExperimentKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewExperimentKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two generators from the same key
	rng1 := NewPartitionedRNG(NewExperimentKey(42))
	rng2 := NewPartitionedRNG(NewExperimentKey(42))

	// WHEN drawing from the policy subsystem of each
	// THEN the sequences are identical
	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemPolicy).Float64()
		v2 := rng2.ForSubsystem(SubsystemPolicy).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// GIVEN a generator whose workload stream has been drained for a while
	rngA := NewPartitionedRNG(NewExperimentKey(42))
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemWorkload).Float64()
	}

	// WHEN the policy stream is first used
	got := rngA.ForSubsystem(SubsystemPolicy).Float64()

	// THEN it starts where a fresh policy stream starts
	want := NewPartitionedRNG(NewExperimentKey(42)).ForSubsystem(SubsystemPolicy).Float64()
	if got != want {
		t.Errorf("policy first value = %v, want %v (isolation broken)", got, want)
	}
}

func TestPartitionedRNG_WorkloadUsesMasterSeed(t *testing.T) {
	seed := int64(42)
	workloadRNG := NewPartitionedRNG(NewExperimentKey(seed)).ForSubsystem(SubsystemWorkload)
	directRNG := rand.New(rand.NewSource(seed))

	for i := 0; i < 10; i++ {
		if got, want := workloadRNG.Float64(), directRNG.Float64(); got != want {
			t.Errorf("Value %d: workload RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewExperimentKey(42))
	if rng.ForSubsystem(SubsystemPolicy) != rng.ForSubsystem(SubsystemPolicy) {
		t.Error("ForSubsystem returned different instances for same name")
	}
	if rng.Key() != ExperimentKey(42) {
		t.Errorf("Key() = %v, want 42", rng.Key())
	}
}

func TestPartitionedRNG_TrialWorkersDiffer(t *testing.T) {
	// GIVEN two trial workers of the same experiment
	rng := NewPartitionedRNG(NewExperimentKey(7))
	a := rng.ForSubsystem(SubsystemTrialWorker(0)).Int63()
	b := rng.ForSubsystem(SubsystemTrialWorker(1)).Int63()

	// THEN their streams are not the same
	if a == b {
		t.Errorf("trial workers 0 and 1 drew the same first value %d", a)
	}
}

func TestHashName_NoCollisionsAmongStreams(t *testing.T) {
	names := []string{
		SubsystemWorkload,
		SubsystemPolicy,
		SubsystemTrialWorker(0),
		SubsystemTrialWorker(1),
		SubsystemSweepPoint(0),
		SubsystemSweepPoint(1),
		"",
	}

	hashes := make(map[int64]string)
	for _, name := range names {
		h := hashName(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

func TestSubsystemNames(t *testing.T) {
	if got := SubsystemTrialWorker(3); got != "trial_3" {
		t.Errorf("SubsystemTrialWorker(3) = %q", got)
	}
	if got := SubsystemSweepPoint(12); got != "point_12" {
		t.Errorf("SubsystemSweepPoint(12) = %q", got)
	}
}
