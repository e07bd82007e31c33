package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// ExperimentKey is the master seed of a run. The same key and configuration
// reproduce the same instances, decisions and reports.
type ExperimentKey int64

// NewExperimentKey wraps seed.
func NewExperimentKey(seed int64) ExperimentKey {
	return ExperimentKey(seed)
}

// Random stream names. Instance generation reads the master seed unchanged,
// so --seed alone reproduces the files written by generate.
const (
	SubsystemWorkload = "workload"
	SubsystemPolicy   = "policy" // sequential trials of a randomized policy
)

// SubsystemTrialWorker names the stream of parallel trial worker k.
func SubsystemTrialWorker(k int) string {
	return fmt.Sprintf("trial_%d", k)
}

// SubsystemSweepPoint names the instance stream of sweep grid point k.
func SubsystemSweepPoint(k int) string {
	return fmt.Sprintf("point_%d", k)
}

// PartitionedRNG hands out one independent stream per name, so drawing more
// instances never shifts what a policy sees. A named stream is seeded with
// the master seed XOR the FNV-1a hash of its name; the workload stream uses
// the master seed as is.
//
// Not safe for concurrent use: derive every stream up front and give each
// goroutine its own *rand.Rand.
type PartitionedRNG struct {
	key     ExperimentKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG seeded by key.
func NewPartitionedRNG(key ExperimentKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemWorkload {
		seed ^= hashName(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.streams[name] = rng
	return rng
}

// Key returns the master seed.
func (p *PartitionedRNG) Key() ExperimentKey { return p.key }

func hashName(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
