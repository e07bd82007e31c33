// Package eval measures online policies against the offline optimum:
// repeated randomized trials with a convergence stop, per-instance
// competitive ratios over a stream of instances, and their summaries.
package eval

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	sim "github.com/strike-sim/strike-sim/sim"
)

// TrialConfig bounds the repeated runs of a randomized policy on one instance.
type TrialConfig struct {
	MaxTrials int     `yaml:"max_trials" validate:"gte=1"`
	MinTrials int     `yaml:"min_trials" validate:"gte=0"`
	Epsilon   float64 `yaml:"epsilon" validate:"gte=0"`
	Workers   int     `yaml:"workers" validate:"gte=0"` // >1 switches to RunParallel
}

// DefaultTrialConfig mirrors the settings used for the published sweeps.
func DefaultTrialConfig() TrialConfig {
	return TrialConfig{MaxTrials: 1000, MinTrials: 10, Epsilon: 0.01, Workers: 1}
}

// RunUntilConverged runs policy on inst at most cfg.MaxTrials times,
// accumulating each Solution. Once more than cfg.MinTrials trials are in, it
// stops as soon as one trial moves the mean cost by less than cfg.Epsilon.
// Running out of trials is reported through Converged=false, not an error;
// errors come only from the run loop.
func RunUntilConverged(inst *sim.Instance, policy sim.Policy, cfg TrialConfig) (*sim.RandomSolution, error) {
	acc := sim.NewRandomSolution(inst)
	for k := 1; k <= cfg.MaxTrials; k++ {
		sol, err := sim.Run(inst, policy)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", k, err)
		}
		delta, err := acc.Add(sol)
		if err != nil {
			return nil, err
		}
		if k > cfg.MinTrials && math.Abs(delta) < cfg.Epsilon {
			acc.Converged = true
			logrus.Debugf("%s converged on %v after %d trials (mean cost %.3f, delta %.2e)",
				policy.Name(), inst, k, acc.Cost().Mean(), delta)
			return acc, nil
		}
	}
	logrus.Warnf("%s did not converge on %v within %d trials (mean cost %.3f)",
		policy.Name(), inst, cfg.MaxTrials, acc.Cost().Mean())
	return acc, nil
}

// RunParallel spreads exactly cfg.MaxTrials runs over cfg.Workers goroutines.
// Each worker gets its own policy from factory, drawing from rngs[w], and its
// own accumulator; the accumulators are merged in worker order, so the result
// depends only on the RNG seeds. There is no early stop.
func RunParallel(inst *sim.Instance, factory sim.PolicyFactory, rngs []*rand.Rand, cfg TrialConfig) (*sim.RandomSolution, error) {
	workers := len(rngs)
	if workers == 0 {
		return nil, fmt.Errorf("RunParallel needs at least one worker RNG")
	}
	parts := make([]*sim.RandomSolution, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		trials := cfg.MaxTrials / workers
		if w < cfg.MaxTrials%workers {
			trials++
		}
		policy := factory(rngs[w])
		part := sim.NewRandomSolution(inst)
		parts[w] = part
		g.Go(func() error {
			for k := 0; k < trials; k++ {
				sol, err := sim.Run(inst, policy)
				if err != nil {
					return fmt.Errorf("worker %d trial %d: %w", w, k+1, err)
				}
				if _, err := part.Add(sol); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	acc := parts[0]
	for _, part := range parts[1:] {
		if err := acc.Merge(part); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// WorkerRNGs derives one RNG per worker from rng; call it from a single goroutine.
func WorkerRNGs(rng *sim.PartitionedRNG, workers int) []*rand.Rand {
	out := make([]*rand.Rand, workers)
	for w := range out {
		out[w] = rng.ForSubsystem(sim.SubsystemTrialWorker(w))
	}
	return out
}
