package eval

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"

	sim "github.com/strike-sim/strike-sim/sim"
)

// Config controls an evaluation over a stream of instances.
type Config struct {
	MaxInstances int `yaml:"max_instances" validate:"gte=0"` // 0 = consume the whole stream
	MinInstances int `yaml:"min_instances" validate:"gte=0"`
	// Window consecutive instances must each move the running mean ratio by
	// less than Tolerance for the evaluation to stop early. 0 disables early stop.
	Window    int         `yaml:"window" validate:"gte=0"`
	Tolerance float64     `yaml:"tolerance" validate:"gte=0"`
	Trials    TrialConfig `yaml:"trials"`
}

// Record is the outcome for one instance. StdDev, Min and Max describe the
// online cost over trials, normalized by the offline cost like Ratio.
type Record struct {
	Index       int
	N           int
	M           int
	PMax        int
	Ratio       float64
	OnlineCost  float64
	OfflineCost int64
	StdDev      float64
	Min         float64
	Max         float64
	Trials      int
	Converged   bool
}

// Report collects the records of one evaluation.
type Report struct {
	Policy    string
	Records   []Record
	Ratio     sim.RunningStat
	Converged bool // the running mean ratio stabilized before the stream ended
}

// Ratios returns the competitive ratio of every record.
func (r *Report) Ratios() []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = rec.Ratio
	}
	return out
}

// Summary summarizes the competitive ratios of the report.
func (r *Report) Summary() Summary {
	return Summarize(r.Ratios())
}

// Evaluator compares one online policy against the offline optimum.
// Not safe for concurrent use; create one per goroutine.
type Evaluator struct {
	cfg        Config
	factory    sim.PolicyFactory
	policy     sim.Policy
	workerRNGs []*rand.Rand
}

// NewEvaluator creates an Evaluator whose policies draw from rng's policy
// and trial-worker subsystems.
func NewEvaluator(cfg Config, factory sim.PolicyFactory, rng *sim.PartitionedRNG) *Evaluator {
	e := &Evaluator{
		cfg:     cfg,
		factory: factory,
		policy:  factory(rng.ForSubsystem(sim.SubsystemPolicy)),
	}
	if cfg.Trials.Workers > 1 {
		e.workerRNGs = WorkerRNGs(rng, cfg.Trials.Workers)
	}
	return e
}

// PolicyName returns the name of the evaluated policy.
func (e *Evaluator) PolicyName() string { return e.policy.Name() }

// Evaluate walks instances, recording the competitive ratio of each.
// Any run error aborts the evaluation.
func (e *Evaluator) Evaluate(instances iter.Seq[*sim.Instance]) (*Report, error) {
	report := &Report{Policy: e.policy.Name()}
	stable := 0
	for inst := range instances {
		idx := len(report.Records)
		if e.cfg.MaxInstances > 0 && idx >= e.cfg.MaxInstances {
			break
		}
		rec, err := e.EvaluateInstance(idx, inst)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", idx, err)
		}
		report.Records = append(report.Records, rec)

		delta := report.Ratio.Add(rec.Ratio)
		if math.Abs(delta) < e.cfg.Tolerance {
			stable++
		} else {
			stable = 0
		}
		logrus.Debugf("%s instance %d: ratio %.4f (running mean %.4f)", e.policy.Name(), idx, rec.Ratio, report.Ratio.Mean())

		if e.cfg.Window > 0 && len(report.Records) >= e.cfg.MinInstances && stable >= e.cfg.Window {
			report.Converged = true
			logrus.Infof("%s: mean ratio stable at instance %d: %.6f (last delta %.2e)",
				e.policy.Name(), idx, report.Ratio.Mean(), math.Abs(delta))
			break
		}
	}
	return report, nil
}

// EvaluateSlice is Evaluate over a materialized batch.
func (e *Evaluator) EvaluateSlice(instances []*sim.Instance) (*Report, error) {
	return e.Evaluate(slices.Values(instances))
}

// EvaluateInstance computes the record for a single instance. Deterministic
// policies run once; randomized ones run until their mean cost converges.
func (e *Evaluator) EvaluateInstance(idx int, inst *sim.Instance) (Record, error) {
	offline := sim.SolveOffline(inst).Cost()
	pMax, _, _ := inst.Bounds()
	rec := Record{Index: idx, N: inst.N(), M: inst.M(), PMax: pMax, OfflineCost: offline}
	opt := float64(offline)

	if e.policy.Kind() == sim.Deterministic {
		sol, err := sim.Run(inst, e.policy)
		if err != nil {
			return Record{}, err
		}
		rec.OnlineCost = float64(sol.Cost())
		rec.Ratio = rec.OnlineCost / opt
		rec.Min, rec.Max = rec.Ratio, rec.Ratio
		rec.Trials = 1
		rec.Converged = true
		return rec, nil
	}

	var acc *sim.RandomSolution
	var err error
	if e.workerRNGs != nil {
		acc, err = RunParallel(inst, e.factory, e.workerRNGs, e.cfg.Trials)
	} else {
		acc, err = RunUntilConverged(inst, e.policy, e.cfg.Trials)
	}
	if err != nil {
		return Record{}, err
	}
	cost := acc.Cost()
	rec.OnlineCost = cost.Mean()
	rec.Ratio = cost.Mean() / opt
	rec.StdDev = cost.StdDev() / opt
	rec.Min = cost.Min() / opt
	rec.Max = cost.Max() / opt
	rec.Trials = acc.Trials()
	rec.Converged = acc.Converged
	return rec, nil
}
