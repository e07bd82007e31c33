package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	sim "github.com/strike-sim/strike-sim/sim"
	"github.com/strike-sim/strike-sim/sim/eval"
	"github.com/strike-sim/strike-sim/sim/workload"
)

// ExperimentSpec is the YAML description of an evaluate run.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ExperimentSpec struct {
	Name       string                   `yaml:"name"`
	Seed       int64                    `yaml:"seed"`
	Policies   []sim.PolicyConfig       `yaml:"policies" validate:"min=1"`
	Instances  workload.GeneratorConfig `yaml:"instances"`
	Evaluation eval.Config              `yaml:"evaluation"`
	Output     OutputSpec               `yaml:"output"`
}

// OutputSpec selects where reports go. Empty paths are skipped.
type OutputSpec struct {
	CSV    string `yaml:"csv"`
	SQLite string `yaml:"sqlite"`
}

// defaultExperiment fills what an experiment file may leave out.
func defaultExperiment() ExperimentSpec {
	return ExperimentSpec{
		Seed: 42,
		Instances: workload.GeneratorConfig{
			N:            workload.Fixed(100),
			M:            workload.Fixed(10),
			Price:        workload.IntRange{Min: 10, Max: 100},
			Wait:         workload.IntRange{Min: 10, Max: 100},
			Distribution: workload.DistUniform,
			FullLastDay:  true,
		},
		Evaluation: eval.Config{
			MinInstances: 100,
			MaxInstances: 10000,
			Window:       1,
			Tolerance:    1e-5,
			Trials:       eval.DefaultTrialConfig(),
		},
	}
}

// LoadExperimentSpec reads path over the defaults.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadExperimentSpec(path string) (*ExperimentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	spec := defaultExperiment()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the whole spec, policies included.
func (s *ExperimentSpec) Validate() error {
	if err := sim.ValidateStruct(s); err != nil {
		return err
	}
	if err := s.Instances.Validate(); err != nil {
		return fmt.Errorf("instances: %w", err)
	}
	// The window rule may never fire (tolerance 0, noisy ratios), so an
	// unbounded stream needs a hard cap.
	if s.Instances.Count == 0 && s.Evaluation.MaxInstances == 0 {
		return fmt.Errorf("evaluation may never end: set instances.count or evaluation.max_instances")
	}
	for i, p := range s.Policies {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("policies[%d]: %w", i, err)
		}
	}
	return nil
}

// RunExperiment evaluates every policy concurrently. Each policy sees the
// same instance stream because each gets its own PartitionedRNG built from
// spec.Seed. Reports come back in policy order.
func RunExperiment(ctx context.Context, spec *ExperimentSpec) ([]*eval.Report, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	reports := make([]*eval.Report, len(spec.Policies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pc := range spec.Policies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := sim.NewPartitionedRNG(sim.NewExperimentKey(spec.Seed))
			var streamErr error
			instances := workload.Stream(spec.Instances, rng.ForSubsystem(sim.SubsystemWorkload), &streamErr)

			report, err := eval.NewEvaluator(spec.Evaluation, pc.Factory(), rng).Evaluate(instances)
			if err != nil {
				return fmt.Errorf("%s: %w", pc.Name, err)
			}
			if streamErr != nil {
				return fmt.Errorf("%s: generating instances: %w", pc.Name, streamErr)
			}
			logrus.Infof("%s: %v", pc.Name, report.Summary())
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// describePolicy renders the parameters of pc for storage.
func describePolicy(pc sim.PolicyConfig) string {
	var parts []string
	if pc.Q != nil {
		parts = append(parts, fmt.Sprintf("q=%g", *pc.Q))
	}
	if pc.Alpha != nil {
		parts = append(parts, fmt.Sprintf("alpha=%g", *pc.Alpha))
	}
	if pc.Beta != nil {
		parts = append(parts, fmt.Sprintf("beta=%g", *pc.Beta))
	}
	if pc.Interpolation != "" {
		parts = append(parts, "interpolation="+pc.Interpolation)
	}
	return strings.Join(parts, " ")
}
