package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sim "github.com/strike-sim/strike-sim/sim"
	"github.com/strike-sim/strike-sim/sim/eval"
	"github.com/strike-sim/strike-sim/sim/store"
	"github.com/strike-sim/strike-sim/sim/workload"
)

// sweepOptions configures a grid sweep.
type sweepOptions struct {
	Seed      int64
	Policies  []string
	Instances int // per grid point
	Points    []workload.SweepPoint
	Trials    eval.TrialConfig
	Jobs      int // concurrent (point, policy) evaluations; 0 = GOMAXPROCS
}

var (
	sweepSeed      int64
	sweepPolicies  []string
	sweepInstances int
	sweepCSV       string
	sweepDB        string
	sweepJobs      int
	sweepWorkers   int
)

// sweepCmd runs every policy over the one-at-a-time (n, m, p_max) grid
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep n, m and p_max and record competitive ratios per policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		trials := eval.DefaultTrialConfig()
		trials.Workers = sweepWorkers
		opts := sweepOptions{
			Seed:      sweepSeed,
			Policies:  sweepPolicies,
			Instances: sweepInstances,
			Points:    workload.SweepPoints(workload.DefaultSweepNs, workload.DefaultSweepMs, workload.DefaultSweepPMaxs()),
			Trials:    trials,
			Jobs:      sweepJobs,
		}
		reports, err := runSweep(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if sweepCSV != "" {
			if err := writeReportsCSV(sweepCSV, reports); err != nil {
				return err
			}
			logrus.Infof("wrote %d rows to %s", len(reports)*opts.Instances, sweepCSV)
		}
		if sweepDB != "" {
			return storeSweep(cmd.Context(), sweepDB, opts, reports)
		}
		return nil
	},
}

// runSweep evaluates every policy on opts.Instances instances per grid point.
// All policies at a point see the same instances. Reports are ordered by
// point, then by policy.
func runSweep(ctx context.Context, opts sweepOptions) ([]*eval.Report, error) {
	for _, name := range opts.Policies {
		if !sim.IsValidPolicy(name) {
			return nil, fmt.Errorf("unknown policy %q; valid: %v", name, sim.PolicyNames())
		}
	}
	evalCfg := eval.Config{Trials: opts.Trials}
	reports := make([]*eval.Report, len(opts.Points)*len(opts.Policies))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for k, point := range opts.Points {
		for j, name := range opts.Policies {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rng := sim.NewPartitionedRNG(sim.NewExperimentKey(opts.Seed))
				instances, err := workload.Generate(point.Generator(opts.Instances), rng.ForSubsystem(sim.SubsystemSweepPoint(k)))
				if err != nil {
					return fmt.Errorf("point %+v: %w", point, err)
				}
				factory := sim.PolicyConfig{Name: name}.Factory()
				report, err := eval.NewEvaluator(evalCfg, factory, rng).EvaluateSlice(instances)
				if err != nil {
					return fmt.Errorf("%s at %+v: %w", name, point, err)
				}
				logrus.Debugf("%s at n=%d m=%d p_max=%d: %v", name, point.N, point.M, point.PMax, report.Summary())
				reports[k*len(opts.Policies)+j] = report
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// storeSweep saves every sweep report as its own run labelled by grid point.
func storeSweep(ctx context.Context, path string, opts sweepOptions, reports []*eval.Report) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	for i, r := range reports {
		point := opts.Points[i/len(opts.Policies)]
		label := fmt.Sprintf("sweep n=%d m=%d p_max=%d", point.N, point.M, point.PMax)
		if _, err := db.SaveReport(ctx, store.Run{Label: label, Seed: opts.Seed}, r); err != nil {
			return fmt.Errorf("storing %s: %w", label, err)
		}
	}
	logrus.Infof("stored %d sweep runs in %s", len(reports), path)
	return nil
}

func init() {
	f := sweepCmd.Flags()
	f.Int64Var(&sweepSeed, "seed", 42, "Master seed")
	f.StringSliceVar(&sweepPolicies, "policies", []string{"greedy", "threshold", "uniform-random", "proximity"}, "Policies to evaluate")
	f.IntVar(&sweepInstances, "instances", 100, "Instances per grid point")
	f.StringVar(&sweepCSV, "csv", "data.csv", "CSV output file (empty to skip)")
	f.StringVar(&sweepDB, "db", "", "SQLite database to store runs in (empty to skip)")
	f.IntVar(&sweepJobs, "jobs", 0, "Concurrent evaluations (0 = GOMAXPROCS)")
	f.IntVar(&sweepWorkers, "trial-workers", 1, "Goroutines per randomized trial batch")

	rootCmd.AddCommand(sweepCmd)
}
