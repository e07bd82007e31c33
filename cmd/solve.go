package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/strike-sim/strike-sim/sim"
	"github.com/strike-sim/strike-sim/sim/trace"
	"github.com/strike-sim/strike-sim/sim/workload"
)

// offlinePolicy selects the offline solver in place of an online policy.
const offlinePolicy = "offline"

var (
	solvePolicy        string  // Policy name, or "offline"
	solveQ             float64 // Threshold multiplier (0 = 1/sqrt(p_max))
	solveAlpha         float64 // Proximity low anchor fraction
	solveBeta          float64 // Proximity high anchor fraction
	solveInterpolation string  // Proximity curve
	solveSeed          int64   // Seed for randomized policies
	solveTrace         string  // Trace level
	solveOut           string  // Output file; stdout when empty
)

// solveCmd solves one instance file and prints its schedule
var solveCmd = &cobra.Command{
	Use:   "solve <instance-file>",
	Short: "Solve one instance offline or with an online policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := workload.ReadInstanceFile(args[0])
		if err != nil {
			return err
		}
		if !trace.IsValidTraceLevel(solveTrace) {
			return fmt.Errorf("unknown trace level %q; valid: none, decisions", solveTrace)
		}
		tr, err := newSolveTrace(solvePolicy, trace.TraceLevel(solveTrace))
		if err != nil {
			return err
		}

		sol, err := solve(inst, solvePolicyConfig(cmd), solveSeed, tr)
		if err != nil {
			return err
		}
		logrus.Infof("%s on %v: total cost %d", solvePolicy, inst, sol.Cost())
		if tr != nil {
			logTrace(tr)
		}

		var out io.Writer = cmd.OutOrStdout()
		if solveOut != "" {
			file, err := os.Create(solveOut)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer file.Close()
			out = file
		}
		return workload.WriteSolution(out, sol)
	},
}

// solvePolicyConfig builds a PolicyConfig from the flags the user set.
func solvePolicyConfig(cmd *cobra.Command) sim.PolicyConfig {
	cfg := sim.PolicyConfig{Name: solvePolicy, Interpolation: solveInterpolation}
	if cmd.Flags().Changed("q") {
		cfg.Q = &solveQ
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = &solveAlpha
	}
	if cmd.Flags().Changed("beta") {
		cfg.Beta = &solveBeta
	}
	return cfg
}

// solve runs the offline solver or one online run of the configured policy.
// tr is filled for online runs when non-nil.
func solve(inst *sim.Instance, cfg sim.PolicyConfig, seed int64, tr *trace.RunTrace) (*sim.Solution, error) {
	if cfg.Name == offlinePolicy {
		return sim.SolveOffline(inst), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := sim.NewPartitionedRNG(sim.NewExperimentKey(seed))
	policy := sim.NewPolicy(cfg, rng.ForSubsystem(sim.SubsystemPolicy))
	return sim.RunTraced(inst, policy, tr)
}

// newSolveTrace returns the trace to fill for policy, or nil when tracing is
// off. The offline solver makes no per-day decisions, so it cannot be traced.
func newSolveTrace(policy string, level trace.TraceLevel) (*trace.RunTrace, error) {
	if level != trace.TraceLevelDecisions {
		return nil, nil
	}
	if policy == offlinePolicy {
		return nil, fmt.Errorf("--trace %s needs an online policy, got %q", level, policy)
	}
	return trace.NewRunTrace(policy), nil
}

func logTrace(tr *trace.RunTrace) {
	for _, d := range tr.Decisions {
		logrus.Infof("day %d: %d waiting, %d seats at %d, sent %d, day cost %d",
			d.Day, d.Remaining, d.Seats, d.Price, d.Departed, d.DayCost)
	}
	s := trace.Summarize(tr)
	logrus.Infof("%s: %d of %d days used, fares %d, waiting %d, mean fare %.2f",
		tr.Policy, s.DepartureDays, s.Days, s.FareCost, s.WaitingCost, s.MeanFare)
}

func init() {
	solveCmd.Flags().StringVar(&solvePolicy, "policy", offlinePolicy, "offline, or an online policy: threshold, greedy, greedy-exhaustive, proximity, uniform-random")
	solveCmd.Flags().Float64Var(&solveQ, "q", 0, "Threshold price multiplier (default 1/sqrt(p_max))")
	solveCmd.Flags().Float64Var(&solveAlpha, "alpha", sim.DefaultProximityAlpha, "Proximity low anchor as a fraction of sqrt(p_max)")
	solveCmd.Flags().Float64Var(&solveBeta, "beta", sim.DefaultProximityBeta, "Proximity high anchor as a fraction of the range above sqrt(p_max)")
	solveCmd.Flags().StringVar(&solveInterpolation, "interpolation", sim.InterpolationQuadratic, "Proximity curve: quadratic or linear")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 42, "Seed for randomized policies")
	solveCmd.Flags().StringVar(&solveTrace, "trace", string(trace.TraceLevelNone), "Trace level: none or decisions")
	solveCmd.Flags().StringVar(&solveOut, "out", "", "Write the schedule to this file instead of stdout")

	rootCmd.AddCommand(solveCmd)
}
