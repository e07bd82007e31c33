package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/strike-sim/strike-sim/sim"
	"github.com/strike-sim/strike-sim/sim/workload"
)

var (
	genSeed   int64
	genOutDir string
	genConfig workload.GeneratorConfig
)

// generateCmd writes random instance files
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random bounded instances as files",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := sim.NewPartitionedRNG(sim.NewExperimentKey(genSeed))
		instances, err := workload.Generate(genConfig, rng.ForSubsystem(sim.SubsystemWorkload))
		if err != nil {
			return err
		}
		paths, err := writeInstances(genOutDir, instances)
		if err != nil {
			return err
		}
		logrus.Infof("wrote %d instances to %s", len(paths), genOutDir)
		return nil
	},
}

// writeInstances writes instance_NNNN.txt files into dir and returns their paths.
func writeInstances(dir string, instances []*sim.Instance) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	paths := make([]string, 0, len(instances))
	for k, inst := range instances {
		path := filepath.Join(dir, fmt.Sprintf("instance_%04d.txt", k))
		if err := workload.WriteInstanceFile(path, inst); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func init() {
	f := generateCmd.Flags()
	f.Int64Var(&genSeed, "seed", 42, "Seed for instance generation")
	f.StringVar(&genOutDir, "out-dir", "instances", "Directory for the instance files")
	f.IntVar(&genConfig.Count, "count", 10, "Number of instances")
	f.IntVar(&genConfig.N.Min, "n-min", 100, "Minimum number of people")
	f.IntVar(&genConfig.N.Max, "n-max", 100, "Maximum number of people")
	f.IntVar(&genConfig.M.Min, "m-min", 10, "Minimum number of days")
	f.IntVar(&genConfig.M.Max, "m-max", 10, "Maximum number of days")
	f.IntVar(&genConfig.Seats.Min, "seats-min", 0, "Minimum seats per day (0 with seats-max 0: n seats every day)")
	f.IntVar(&genConfig.Seats.Max, "seats-max", 0, "Maximum seats per day")
	f.IntVar(&genConfig.Price.Min, "price-min", 10, "Minimum ticket price")
	f.IntVar(&genConfig.Price.Max, "price-max", 100, "Maximum ticket price (becomes p_max)")
	f.IntVar(&genConfig.Wait.Min, "wait-min", 10, "Minimum waiting cost")
	f.IntVar(&genConfig.Wait.Max, "wait-max", 100, "Maximum waiting cost (becomes h_max)")
	f.StringVar(&genConfig.Distribution, "distribution", workload.DistUniform, "Sampling distribution: uniform or normal")
	f.BoolVar(&genConfig.FullLastDay, "full-last-day", false, "Give the last day n seats")

	rootCmd.AddCommand(generateCmd)
}
