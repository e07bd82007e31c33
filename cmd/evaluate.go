package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/strike-sim/strike-sim/sim/eval"
	"github.com/strike-sim/strike-sim/sim/store"
)

var experimentPath string

// evaluateCmd runs an experiment file
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure competitive ratios of online policies on generated instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := LoadExperimentSpec(experimentPath)
		if err != nil {
			return err
		}
		reports, err := RunExperiment(cmd.Context(), spec)
		if err != nil {
			return err
		}
		for _, r := range reports {
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %v converged=%t\n", r.Policy, r.Summary(), r.Converged)
		}
		return writeOutputs(cmd.Context(), spec, reports)
	},
}

// writeOutputs writes reports to the CSV file and SQLite database named in spec.Output.
func writeOutputs(ctx context.Context, spec *ExperimentSpec, reports []*eval.Report) error {
	if spec.Output.CSV != "" {
		if err := writeReportsCSV(spec.Output.CSV, reports); err != nil {
			return err
		}
		logrus.Infof("wrote %s", spec.Output.CSV)
	}
	if spec.Output.SQLite != "" {
		db, err := store.Open(spec.Output.SQLite)
		if err != nil {
			return err
		}
		defer db.Close()
		for i, r := range reports {
			id, err := db.SaveReport(ctx, store.Run{
				Label:  spec.Name,
				Params: describePolicy(spec.Policies[i]),
				Seed:   spec.Seed,
			}, r)
			if err != nil {
				return fmt.Errorf("storing %s: %w", r.Policy, err)
			}
			logrus.Infof("stored %s as run %s", r.Policy, id)
		}
	}
	return nil
}

// writeReportsCSV writes all reports under a single header.
func writeReportsCSV(path string, reports []*eval.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := eval.WriteCSVHeader(w); err != nil {
		return err
	}
	for _, r := range reports {
		if err := eval.WriteCSVRecords(w, r.Policy, r.Records); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

func init() {
	evaluateCmd.Flags().StringVar(&experimentPath, "config", "experiment.yaml", "Path to the experiment YAML")
	rootCmd.AddCommand(evaluateCmd)
}
