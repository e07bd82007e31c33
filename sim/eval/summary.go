package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates competitive ratios across instances.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // sample standard deviation
	Min    float64
	Max    float64
	Median float64
	P95    float64
}

// Summarize computes aggregate statistics of ratios.
// Safe for empty input (returns the zero Summary).
func Summarize(ratios []float64) Summary {
	if len(ratios) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), ratios...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

// String renders the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f std=%.4f min=%.4f median=%.4f p95=%.4f max=%.4f",
		s.Count, s.Mean, s.StdDev, s.Min, s.Median, s.P95, s.Max)
}

// csvHeader matches the column layout the plotting scripts read.
var csvHeader = []string{"alg", "n", "m", "p_max", "I", "mean", "std", "min", "max"}

// WriteCSVHeader writes the column header.
func WriteCSVHeader(w *csv.Writer) error {
	return w.Write(csvHeader)
}

// WriteCSVRecords writes one row per record for policy.
func WriteCSVRecords(w *csv.Writer, policy string, records []Record) error {
	for _, rec := range records {
		row := []string{
			policy,
			strconv.Itoa(rec.N),
			strconv.Itoa(rec.M),
			strconv.Itoa(rec.PMax),
			strconv.Itoa(rec.Index),
			formatFloat(rec.Ratio),
			formatFloat(rec.StdDev),
			formatFloat(rec.Min),
			formatFloat(rec.Max),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", rec.Index, err)
		}
	}
	return nil
}

// WriteCSV writes a header followed by the records of report.
func WriteCSV(out io.Writer, report *Report) error {
	w := csv.NewWriter(out)
	if err := WriteCSVHeader(w); err != nil {
		return err
	}
	if err := WriteCSVRecords(w, report.Policy, report.Records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
