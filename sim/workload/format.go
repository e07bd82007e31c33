package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	sim "github.com/strike-sim/strike-sim/sim"
)

const boundsPrefix = "bounds:"

// ReadInstance parses an instance file.
//
// Line 1 holds n and line 2 holds m. They are followed either by m per-day
// lines "s, p, h" or, in the legacy layout, by three lines holding the
// comma-separated s, p and h vectors. When m = 3 both layouts fit; the
// per-day reading wins and a warning is logged. An optional "bounds: p_max, h_max" line makes the
// instance bounded. Blank lines and lines starting with '#' are skipped.
func ReadInstance(r io.Reader) (*sim.Instance, error) {
	var lines []string
	var bounds []int
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, boundsPrefix); ok {
			vals, err := parseInts(rest)
			if err != nil || len(vals) != 2 {
				return nil, fmt.Errorf("line %d: bounds must be \"bounds: p_max, h_max\", got %q", lineNo, line)
			}
			bounds = vals
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading instance: %w", err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: expected n and m on the first two lines", sim.ErrInvalidInstance)
	}

	n, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, fmt.Errorf("parsing n: %w", err)
	}
	m, err := strconv.Atoi(lines[1])
	if err != nil {
		return nil, fmt.Errorf("parsing m: %w", err)
	}
	rows := make([][]int, 0, len(lines)-2)
	for k, line := range lines[2:] {
		vals, err := parseInts(line)
		if err != nil {
			return nil, fmt.Errorf("data line %d: %w", k+1, err)
		}
		rows = append(rows, vals)
	}

	s, p, h, err := columns(rows, m)
	if err != nil {
		return nil, err
	}
	if bounds != nil {
		return sim.NewBoundedInstance(n, m, s, p, h, bounds[0], bounds[1])
	}
	return sim.NewInstance(n, m, s, p, h)
}

// columns extracts s, p and h from either layout.
func columns(rows [][]int, m int) (s, p, h []int, err error) {
	perDay := len(rows) == m
	for _, row := range rows {
		if len(row) != 3 {
			perDay = false
			break
		}
	}
	if perDay {
		if m == 3 {
			logrus.Warnf("instance with m = 3 fits both layouts; reading rows as per-day \"s, p, h\"")
		}
		s, p, h = make([]int, m), make([]int, m), make([]int, m)
		for i, row := range rows {
			s[i], p[i], h[i] = row[0], row[1], row[2]
		}
		return s, p, h, nil
	}
	if len(rows) == 3 {
		return rows[0], rows[1], rows[2], nil
	}
	return nil, nil, nil, fmt.Errorf("%w: expected %d lines \"s, p, h\" or 3 lines of %d values, got %d lines",
		sim.ErrInvalidInstance, m, m, len(rows))
}

func parseInts(line string) ([]int, error) {
	fields := strings.Split(line, ",")
	out := make([]int, len(fields))
	for k, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", k+1, err)
		}
		out[k] = v
	}
	return out, nil
}

// WriteInstance writes inst in the per-day layout read by ReadInstance.
func WriteInstance(w io.Writer, inst *sim.Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", inst.N(), inst.M())
	for i := 0; i < inst.M(); i++ {
		s, p, h := inst.Day(i)
		fmt.Fprintf(bw, "%d, %d, %d\n", s, p, h)
	}
	if pMax, hMax, ok := inst.Bounds(); ok {
		fmt.Fprintf(bw, "%s %d, %d\n", boundsPrefix, pMax, hMax)
	}
	return bw.Flush()
}

// WriteSolution writes one "f_i, r_i" line per day.
func WriteSolution(w io.Writer, sol *sim.Solution) error {
	bw := bufio.NewWriter(w)
	f, r := sol.F(), sol.R()
	for i := range f {
		fmt.Fprintf(bw, "%d, %d\n", f[i], r[i])
	}
	return bw.Flush()
}

// ReadInstanceFile reads an instance from path.
func ReadInstanceFile(path string) (*sim.Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening instance file: %w", err)
	}
	defer file.Close()
	inst, err := ReadInstance(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// WriteInstanceFile writes inst to path, replacing any existing file.
func WriteInstanceFile(path string, inst *sim.Instance) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating instance file: %w", err)
	}
	if err := WriteInstance(file, inst); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
