package workload

import (
	"math"
	"slices"
)

// Fixed coordinates of the one-at-a-time sweep grid.
const (
	SweepBaseN    = 10
	SweepBaseM    = 10
	SweepBasePMax = 128
)

// DefaultSweepNs and DefaultSweepMs are the population sizes and horizons swept.
var (
	DefaultSweepNs = []int{1, 2, 4, 6, 8, 10, 15, 20, 25, 30, 40, 50, 75, 100}
	DefaultSweepMs = []int{1, 2, 4, 6, 8, 10, 15, 20, 25, 30, 40, 50, 75, 100}
)

// SweepPoint is one (n, m, p_max) coordinate of a sweep.
type SweepPoint struct {
	N    int
	M    int
	PMax int
}

// LogSpacedPMaxs returns count integer values spaced evenly on a log2 scale
// from 1 to 2^maxExp, truncated and deduplicated.
func LogSpacedPMaxs(maxExp float64, count int) []int {
	if count < 2 {
		return []int{int(math.Pow(2, maxExp))}
	}
	out := make([]int, count)
	for k := range out {
		out[k] = int(math.Pow(2, maxExp*float64(k)/float64(count-1)))
	}
	return slices.Compact(out)
}

// DefaultSweepPMaxs returns the p_max values swept by default.
func DefaultSweepPMaxs() []int { return LogSpacedPMaxs(9, 20) }

// SweepPoints varies one coordinate at a time: n over ns with m and p_max at
// their base values, then m over ms, then p_max over pMaxs.
func SweepPoints(ns, ms, pMaxs []int) []SweepPoint {
	points := make([]SweepPoint, 0, len(ns)+len(ms)+len(pMaxs))
	for _, n := range ns {
		points = append(points, SweepPoint{N: n, M: SweepBaseM, PMax: SweepBasePMax})
	}
	for _, m := range ms {
		points = append(points, SweepPoint{N: SweepBaseN, M: m, PMax: SweepBasePMax})
	}
	for _, pMax := range pMaxs {
		points = append(points, SweepPoint{N: SweepBaseN, M: SweepBaseM, PMax: pMax})
	}
	return points
}

// Generator returns the config of count instances at this point: n seats
// every day, prices uniform in [1, p_max] and no waiting cost.
func (p SweepPoint) Generator(count int) GeneratorConfig {
	return GeneratorConfig{
		Count:        count,
		N:            Fixed(p.N),
		M:            Fixed(p.M),
		Price:        IntRange{Min: 1, Max: p.PMax},
		Wait:         Fixed(0),
		Distribution: DistUniform,
	}
}
