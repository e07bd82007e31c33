package sim

import "math"

// RunningStat accumulates count, mean and variance in a single pass
// (Welford). Min and Max are tracked alongside. The zero value is ready to use.
type RunningStat struct {
	count int
	mean  float64
	m2    float64
	min   float64
	max   float64
}

// Add folds x into the accumulator and returns the resulting change in the mean.
func (rs *RunningStat) Add(x float64) float64 {
	rs.count++
	if rs.count == 1 {
		rs.min, rs.max = x, x
	} else {
		rs.min = math.Min(rs.min, x)
		rs.max = math.Max(rs.max, x)
	}
	delta := x - rs.mean
	step := delta / float64(rs.count)
	rs.mean += step
	rs.m2 += delta * (x - rs.mean)
	return step
}

// Merge folds another accumulator into rs using the pairwise update
// (Chan, Golub, LeVeque). Merging is exact up to floating-point rounding:
// it yields the same mean and variance as adding every sample to one accumulator.
func (rs *RunningStat) Merge(other RunningStat) {
	if other.count == 0 {
		return
	}
	if rs.count == 0 {
		*rs = other
		return
	}
	na, nb := float64(rs.count), float64(other.count)
	n := na + nb
	delta := other.mean - rs.mean
	rs.mean += delta * nb / n
	rs.m2 += other.m2 + delta*delta*na*nb/n
	rs.count += other.count
	rs.min = math.Min(rs.min, other.min)
	rs.max = math.Max(rs.max, other.max)
}

// Count returns the number of samples seen.
func (rs RunningStat) Count() int { return rs.count }

// Mean returns the running mean, 0 when empty.
func (rs RunningStat) Mean() float64 { return rs.mean }

// Variance returns the population variance, 0 with fewer than two samples.
func (rs RunningStat) Variance() float64 {
	if rs.count < 2 {
		return 0
	}
	return rs.m2 / float64(rs.count)
}

// StdDev returns the population standard deviation.
func (rs RunningStat) StdDev() float64 { return math.Sqrt(rs.Variance()) }

// Min returns the smallest sample, 0 when empty.
func (rs RunningStat) Min() float64 { return rs.min }

// Max returns the largest sample, 0 when empty.
func (rs RunningStat) Max() float64 { return rs.max }
