// Package testutil provides shared test infrastructure for the strike
// packages: a brute-force optimum for small instances, random small cases
// and float assertions. It works on raw arrays so that in-package tests of
// sim/ can import it without a cycle.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// Case is the raw data of a problem instance.
type Case struct {
	N, M    int
	S, P, H []int
}

// BruteForceCost enumerates every departure vector with 0 <= f[i] <= s[i]
// and sum(f) = n, returning the minimum of sum(f[i]*p[i] + h[i]*r[i]).
// Exponential in m; keep n and m small.
func BruteForceCost(c Case) int64 {
	best := int64(math.MaxInt64)
	var walk func(day, left int, cost int64)
	walk = func(day, left int, cost int64) {
		if day == c.M {
			if left == 0 && cost < best {
				best = cost
			}
			return
		}
		for f := 0; f <= min(left, c.S[day]); f++ {
			r := left - f
			walk(day+1, r, cost+int64(f)*int64(c.P[day])+int64(c.H[day])*int64(r))
		}
	}
	walk(0, c.N, 0)
	return best
}

// RandomCase draws a small valid case with n <= maxN, m <= maxM, seats in
// [1, maxN], prices in [1, pMax] and waiting costs in [0, hMax].
// Seats are topped up on the last day so that sum(s) >= n.
func RandomCase(rng *rand.Rand, maxN, maxM, pMax, hMax int) Case {
	n := 1 + rng.Intn(maxN)
	m := 1 + rng.Intn(maxM)
	c := Case{N: n, M: m, S: make([]int, m), P: make([]int, m), H: make([]int, m)}
	total := 0
	for i := 0; i < m; i++ {
		c.S[i] = 1 + rng.Intn(maxN)
		c.P[i] = 1 + rng.Intn(pMax)
		c.H[i] = rng.Intn(hMax + 1)
		total += c.S[i]
	}
	if total < n {
		c.S[m-1] += n - total
	}
	return c
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
