package sim

import "math"

// Greedy balances two adversaries each day. One keeps future prices at
// p_max; the other drops them to 1. The policy buys the number of tickets
// f that equalizes the ratio bounds
//
//	(CC + p*f + p_max*(n_i-f)) / (p_min*n)   and   (CC + p*f + (n_i-f)) / n
//
// where CC is the fare already committed and p_min the cheapest price seen,
// then rounds f to whichever neighbouring integer has the smaller worst case.
// Waiting costs are not part of the estimate.
type Greedy struct {
	inst *Instance
	pMax float64
	pMin float64
	cc   float64
}

// NewGreedy creates a Greedy policy.
func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) Name() string     { return "greedy" }
func (g *Greedy) Kind() PolicyKind { return Deterministic }

// Setup resets p_min to p_max and the committed cost to zero.
func (g *Greedy) Setup(inst *Instance) error {
	pMax, err := requireBounds(g.Name(), inst)
	if err != nil {
		return err
	}
	g.inst = inst
	g.pMax = float64(pMax)
	g.pMin = float64(pMax)
	g.cc = 0
	return nil
}

// Decide implements Policy.
func (g *Greedy) Decide(i, remaining, seats, price, _ int) int {
	if isLastDay(g.inst, i) {
		return min(remaining, seats)
	}
	p := float64(price)
	ni := float64(remaining)
	g.pMin = math.Min(g.pMin, p)

	est := g.estimate(p, ni)
	fLow, fHigh := math.Floor(est), math.Ceil(est)
	f := fHigh
	if g.worstRatio(fLow, p, ni) < g.worstRatio(fHigh, p, ni) {
		f = fLow
	}

	chosen := min(int(f), remaining, seats)
	g.cc += float64(chosen) * p
	return chosen
}

// estimate returns the fractional departures equalizing both bounds.
// A zero denominator only happens when every price is 1; departing the
// whole remainder is then optimal.
func (g *Greedy) estimate(p, ni float64) float64 {
	num := (g.pMax-g.pMin)*ni - (g.pMin-1)*g.cc
	den := g.pMax + p*g.pMin - p - g.pMin
	if den == 0 {
		return ni
	}
	return math.Max(0, num/den)
}

func (g *Greedy) worstRatio(f, p, ni float64) float64 {
	n := float64(g.inst.n)
	high := (g.cc + p*f + g.pMax*(ni-f)) / (g.pMin * n)
	low := (g.cc + p*f + (ni - f)) / n
	return math.Max(high, low)
}
