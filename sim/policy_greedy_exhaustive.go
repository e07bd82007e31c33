package sim

import "math"

// GreedyExhaustive is the waiting-cost-aware variant of Greedy. Instead of
// solving for the balancing point it scores every feasible departure count
// and takes the first minimum of
//
//	max((CC + p*f + (p_max+h)*(n_i-f)) / (e_min*n),
//	    (CC + p*f + (1+h)*(n_i-f)) / (min(e_min, 1+H_i)*n))
//
// where e_min is the cheapest effective price seen so far and H_i the
// cumulative waiting cost through day i. CC includes the waiting cost paid
// by the people kept back. Cost per day is O(min(n_i, s_i)).
type GreedyExhaustive struct {
	inst   *Instance
	pMax   float64
	effMin float64
	hCum   float64
	cc     float64
}

// NewGreedyExhaustive creates a GreedyExhaustive policy.
func NewGreedyExhaustive() *GreedyExhaustive {
	return &GreedyExhaustive{}
}

func (g *GreedyExhaustive) Name() string     { return "greedy-exhaustive" }
func (g *GreedyExhaustive) Kind() PolicyKind { return Deterministic }

// Setup resets the running minima and committed cost.
func (g *GreedyExhaustive) Setup(inst *Instance) error {
	pMax, err := requireBounds(g.Name(), inst)
	if err != nil {
		return err
	}
	g.inst = inst
	g.pMax = float64(pMax)
	g.effMin = float64(pMax)
	g.hCum = 0
	g.cc = 0
	return nil
}

// Decide implements Policy.
func (g *GreedyExhaustive) Decide(i, remaining, seats, price, waitCost int) int {
	if isLastDay(g.inst, i) {
		return min(remaining, seats)
	}
	p, h := float64(price), float64(waitCost)
	g.effMin = math.Min(g.effMin, p+g.hCum)
	g.hCum += h

	n := float64(g.inst.n)
	ni := float64(remaining)
	lowDen := math.Min(g.effMin, 1+g.hCum) * n
	best, bestScore := 0, math.Inf(1)
	for f := 0; f <= min(remaining, seats); f++ {
		ff := float64(f)
		high := (g.cc + p*ff + (g.pMax+h)*(ni-ff)) / (g.effMin * n)
		low := (g.cc + p*ff + (1+h)*(ni-ff)) / lowDen
		if score := math.Max(high, low); score < bestScore {
			best, bestScore = f, score
		}
	}
	g.cc += float64(best)*p + float64(remaining-best)*h
	return best
}
