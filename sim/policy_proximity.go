package sim

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Interpolation shapes of the Proximity buy probability between its anchors.
const (
	InterpolationQuadratic = "quadratic"
	InterpolationLinear    = "linear"
)

// Proximity is a randomized policy: the closer today's price is to the
// bottom of the price range, the more likely each waiting person buys.
//
// With r = floor(sqrt(p_max)) the anchors are a = alpha*r and
// b = r + beta*(p_max-r). Below a everyone buys, at or above b nobody buys,
// in between the probability follows a line or the parabola through
// (a, 1), ((a+b)/2, 0.25) and (b, 0). Each waiting person is an independent
// Bernoulli draw.
type Proximity struct {
	Alpha         float64
	Beta          float64
	Interpolation string

	rng  *rand.Rand
	inst *Instance
	a, b float64
	c    [3]float64 // quadratic coefficients, highest power first
}

// NewProximity creates a Proximity policy drawing from rng.
// alpha and beta must lie in [0, 1]; interpolation is "quadratic" or "linear".
func NewProximity(alpha, beta float64, interpolation string, rng *rand.Rand) *Proximity {
	if interpolation == "" {
		interpolation = InterpolationQuadratic
	}
	return &Proximity{Alpha: alpha, Beta: beta, Interpolation: interpolation, rng: rng}
}

func (px *Proximity) Name() string     { return "proximity" }
func (px *Proximity) Kind() PolicyKind { return Randomized }

// Setup derives the anchors from p_max and fits the probability curve.
func (px *Proximity) Setup(inst *Instance) error {
	pMax, err := requireBounds(px.Name(), inst)
	if err != nil {
		return err
	}
	if px.Alpha < 0 || px.Alpha > 1 || px.Beta < 0 || px.Beta > 1 {
		return fmt.Errorf("alpha and beta must lie in [0, 1], got %g and %g", px.Alpha, px.Beta)
	}
	if px.Interpolation != InterpolationQuadratic && px.Interpolation != InterpolationLinear {
		return fmt.Errorf("unknown interpolation %q", px.Interpolation)
	}
	px.inst = inst
	r := math.Floor(math.Sqrt(float64(pMax)))
	px.a = px.Alpha * r
	px.b = r + px.Beta*(float64(pMax)-r)
	if px.Interpolation == InterpolationQuadratic && px.a < px.b {
		c, err := fitParabola(px.a, px.b)
		if err != nil {
			return err
		}
		px.c = c
	}
	return nil
}

// fitParabola solves the Vandermonde system for the curve through
// (a, 1), ((a+b)/2, 0.25) and (b, 0).
func fitParabola(a, b float64) ([3]float64, error) {
	mid := (a + b) / 2
	A := mat.NewDense(3, 3, []float64{
		a * a, a, 1,
		mid * mid, mid, 1,
		b * b, b, 1,
	})
	v := mat.NewVecDense(3, []float64{1, 0.25, 0})
	var c mat.VecDense
	if err := c.SolveVec(A, v); err != nil {
		return [3]float64{}, fmt.Errorf("fitting probability curve on [%g, %g]: %w", a, b, err)
	}
	return [3]float64{c.AtVec(0), c.AtVec(1), c.AtVec(2)}, nil
}

// BuyProbability returns the per-person probability of departing at price p.
func (px *Proximity) BuyProbability(p float64) float64 {
	switch {
	case p < px.a:
		return 1
	case p >= px.b:
		return 0
	}
	var prob float64
	if px.Interpolation == InterpolationLinear {
		prob = (px.b - p) / (px.b - px.a)
	} else {
		prob = px.c[0]*p*p + px.c[1]*p + px.c[2]
	}
	return math.Max(0, math.Min(1, prob))
}

// Anchors returns the lower and upper price anchors computed by Setup.
func (px *Proximity) Anchors() (a, b float64) { return px.a, px.b }

// Decide implements Policy.
func (px *Proximity) Decide(i, remaining, seats, price, _ int) int {
	if isLastDay(px.inst, i) {
		return min(remaining, seats)
	}
	prob := px.BuyProbability(float64(price))
	buyers := 0
	switch prob {
	case 0:
	case 1:
		buyers = remaining
	default:
		for k := 0; k < remaining; k++ {
			if px.rng.Float64() < prob {
				buyers++
			}
		}
	}
	return min(buyers, seats)
}
