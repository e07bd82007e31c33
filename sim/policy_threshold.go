package sim

import "math"

// Threshold sends as many people as possible whenever the price is at or
// below floor(q * p_max), and everyone on the last day. It needs a bounded
// instance. With h = 0 and s[i] = n its competitive ratio is best near
// q = 1/sqrt(p_max), which is used when Q is zero.
type Threshold struct {
	Q float64

	inst      *Instance
	threshold int
}

// NewThreshold creates a Threshold policy with multiplier q (0 = 1/sqrt(p_max)).
func NewThreshold(q float64) *Threshold {
	return &Threshold{Q: q}
}

func (t *Threshold) Name() string     { return "threshold" }
func (t *Threshold) Kind() PolicyKind { return Deterministic }

// Setup computes the price threshold from the instance's p_max.
func (t *Threshold) Setup(inst *Instance) error {
	pMax, err := requireBounds(t.Name(), inst)
	if err != nil {
		return err
	}
	q := t.Q
	if q == 0 {
		q = 1 / math.Sqrt(float64(pMax))
	}
	t.inst = inst
	t.threshold = int(math.Floor(q * float64(pMax)))
	return nil
}

// Decide implements Policy.
func (t *Threshold) Decide(i, remaining, seats, price, _ int) int {
	if isLastDay(t.inst, i) || price <= t.threshold {
		return min(remaining, seats)
	}
	return 0
}

// PriceThreshold returns the threshold computed by the last Setup.
func (t *Threshold) PriceThreshold() int { return t.threshold }
