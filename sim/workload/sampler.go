package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// Distribution names accepted by GeneratorConfig.
const (
	DistUniform = "uniform"
	DistNormal  = "normal"
)

// IntRange is an inclusive range of integers.
type IntRange struct {
	Min int `yaml:"min" validate:"gte=0"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// Fixed returns the range holding only v.
func Fixed(v int) IntRange { return IntRange{Min: v, Max: v} }

func (r IntRange) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// IntSampler draws integers from a fixed range.
type IntSampler interface {
	Sample(rng *rand.Rand) int
}

// UniformSampler draws uniformly from [min, max].
type UniformSampler struct {
	min, max int
}

func (s *UniformSampler) Sample(rng *rand.Rand) int {
	if s.min == s.max {
		return s.min
	}
	return s.min + rng.Intn(s.max-s.min+1)
}

// NormalSampler draws a rounded Gaussian centred on the range midpoint with
// three standard deviations to either bound, clamped into the range.
type NormalSampler struct {
	mean, stdDev float64
	min, max     int
}

func (s *NormalSampler) Sample(rng *rand.Rand) int {
	if s.min == s.max {
		return s.min
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	clamped := math.Min(float64(s.max), math.Max(float64(s.min), val))
	return int(math.Round(clamped))
}

// NewIntSampler creates a sampler for r under the named distribution.
func NewIntSampler(dist string, r IntRange) (IntSampler, error) {
	if r.Max < r.Min {
		return nil, fmt.Errorf("empty range %v", r)
	}
	switch dist {
	case "", DistUniform:
		return &UniformSampler{min: r.Min, max: r.Max}, nil
	case DistNormal:
		return &NormalSampler{
			mean:   float64(r.Min+r.Max) / 2,
			stdDev: float64(r.Max-r.Min) / 6,
			min:    r.Min,
			max:    r.Max,
		}, nil
	default:
		return nil, fmt.Errorf("unknown distribution %q; valid: uniform, normal", dist)
	}
}
