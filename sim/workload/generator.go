package workload

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"

	"github.com/sirupsen/logrus"

	sim "github.com/strike-sim/strike-sim/sim"
)

// maxRedraws bounds the attempts to draw one valid instance.
const maxRedraws = 100

// GeneratorConfig describes a family of random bounded instances.
//
// A zero Seats range gives every day n seats. Generated instances are
// bounded with p_max = Price.Max and h_max = Wait.Max.
type GeneratorConfig struct {
	Count        int      `yaml:"count" validate:"gte=0"`
	N            IntRange `yaml:"n"`
	M            IntRange `yaml:"m"`
	Seats        IntRange `yaml:"seats"`
	Price        IntRange `yaml:"price"`
	Wait         IntRange `yaml:"wait"`
	Distribution string   `yaml:"distribution" validate:"omitempty,oneof=uniform normal"`
	// FullLastDay raises the last day's seats to n so that every online
	// policy can finish, whatever it did before.
	FullLastDay bool `yaml:"full_last_day"`
}

// Validate checks field ranges.
func (c *GeneratorConfig) Validate() error {
	if err := sim.ValidateStruct(c); err != nil {
		return err
	}
	switch {
	case c.N.Min < 1:
		return fmt.Errorf("n must be at least 1, got %v", c.N)
	case c.M.Min < 1:
		return fmt.Errorf("m must be at least 1, got %v", c.M)
	case c.Price.Min < 1:
		return fmt.Errorf("price must be at least 1, got %v", c.Price)
	case c.Seats != (IntRange{}) && c.Seats.Min < 1:
		return fmt.Errorf("seats must be at least 1, got %v", c.Seats)
	}
	return nil
}

// Generator draws instances from a GeneratorConfig. Not safe for concurrent use.
type Generator struct {
	cfg                         GeneratorConfig
	rng                         *rand.Rand
	n, m, seats, price, waiting IntSampler
}

// NewGenerator validates cfg and binds it to rng.
func NewGenerator(cfg GeneratorConfig, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	g := &Generator{cfg: cfg, rng: rng}
	var err error
	if g.n, err = NewIntSampler(cfg.Distribution, cfg.N); err != nil {
		return nil, fmt.Errorf("n: %w", err)
	}
	if g.m, err = NewIntSampler(cfg.Distribution, cfg.M); err != nil {
		return nil, fmt.Errorf("m: %w", err)
	}
	if cfg.Seats != (IntRange{}) {
		if g.seats, err = NewIntSampler(cfg.Distribution, cfg.Seats); err != nil {
			return nil, fmt.Errorf("seats: %w", err)
		}
	}
	if g.price, err = NewIntSampler(cfg.Distribution, cfg.Price); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	if g.waiting, err = NewIntSampler(cfg.Distribution, cfg.Wait); err != nil {
		return nil, fmt.Errorf("wait: %w", err)
	}
	return g, nil
}

// Next draws one instance. Draws that break sum(s) >= n are discarded and
// redrawn; after maxRedraws failures an error wrapping
// sim.ErrInvalidInstance is returned.
func (g *Generator) Next() (*sim.Instance, error) {
	var lastErr error
	for attempt := 0; attempt < maxRedraws; attempt++ {
		inst, err := g.draw()
		if err == nil {
			return inst, nil
		}
		if !errors.Is(err, sim.ErrInvalidInstance) {
			return nil, err
		}
		lastErr = err
		logrus.Tracef("redrawing instance: %v", err)
	}
	return nil, fmt.Errorf("no valid instance after %d draws: %w", maxRedraws, lastErr)
}

func (g *Generator) draw() (*sim.Instance, error) {
	n := g.n.Sample(g.rng)
	m := g.m.Sample(g.rng)
	s := make([]int, m)
	p := make([]int, m)
	h := make([]int, m)
	for i := 0; i < m; i++ {
		if g.seats == nil {
			s[i] = n
		} else {
			s[i] = g.seats.Sample(g.rng)
		}
		p[i] = g.price.Sample(g.rng)
		h[i] = g.waiting.Sample(g.rng)
	}
	if g.cfg.FullLastDay {
		s[m-1] = max(s[m-1], n)
	}
	return sim.NewBoundedInstance(n, m, s, p, h, g.cfg.Price.Max, g.cfg.Wait.Max)
}

// Generate draws cfg.Count instances from rng.
// Deterministic given the same config and RNG state.
func Generate(cfg GeneratorConfig, rng *rand.Rand) ([]*sim.Instance, error) {
	g, err := NewGenerator(cfg, rng)
	if err != nil {
		return nil, err
	}
	out := make([]*sim.Instance, 0, cfg.Count)
	for k := 0; k < cfg.Count; k++ {
		inst, err := g.Next()
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", k, err)
		}
		out = append(out, inst)
	}
	return out, nil
}

// Stream lazily yields cfg.Count instances, or an unbounded sequence when
// Count is zero. The sequence stops at the first error, which is stored in
// *errp; consumers check it after the loop.
func Stream(cfg GeneratorConfig, rng *rand.Rand, errp *error) iter.Seq[*sim.Instance] {
	return func(yield func(*sim.Instance) bool) {
		g, err := NewGenerator(cfg, rng)
		if err != nil {
			*errp = err
			return
		}
		for k := 0; cfg.Count == 0 || k < cfg.Count; k++ {
			inst, err := g.Next()
			if err != nil {
				*errp = fmt.Errorf("instance %d: %w", k, err)
				return
			}
			if !yield(inst) {
				return
			}
		}
	}
}
