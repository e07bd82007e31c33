package sim

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PolicyConfig selects an online policy and its parameters, loadable from YAML.
// Nil pointer fields mean "not set" and fall back to the policy's default.
type PolicyConfig struct {
	Name          string   `yaml:"name"`
	Q             *float64 `yaml:"q,omitempty"`
	Alpha         *float64 `yaml:"alpha,omitempty"`
	Beta          *float64 `yaml:"beta,omitempty"`
	Interpolation string   `yaml:"interpolation,omitempty"`
}

// Default Proximity anchors, as used for the published sweeps.
const (
	DefaultProximityAlpha = 0.9
	DefaultProximityBeta  = 0.1
)

// ValidPolicies is the set of recognized online policy names.
// Shared by Validate() and NewPolicy() to avoid duplication.
var ValidPolicies = map[string]bool{
	"threshold":         true,
	"greedy":            true,
	"greedy-exhaustive": true,
	"proximity":         true,
	"uniform-random":    true,
}

// IsValidPolicy returns true if name is a recognized online policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// PolicyNames returns the recognized policy names in sorted order.
func PolicyNames() []string {
	names := make([]string, 0, len(ValidPolicies))
	for name := range ValidPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPolicyConfig reads and parses a YAML policy configuration file.
// Unknown fields are rejected.
func LoadPolicyConfig(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var cfg PolicyConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the policy name and parameter ranges.
func (c PolicyConfig) Validate() error {
	if !IsValidPolicy(c.Name) {
		return fmt.Errorf("unknown policy %q", c.Name)
	}
	if c.Q != nil && *c.Q < 0 {
		return fmt.Errorf("q must be non-negative, got %f", *c.Q)
	}
	if c.Alpha != nil && (*c.Alpha < 0 || *c.Alpha > 1) {
		return fmt.Errorf("alpha must lie in [0, 1], got %f", *c.Alpha)
	}
	if c.Beta != nil && (*c.Beta < 0 || *c.Beta > 1) {
		return fmt.Errorf("beta must lie in [0, 1], got %f", *c.Beta)
	}
	switch c.Interpolation {
	case "", InterpolationQuadratic, InterpolationLinear:
	default:
		return fmt.Errorf("unknown interpolation %q", c.Interpolation)
	}
	return nil
}

// PolicyFactory builds a fresh policy drawing from rng. Deterministic
// policies ignore rng.
type PolicyFactory func(rng *rand.Rand) Policy

// Factory returns a PolicyFactory for c.
func (c PolicyConfig) Factory() PolicyFactory {
	return func(rng *rand.Rand) Policy {
		return NewPolicy(c, rng)
	}
}

// NewPolicy creates an online policy by name.
// Valid names are defined in ValidPolicies. Panics on unrecognized names.
func NewPolicy(c PolicyConfig, rng *rand.Rand) Policy {
	if !IsValidPolicy(c.Name) {
		panic(fmt.Sprintf("unknown policy %q", c.Name))
	}
	switch c.Name {
	case "threshold":
		return NewThreshold(valueOr(c.Q, 0))
	case "greedy":
		return NewGreedy()
	case "greedy-exhaustive":
		return NewGreedyExhaustive()
	case "proximity":
		return NewProximity(valueOr(c.Alpha, DefaultProximityAlpha), valueOr(c.Beta, DefaultProximityBeta),
			c.Interpolation, rng)
	case "uniform-random":
		return NewUniformRandom(rng)
	default:
		panic(fmt.Sprintf("unhandled policy %q", c.Name))
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
