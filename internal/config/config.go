package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSystem      = "harmonic"
	DefaultMethod      = MethodDopri5
	DefaultStart       = 0.0
	DefaultEnd         = 10.0
	DefaultTolerance   = 1e-6
	DefaultSteps       = 1000
	DefaultMaxAttempts = 1000
	DefaultBound       = 1e6
)

// Integration methods. Only dopri5 is adaptive.
const (
	MethodDopri5   = "dopri5"
	MethodRK4      = "rk4"
	MethodEuler    = "euler"
	MethodVerlet   = "verlet"
	MethodLeapfrog = "leapfrog"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	System       string             `yaml:"system"`
	Method       string             `yaml:"method"`
	Start        float64            `yaml:"start"`
	End          float64            `yaml:"end"`
	Tolerance    float64            `yaml:"tolerance"`
	Steps        int                `yaml:"steps"`
	InitialState []float64          `yaml:"initial_state,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty"`
	InitialStep  float64            `yaml:"initial_step,omitempty"`
	MaxAttempts  int                `yaml:"max_attempts"`
	ExactEnd     bool               `yaml:"exact_end"`
	// Bound is the largest state component magnitude counted as stable.
	Bound float64 `yaml:"bound,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		System:      DefaultSystem,
		Method:      DefaultMethod,
		Start:       DefaultStart,
		End:         DefaultEnd,
		Tolerance:   DefaultTolerance,
		Steps:       DefaultSteps,
		MaxAttempts: DefaultMaxAttempts,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Adaptive() bool { return c.Method == MethodDopri5 }

func (c *Config) Interval() [2]float64 { return [2]float64{c.Start, c.End} }

// StabilityBound returns Bound, or DefaultBound when it is unset.
func (c *Config) StabilityBound() float64 {
	if c.Bound > 0 {
		return c.Bound
	}
	return DefaultBound
}

// Validate checks the fields the selected method depends on.
func (c *Config) Validate() error {
	switch c.Method {
	case MethodDopri5, MethodRK4, MethodEuler, MethodVerlet, MethodLeapfrog:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, c.Method)
	}
	if c.System == "" {
		return fmt.Errorf("%w: system is required", ErrInvalidConfig)
	}
	if !(c.Start < c.End) {
		return fmt.Errorf("%w: start %g must precede end %g", ErrInvalidConfig, c.Start, c.End)
	}
	if c.Bound < 0 {
		return fmt.Errorf("%w: bound must not be negative, got %g", ErrInvalidConfig, c.Bound)
	}
	if c.Adaptive() {
		if !(c.Tolerance > 0) {
			return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.Tolerance)
		}
		if c.InitialStep < 0 {
			return fmt.Errorf("%w: initial step must not be negative, got %g", ErrInvalidConfig, c.InitialStep)
		}
	} else if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, c.Steps)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.InitialState != nil {
		out.InitialState = append([]float64(nil), c.InitialState...)
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
