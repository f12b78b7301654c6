package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odeint/internal/adaptive"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/physics"
	"github.com/san-kum/odeint/internal/tableau"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultSystem   = "pendulum"
	DefaultMethod   = "rk4"
	DefaultAlgebra  = AlgebraArray
	DefaultDataDir  = ".odeint"
)

// State container representations a run can step.
const (
	AlgebraArray  = "array"
	AlgebraRange  = "range"
	AlgebraVector = "vector"
)

type Config struct {
	System        string             `yaml:"system"         env:"ODEINT_SYSTEM"`
	Method        string             `yaml:"method"         env:"ODEINT_METHOD"`
	Algebra       string             `yaml:"algebra"        env:"ODEINT_ALGEBRA"`
	ParallelChunk int                `yaml:"parallel_chunk" env:"ODEINT_PARALLEL_CHUNK"`
	Adaptive      bool               `yaml:"adaptive"       env:"ODEINT_ADAPTIVE"`
	T0            float64            `yaml:"t0"             env:"ODEINT_T0"`
	Dt            float64            `yaml:"dt"             env:"ODEINT_DT"`
	Duration      float64            `yaml:"duration"       env:"ODEINT_DURATION"`
	MaxSteps      int                `yaml:"max_steps"      env:"ODEINT_MAX_STEPS"`
	InitState     []float64          `yaml:"init_state"     env:"ODEINT_INIT_STATE" envSeparator:","`
	Params        map[string]float64 `yaml:"params"`
	Tolerance     ToleranceConfig    `yaml:"tolerance"`
	Output        OutputConfig       `yaml:"output"`
}

// ToleranceConfig mirrors adaptive.Config for run files.
type ToleranceConfig struct {
	AbsTol    float64 `yaml:"abs_tol"    env:"ODEINT_ABS_TOL"`
	RelTol    float64 `yaml:"rel_tol"    env:"ODEINT_REL_TOL"`
	Safety    float64 `yaml:"safety"     env:"ODEINT_SAFETY"`
	MaxGrowth float64 `yaml:"max_growth" env:"ODEINT_MAX_GROWTH"`
	MinShrink float64 `yaml:"min_shrink" env:"ODEINT_MIN_SHRINK"`
	MinDt     float64 `yaml:"min_dt"     env:"ODEINT_MIN_DT"`
	MaxDt     float64 `yaml:"max_dt"     env:"ODEINT_MAX_DT"`
	Policy    string  `yaml:"policy"     env:"ODEINT_TOL_POLICY"`
}

type OutputConfig struct {
	DataDir string `yaml:"data_dir" env:"ODEINT_DATA_DIR"`
	// Every records one state out of this many accepted steps.
	Every int `yaml:"every" env:"ODEINT_RECORD_EVERY"`
}

func DefaultConfig() *Config {
	tol := adaptive.DefaultConfig()
	return &Config{
		System:   DefaultSystem,
		Method:   DefaultMethod,
		Algebra:  DefaultAlgebra,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Tolerance: ToleranceConfig{
			AbsTol:    tol.AbsTol,
			RelTol:    tol.RelTol,
			Safety:    tol.Safety,
			MaxGrowth: tol.MaxGrowth,
			MinShrink: tol.MinShrink,
			MinDt:     tol.MinDt,
			MaxDt:     tol.MaxDt,
			Policy:    tol.Policy,
		},
		Output: OutputConfig{
			DataDir: DefaultDataDir,
			Every:   1,
		},
	}
}

// Load reads a YAML run file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML run file over a copy of base. Keys absent from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// ApplyEnv overrides fields from ODEINT_* variables. Unset variables
// leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func (c *Config) AdaptiveConfig() adaptive.Config {
	t := c.Tolerance
	return adaptive.Config{
		AbsTol:    t.AbsTol,
		RelTol:    t.RelTol,
		Safety:    t.Safety,
		MaxGrowth: t.MaxGrowth,
		MinShrink: t.MinShrink,
		MinDt:     t.MinDt,
		MaxDt:     t.MaxDt,
		Policy:    t.Policy,
	}
}

// Model builds the configured system with its parameters applied.
func (c *Config) Model() (physics.Model, error) {
	m, err := physics.New(c.System)
	if err != nil {
		return nil, err
	}
	if err := physics.Configure(m, c.Params); err != nil {
		return nil, err
	}
	return m, nil
}

// InitialState returns a copy of the configured state, or the model's
// default when none is set.
func (c *Config) InitialState(m physics.Model) []float64 {
	if len(c.InitState) == 0 {
		return m.DefaultState()
	}
	return append([]float64(nil), c.InitState...)
}

func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	m, err := c.Model()
	if err != nil {
		errs = append(errs, err)
	} else if n := len(c.InitState); n > 0 && n != m.Dim() {
		bad("init_state has %d components, %s needs %d", n, c.System, m.Dim())
	}

	tab, err := tableau.Lookup(c.Method)
	if err != nil {
		errs = append(errs, err)
	} else if c.Adaptive && !tab.Embedded() {
		bad("method %s has no error estimate and cannot run adaptively", c.Method)
	}

	switch c.Algebra {
	case AlgebraArray, AlgebraRange, AlgebraVector:
	default:
		bad("unknown algebra %q", c.Algebra)
	}
	if c.ParallelChunk < 0 {
		bad("parallel_chunk must not be negative, got %d", c.ParallelChunk)
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		bad("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 || math.IsInf(c.Duration, 0) || math.IsNaN(c.Duration) {
		bad("duration must be positive, got %g", c.Duration)
	}
	if c.MaxSteps < 0 {
		bad("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if c.Output.Every < 1 {
		bad("output.every must be at least 1, got %d", c.Output.Every)
	}
	if c.Adaptive {
		if err := c.AdaptiveConfig().Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitState = append([]float64(nil), c.InitState...)
	if c.Params != nil {
		cp.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			cp.Params[k] = v
		}
	}
	return &cp
}
