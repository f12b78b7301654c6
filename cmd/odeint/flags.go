package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/storage"
)

// runFlags are the flags shared by commands that build a run config.
type runFlags struct {
	configFile string
	preset     string
	method     string
	algebra    string
	dt         float64
	duration   float64
	t0         float64
	adaptive   bool
	absTol     float64
	relTol     float64
	maxSteps   int
	parallel   int
	every      int
	init       []float64
	params     []string
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	def := config.DefaultConfig()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration for the system")
	fs.StringVar(&f.method, "method", def.Method, "stepping method (see 'odeint steppers')")
	fs.StringVar(&f.algebra, "algebra", def.Algebra, "state container: array, range or vector")
	fs.Float64Var(&f.dt, "dt", def.Dt, "timestep, or initial step when adaptive")
	fs.Float64Var(&f.duration, "time", def.Duration, "duration")
	fs.Float64Var(&f.t0, "t0", def.T0, "start time")
	fs.BoolVar(&f.adaptive, "adaptive", def.Adaptive, "control the step size from the error estimate")
	fs.Float64Var(&f.absTol, "abs-tol", def.Tolerance.AbsTol, "absolute tolerance")
	fs.Float64Var(&f.relTol, "rel-tol", def.Tolerance.RelTol, "relative tolerance")
	fs.IntVar(&f.maxSteps, "max-steps", def.MaxSteps, "step budget, 0 for none")
	fs.IntVar(&f.parallel, "parallel", def.ParallelChunk, "split array updates into chunks of this size, 0 for serial")
	fs.IntVar(&f.every, "every", def.Output.Every, "record one state out of this many steps")
	fs.Float64SliceVar(&f.init, "init", nil, "initial state, comma separated")
	fs.StringSliceVar(&f.params, "param", nil, "system parameter as name=value, repeatable")
}

// resolve builds the config for system. Later sources win: defaults,
// preset, config file, ODEINT_* environment, then flags that were set. An
// empty system falls back to the file's, then the default. The result is
// not validated.
func (f *runFlags) resolve(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if system == "" {
		system = cfg.System
	}
	if f.preset != "" {
		p := config.GetPreset(system, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(system))
		}
		cfg = p
		if f.configFile != "" {
			loaded, err := config.LoadOver(f.configFile, p)
			if err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		}
	}
	cfg.System = system
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("method") {
		cfg.Method = f.method
	}
	if changed("algebra") {
		cfg.Algebra = f.algebra
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("t0") {
		cfg.T0 = f.t0
	}
	if changed("adaptive") {
		cfg.Adaptive = f.adaptive
	}
	if changed("abs-tol") {
		cfg.Tolerance.AbsTol = f.absTol
	}
	if changed("rel-tol") {
		cfg.Tolerance.RelTol = f.relTol
	}
	if changed("max-steps") {
		cfg.MaxSteps = f.maxSteps
	}
	if changed("parallel") {
		cfg.ParallelChunk = f.parallel
	}
	if changed("every") {
		cfg.Output.Every = f.every
	}
	if changed("init") {
		cfg.InitState = append([]float64(nil), f.init...)
	}
	if changed("param") {
		params, err := parseParams(f.params)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			cfg.Params[k] = v
		}
	}
	return cfg, nil
}

func parseParams(kvs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(kvs))
	for _, kv := range kvs {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --param %q: want name=value", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --param %q: %w", kv, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

// store opens the run store. --data wins over the config and environment.
func (a *app) store(cfg *config.Config) (*storage.Store, error) {
	dir := a.dataDir
	if dir == "" {
		if cfg == nil {
			cfg = config.DefaultConfig()
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
		}
		dir = cfg.Output.DataDir
	}
	st := storage.New(dir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
