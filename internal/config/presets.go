package config

import (
	"math"
	"sort"
)

func preset(system, method string, dt, duration float64, init []float64, mods ...func(*Config)) *Config {
	c := DefaultConfig()
	c.System, c.Method, c.Dt, c.Duration, c.InitState = system, method, dt, duration, init
	for _, m := range mods {
		m(c)
	}
	return c
}

func adaptiveRun(c *Config) { c.Adaptive = true }

func params(p map[string]float64) func(*Config) {
	return func(c *Config) { c.Params = p }
}

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small":    preset("pendulum", "rk4", 0.01, 20.0, []float64{0.2, 0.0}),
		"large":    preset("pendulum", "rk4", 0.01, 20.0, []float64{2.5, 0.0}),
		"spinning": preset("pendulum", "rk4", 0.01, 30.0, []float64{0.1, 8.0}),
		"adaptive": preset("pendulum", "dopri5", 0.1, 20.0, []float64{2.5, 0.0}, adaptiveRun),
	},
	"harmonic": {
		"circle":   preset("harmonic", "rk4", 0.01, 2*math.Pi, []float64{1, 0}),
		"longhaul": preset("harmonic", "dopri5", 0.1, 1000, []float64{1, 0}, adaptiveRun),
	},
	"decay": {
		"euler": preset("decay", "euler", 0.1, 1.0, []float64{1}),
		"exact": preset("decay", "fehlberg78", 0.1, 1.0, []float64{1}, adaptiveRun),
	},
	"spring_mass": {
		"bounce": preset("spring_mass", "rk4", 0.01, 20.0, []float64{2.0, 0.0}, params(map[string]float64{"masses": 1})),
		"fast":   preset("spring_mass", "rk4", 0.01, 10.0, []float64{1.0, 5.0}, params(map[string]float64{"masses": 1})),
		"chain":  preset("spring_mass", "cash_karp54", 0.01, 30.0, nil, params(map[string]float64{"masses": 8}), adaptiveRun),
	},
	"vanderpol": {
		"limit_cycle": preset("vanderpol", "rk4", 0.01, 30.0, []float64{2.0, 0.0}),
		"relaxation":  preset("vanderpol", "dopri5", 0.01, 60.0, []float64{2.0, 0.0}, params(map[string]float64{"mu": 8}), adaptiveRun),
	},
	"duffing": {
		"chaotic": preset("duffing", "rk4", 0.01, 100.0, []float64{1.0, 0.0, 0.0}),
	},
	"lorenz": {
		"butterfly": preset("lorenz", "dopri5", 0.01, 40.0, []float64{1.0, 1.0, 1.0}, adaptiveRun),
		"fixed":     preset("lorenz", "rk4", 0.005, 40.0, []float64{1.0, 1.0, 1.0}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(system, name string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names for system in sorted order.
func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
