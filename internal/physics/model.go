package physics

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownModel = errors.New("physics: unknown model")
	ErrUnknownParam = errors.New("physics: unknown parameter")
)

// Model is a first-order system dx/dt = f(x, t). Derive must fill every
// element of dxdt and must not modify x.
type Model interface {
	Name() string
	Dim() int
	Derive(x, dxdt []float64, t float64)
	DefaultState() []float64
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Hamiltonian is implemented by models with a conserved or dissipated
// energy.
type Hamiltonian interface {
	Energy(x []float64) float64
}

var registry = map[string]func() Model{
	"constant":    func() Model { return NewConstant() },
	"decay":       func() Model { return NewDecay() },
	"harmonic":    func() Model { return NewHarmonic() },
	"pendulum":    func() Model { return NewPendulum() },
	"spring_mass": func() Model { return NewSpringMassChain(3) },
	"vanderpol":   func() Model { return NewVanDerPol() },
	"duffing":     func() Model { return NewDuffing() },
	"lorenz":      func() Model { return NewLorenz() },
}

// New returns a fresh model with default parameters.
func New(name string) (Model, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Configure applies params to m, stopping at the first unknown name.
func Configure(m Model, params map[string]float64) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s has no %q", ErrUnknownParam, model, name)
}
