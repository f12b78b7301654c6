package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/metrics"
	"github.com/san-kum/odeint/internal/physics"
	"github.com/san-kum/odeint/internal/stepper"
	"github.com/san-kum/odeint/internal/tableau"
)

// Method names a stepping scheme. Tableau is nil for categories that have
// no explicit Runge-Kutta form.
type Method struct {
	Name     string
	Category stepper.SystemCategory
	Tableau  *tableau.Tableau
}

// Embedded reports whether the method can drive an adaptive run.
func (m Method) Embedded() bool { return m.Tableau != nil && m.Tableau.Embedded() }

type Registry struct {
	methods map[string]Method
}

// NewRegistry knows every built-in tableau.
func NewRegistry() *Registry {
	r := &Registry{methods: make(map[string]Method)}
	for _, name := range tableau.Names() {
		tab, _ := tableau.Lookup(name)
		r.methods[name] = Method{Name: name, Category: stepper.ExplicitSystem, Tableau: tab}
	}
	return r
}

// Register adds or replaces a method. Explicit methods must carry a valid
// tableau.
func (r *Registry) Register(m Method) error {
	if m.Name == "" {
		return fmt.Errorf("experiment: method needs a name: %w", dynamo.ErrInvalidConfig)
	}
	if m.Category == stepper.ExplicitSystem {
		if m.Tableau == nil {
			return fmt.Errorf("experiment: method %s has no tableau: %w", m.Name, dynamo.ErrInvalidTableau)
		}
		if err := m.Tableau.Validate(); err != nil {
			return err
		}
	}
	r.methods[m.Name] = m
	return nil
}

func (r *Registry) GetMethod(name string) (Method, error) {
	m, ok := r.methods[name]
	if !ok {
		return Method{}, fmt.Errorf("experiment: unknown method: %s", name)
	}
	if m.Tableau != nil {
		m.Tableau = m.Tableau.Clone()
	}
	return m, nil
}

func (r *Registry) ListMethods() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) GetModel(name string) (physics.Model, error) {
	return physics.New(name)
}

func (r *Registry) ListModels() []string {
	return physics.Names()
}

func (r *Registry) DefaultMetrics(model physics.Model) []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewEnergyDrift(model),
		metrics.NewStability(1e6),
	}
	if h, ok := model.(physics.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h))
	}
	return ms
}
