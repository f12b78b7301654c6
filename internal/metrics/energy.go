package metrics

import (
	"math"

	"github.com/san-kum/odeint/internal/physics"
)

// Energy reports the mean energy over the observed states.
type Energy struct {
	name        string
	h           physics.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(h physics.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		h:    h,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x []float64, t float64) {
	e.totalEnergy += e.h.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the first
// observed energy. Models without an energy report zero.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	model         physics.Model
}

func NewEnergyDrift(model physics.Model) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		model: model,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x []float64, t float64) {
	ec, ok := e.model.(physics.Hamiltonian)
	if !ok {
		return
	}

	energy := ec.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the most recently observed energy.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
