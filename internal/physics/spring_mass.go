package physics

import "fmt"

const (
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a chain of masses joined by springs, anchored to a wall on
// the left and, when Stiffness has NumMasses+1 entries, on the right.
// State: [x1..xn, v1..vn].
type SpringMass struct {
	NumMasses int
	Masses    []float64
	Stiffness []float64
	Damping   []float64
	// Force is a constant external force on the first mass.
	Force float64
}

func NewSpringMass() *SpringMass {
	return &SpringMass{
		NumMasses: 1,
		Masses:    []float64{DefaultMass},
		Stiffness: []float64{DefaultStiffness},
		Damping:   []float64{DefaultDamping},
	}
}

func NewSpringMassChain(n int) *SpringMass {
	masses := make([]float64, n)
	stiffness := make([]float64, n+1)
	damping := make([]float64, n)

	for i := 0; i < n; i++ {
		masses[i] = DefaultMass
		stiffness[i] = DefaultStiffness
		damping[i] = 0.2
	}
	stiffness[n] = DefaultStiffness

	return &SpringMass{
		NumMasses: n,
		Masses:    masses,
		Stiffness: stiffness,
		Damping:   damping,
	}
}

func (s *SpringMass) Name() string { return "spring_mass" }
func (s *SpringMass) Dim() int     { return s.NumMasses * 2 }

// DefaultState displaces the first mass by one unit.
func (s *SpringMass) DefaultState() []float64 {
	x := make([]float64, s.Dim())
	if s.NumMasses > 0 {
		x[0] = 1
	}
	return x
}

func (s *SpringMass) Derive(x, dx []float64, _ float64) {
	n := s.NumMasses
	for i := 0; i < n; i++ {
		dx[i] = x[n+i]
	}

	for i := 0; i < n; i++ {
		pos, vel := x[i], x[n+i]

		var forceLeft, forceRight float64
		if i == 0 {
			forceLeft = -s.Stiffness[0] * pos
		} else {
			forceLeft = -s.Stiffness[i] * (pos - x[i-1])
		}

		if i == n-1 {
			if len(s.Stiffness) > n {
				forceRight = -s.Stiffness[n] * pos
			}
		} else {
			forceRight = -s.Stiffness[i+1] * (pos - x[i+1])
		}

		totalForce := forceLeft + forceRight - s.Damping[i]*vel
		if i == 0 {
			totalForce += s.Force
		}
		dx[n+i] = totalForce / s.Masses[i]
	}
}

func (s *SpringMass) Energy(x []float64) float64 {
	n := s.NumMasses
	energy := 0.0

	for i := 0; i < n; i++ {
		v := x[n+i]
		energy += 0.5 * s.Masses[i] * v * v
	}

	for i := 0; i < n; i++ {
		pos := x[i]
		if i == 0 {
			energy += 0.5 * s.Stiffness[0] * pos * pos
		} else {
			stretch := pos - x[i-1]
			energy += 0.5 * s.Stiffness[i] * stretch * stretch
		}
	}

	if len(s.Stiffness) > n {
		energy += 0.5 * s.Stiffness[n] * x[n-1] * x[n-1]
	}

	return energy
}

// Params reports uniform chain parameters; setting one applies it to
// every mass or spring.
func (s *SpringMass) Params() map[string]float64 {
	p := map[string]float64{"force": s.Force, "masses": float64(s.NumMasses)}
	if s.NumMasses > 0 {
		p["mass"] = s.Masses[0]
		p["stiffness"] = s.Stiffness[0]
		p["damping"] = s.Damping[0]
	}
	return p
}

func (s *SpringMass) SetParam(name string, value float64) error {
	switch name {
	case "force":
		s.Force = value
	case "mass":
		fill(s.Masses, value)
	case "stiffness":
		fill(s.Stiffness, value)
	case "damping":
		fill(s.Damping, value)
	case "masses":
		n := int(value)
		if n < 1 || float64(n) != value {
			return fmt.Errorf("physics: spring_mass needs a positive whole number of masses, got %g", value)
		}
		resized := NewSpringMassChain(n)
		if s.NumMasses > 0 {
			fill(resized.Masses, s.Masses[0])
			fill(resized.Stiffness, s.Stiffness[0])
			fill(resized.Damping, s.Damping[0])
		}
		resized.Force = s.Force
		*s = *resized
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}

func fill(xs []float64, v float64) {
	for i := range xs {
		xs[i] = v
	}
}
