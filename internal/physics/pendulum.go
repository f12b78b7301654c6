package physics

import "math"

type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
	// Torque is a constant drive applied at the pivot.
	Torque float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) Name() string            { return "pendulum" }
func (p *Pendulum) Dim() int                { return 2 }
func (p *Pendulum) DefaultState() []float64 { return []float64{math.Pi / 4, 0} }

func (p *Pendulum) Derive(x, dxdt []float64, _ float64) {
	theta, omega := x[0], x[1]
	dxdt[0] = omega
	dxdt[1] = (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta) + p.Torque) / (p.Mass * p.Length * p.Length)
}

func (p *Pendulum) Energy(x []float64) float64 {
	// KE = 0.5 * m * (L*omega)^2
	// PE = m * g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p *Pendulum) Params() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
		"torque":  p.Torque,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "length":
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	case "torque":
		p.Torque = value
	default:
		return unknownParam(p.Name(), name)
	}
	return nil
}
