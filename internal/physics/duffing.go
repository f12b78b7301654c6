package physics

import "math"

// Duffing implements a nonlinear forced oscillator. The drive phase is
// carried as a third state component so the system stays autonomous.
// State: [x, v, phi].
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{-1.0, 1.0, 0.3, 0.5, 1.2}
}

func (d *Duffing) Name() string            { return "duffing" }
func (d *Duffing) Dim() int                { return 3 }
func (d *Duffing) DefaultState() []float64 { return []float64{1.0, 0.0, 0.0} }

func (d *Duffing) Derive(s, dsdt []float64, _ float64) {
	x, v, phi := s[0], s[1], s[2]
	dsdt[0] = v
	dsdt[1] = -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(phi)
	dsdt[2] = d.Omega
}

// Energy is the unforced potential plus kinetic energy.
func (d *Duffing) Energy(s []float64) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) Params() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(n string, v float64) error {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		d.Delta = v
	case "gamma":
		d.Gamma = v
	case "omega":
		d.Omega = v
	default:
		return unknownParam(d.Name(), n)
	}
	return nil
}
