package physics

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
type VanDerPol struct {
	Mu float64 // Nonlinearity parameter
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{
		Mu: 1.0, // Classic value for limit cycle
	}
}

func (v *VanDerPol) Name() string            { return "vanderpol" }
func (v *VanDerPol) Dim() int                { return 2 }
func (v *VanDerPol) DefaultState() []float64 { return []float64{2.0, 0.0} }

func (v *VanDerPol) Derive(state, deriv []float64, _ float64) {
	x, y := state[0], state[1]
	deriv[0] = y
	deriv[1] = v.Mu*(1-x*x)*y - x
}

func (v *VanDerPol) Params() map[string]float64 {
	return map[string]float64{
		"mu": v.Mu,
	}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(v.Name(), name)
	}
	v.Mu = value
	return nil
}
