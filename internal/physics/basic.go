package physics

import "math"

// Constant has the same derivative in every component.
type Constant struct {
	N    int
	Rate float64
}

func NewConstant() *Constant { return &Constant{N: 1, Rate: 1} }

func (c *Constant) Name() string            { return "constant" }
func (c *Constant) Dim() int                { return c.N }
func (c *Constant) DefaultState() []float64 { return make([]float64, c.N) }

func (c *Constant) Derive(x, dxdt []float64, _ float64) {
	for i := range dxdt {
		dxdt[i] = c.Rate
	}
}

func (c *Constant) Params() map[string]float64 {
	return map[string]float64{"rate": c.Rate}
}

func (c *Constant) SetParam(name string, value float64) error {
	if name != "rate" {
		return unknownParam(c.Name(), name)
	}
	c.Rate = value
	return nil
}

// Decay is dx/dt = -k*x, solved exactly by x0*exp(-k*t).
type Decay struct {
	K float64
}

func NewDecay() *Decay { return &Decay{K: 1} }

func (d *Decay) Name() string            { return "decay" }
func (d *Decay) Dim() int                { return 1 }
func (d *Decay) DefaultState() []float64 { return []float64{1} }

func (d *Decay) Derive(x, dxdt []float64, _ float64) {
	dxdt[0] = -d.K * x[0]
}

// Exact returns the analytic solution at t.
func (d *Decay) Exact(x0, t float64) float64 { return x0 * math.Exp(-d.K*t) }

func (d *Decay) Params() map[string]float64 { return map[string]float64{"k": d.K} }

func (d *Decay) SetParam(name string, value float64) error {
	if name != "k" {
		return unknownParam(d.Name(), name)
	}
	d.K = value
	return nil
}

// Harmonic is the unit-mass oscillator with acceleration -omega^2 x.
// State: [x, v].
type Harmonic struct {
	Omega float64
}

func NewHarmonic() *Harmonic { return &Harmonic{Omega: 1} }

func (h *Harmonic) Name() string            { return "harmonic" }
func (h *Harmonic) Dim() int                { return 2 }
func (h *Harmonic) DefaultState() []float64 { return []float64{1, 0} }

func (h *Harmonic) Derive(x, dxdt []float64, _ float64) {
	dxdt[0] = x[1]
	dxdt[1] = -h.Omega * h.Omega * x[0]
}

func (h *Harmonic) Energy(x []float64) float64 {
	return 0.5 * (x[1]*x[1] + h.Omega*h.Omega*x[0]*x[0])
}

func (h *Harmonic) Params() map[string]float64 { return map[string]float64{"omega": h.Omega} }

func (h *Harmonic) SetParam(name string, value float64) error {
	if name != "omega" {
		return unknownParam(h.Name(), name)
	}
	h.Omega = value
	return nil
}
