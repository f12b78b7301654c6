package physics

import (
	"errors"
	"math"
	"testing"
)

func derive(m Model, x []float64) []float64 {
	dx := make([]float64, m.Dim())
	m.Derive(x, dx, 0)
	return dx
}

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := derive(p, []float64{0, 0})

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0

	dx := derive(p, []float64{math.Pi / 2, 0})

	expectedAccel := -p.Gravity / p.Length
	if math.Abs(dx[1]-expectedAccel) > 1e-6 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestPendulumTorque(t *testing.T) {
	p := NewPendulum()
	if err := p.SetParam("torque", 2); err != nil {
		t.Fatal(err)
	}
	dx := derive(p, []float64{0, 0})
	if math.Abs(dx[1]-2) > 1e-12 {
		t.Errorf("expected torque to drive acceleration 2, got %f", dx[1])
	}
}

func TestSpringMassDerivative_Equilibrium(t *testing.T) {
	sm := NewSpringMass()
	dx := derive(sm, []float64{0.0, 0.0})

	if dx[0] != 0 {
		t.Errorf("velocity at equilibrium should be 0, got %f", dx[0])
	}
	if dx[1] != 0 {
		t.Errorf("acceleration at equilibrium should be 0, got %f", dx[1])
	}
}

func TestSpringMassDerivative_Displaced(t *testing.T) {
	sm := NewSpringMass()
	dx := derive(sm, []float64{1.0, 0.0})

	if dx[0] != 0 {
		t.Errorf("velocity should be 0, got %f", dx[0])
	}
	expectedAcc := -DefaultStiffness * 1.0 / DefaultMass
	if math.Abs(dx[1]-expectedAcc) > 0.001 {
		t.Errorf("expected acceleration %f, got %f", expectedAcc, dx[1])
	}
}

func TestSpringMassEnergy(t *testing.T) {
	sm := NewSpringMass()

	e1 := sm.Energy([]float64{1.0, 0.0})
	e2 := sm.Energy([]float64{0.0, 3.16})

	if math.Abs(e1-e2) > 1.0 {
		t.Errorf("energy should be approximately conserved: PE=%f, KE=%f", e1, e2)
	}
}

func TestSpringMassChain(t *testing.T) {
	chain := NewSpringMassChain(3)
	if chain.Dim() != 6 {
		t.Errorf("expected 6 states, got %d", chain.Dim())
	}

	dx := derive(chain, make([]float64, 6))
	for i, v := range dx {
		if v != 0 {
			t.Errorf("expected zero derivative at rest, index %d got %f", i, v)
		}
	}

	if err := chain.SetParam("masses", 5); err != nil {
		t.Fatal(err)
	}
	if chain.Dim() != 10 {
		t.Errorf("expected 10 states after resize, got %d", chain.Dim())
	}
	if err := chain.SetParam("masses", 2.5); err == nil {
		t.Error("expected error for fractional mass count")
	}
}

func TestHarmonicEnergy(t *testing.T) {
	h := NewHarmonic()
	h.Omega = 2
	if e := h.Energy([]float64{1, 0}); e != 2 {
		t.Errorf("expected energy 2, got %f", e)
	}
}

func TestDecayExact(t *testing.T) {
	d := NewDecay()
	d.K = 0.5
	if got := d.Exact(2, 2); math.Abs(got-2*math.Exp(-1)) > 1e-15 {
		t.Errorf("unexpected exact solution %f", got)
	}
}

func TestLorenzFixedPoint(t *testing.T) {
	l := NewLorenz()
	c := math.Sqrt(l.Beta * (l.Rho - 1))
	dx := derive(l, []float64{c, c, l.Rho - 1})
	for i, v := range dx {
		if math.Abs(v) > 1e-12 {
			t.Errorf("expected fixed point, derivative %d = %g", i, v)
		}
	}
}

func TestVanDerPolLimitCycleSign(t *testing.T) {
	v := NewVanDerPol()
	// Inside the cycle the damping term pumps energy in.
	dx := derive(v, []float64{0.1, 1})
	if dx[1] <= 0 {
		t.Errorf("expected positive acceleration near origin, got %f", dx[1])
	}
}

func TestDuffingPhaseAdvances(t *testing.T) {
	d := NewDuffing()
	dx := derive(d, d.DefaultState())
	if dx[2] != d.Omega {
		t.Errorf("expected phase rate %f, got %f", d.Omega, dx[2])
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m.Name() != name {
			t.Errorf("registry name %q builds model %q", name, m.Name())
		}
		if got := len(m.DefaultState()); got != m.Dim() {
			t.Errorf("%s: default state has %d components, want %d", name, got, m.Dim())
		}
		for p, v := range m.Params() {
			if err := m.SetParam(p, v); err != nil {
				t.Errorf("%s: round-tripping %s: %v", name, p, err)
			}
		}
		if err := m.SetParam("nope", 1); !errors.Is(err, ErrUnknownParam) {
			t.Errorf("%s: expected ErrUnknownParam, got %v", name, err)
		}
	}

	if _, err := New("rossler"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestConfigure(t *testing.T) {
	m, _ := New("pendulum")
	if err := Configure(m, map[string]float64{"length": 2, "damping": 0}); err != nil {
		t.Fatal(err)
	}
	p := m.(*Pendulum)
	if p.Length != 2 || p.Damping != 0 {
		t.Errorf("parameters not applied: %+v", p)
	}
	if err := Configure(m, map[string]float64{"bogus": 1}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
