package stepper_test

import (
	"testing"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/stepper"
	"github.com/san-kum/odeint/internal/tableau"
)

func benchOscillator(x, dxdt []float64, t float64) {
	dxdt[0] = x[1]
	dxdt[1] = -x[0]
}

func benchDense(b *testing.B, tab *tableau.Tableau) {
	st, err := stepper.Dense(tab)
	if err != nil {
		b.Fatal(err)
	}
	x := []float64{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = st.DoStep(benchOscillator, x, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B)  { benchDense(b, tableau.Euler()) }
func BenchmarkRK4(b *testing.B)    { benchDense(b, tableau.RK4()) }
func BenchmarkDopri5(b *testing.B) { benchDense(b, tableau.Dopri5()) }

func BenchmarkDopri5WithError(b *testing.B) {
	st, err := stepper.DenseEmbedded(tableau.Dopri5())
	if err != nil {
		b.Fatal(err)
	}
	x := []float64{1.0, 0.0}
	xerr := make([]float64, 2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = st.DoStepWithError(benchOscillator, x, 0, 0.01, xerr)
	}
}

func BenchmarkRK4Range(b *testing.B) {
	rng := algebra.NewRange[float64](operations.Real{})
	st, err := stepper.NewExplicit[algebra.Sequence[float64], float64, float64](tableau.RK4(), rng, operations.Real{})
	if err != nil {
		b.Fatal(err)
	}
	sys := func(x, dxdt algebra.Sequence[float64], t float64) {
		dxdt.Set(0, x.At(1))
		dxdt.Set(1, -x.At(0))
	}
	x := algebra.Slice[float64]{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = st.DoStep(sys, x, 0, 0.01)
	}
}
