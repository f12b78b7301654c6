package stepper_test

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/stepper"
	"github.com/san-kum/odeint/internal/tableau"
	"github.com/san-kum/odeint/internal/units"
)

const (
	x0    = 2.0
	dt    = 0.1
	steps = 4
	want  = 2.4
)

func constantSlice(x, dxdt []float64, t float64) {
	for i := range dxdt {
		dxdt[i] = 1
	}
}

func constantSeq(x, dxdt algebra.Sequence[float64], t float64) {
	for i := 0; i < dxdt.Len(); i++ {
		dxdt.Set(i, 1)
	}
}

// advance alternates plain and error-estimating steps when the stepper
// supports both, and reports the largest error component seen.
func advance[V any](st stepper.Stepper[V], sys stepper.System[V], x, xerr V, norm func(V) float64) float64 {
	worst := 0.0
	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		es, ok := st.(stepper.ErrorStepper[V])
		if ok && i%2 == 1 {
			Expect(es.DoStepWithError(sys, x, t, dt, xerr)).To(Succeed())
			worst = math.Max(worst, norm(xerr))
			continue
		}
		Expect(st.DoStep(sys, x, t, dt)).To(Succeed())
	}
	return worst
}

var _ = Describe("explicit steppers", func() {
	DescribeTable("integrate a constant derivative exactly",
		func(name string) {
			tab, err := tableau.Lookup(name)
			Expect(err).NotTo(HaveOccurred())

			By("stepping plain slices with the array algebra")
			arr := algebra.NewArray[float64](operations.Real{})
			st, err := stepper.New[[]float64, float64, float64](stepper.ExplicitSystem, tab, arr, operations.Real{})
			Expect(err).NotTo(HaveOccurred())
			x := []float64{x0}
			xerr := []float64{0}
			worst := advance[[]float64](st, constantSlice, x, xerr, arr.NormInf)
			Expect(x[0]).To(BeNumerically("~", want, 1e-14))
			Expect(worst).To(BeNumerically("<", 1e-14))

			By("stepping slices through the range algebra")
			rng := algebra.NewRange[float64](operations.Real{})
			rst, err := stepper.New[algebra.Sequence[float64], float64, float64](stepper.ExplicitSystem, tab, rng, operations.Real{})
			Expect(err).NotTo(HaveOccurred())
			xs := algebra.Slice[float64]{x0}
			xserr := algebra.Slice[float64]{0}
			worst = advance[algebra.Sequence[float64]](rst, constantSeq, xs, xserr, rng.NormInf)
			Expect(xs[0]).To(BeNumerically("~", want, 1e-14))
			Expect(worst).To(BeNumerically("<", 1e-14))

			By("stepping gonum vectors through the range algebra")
			rst, err = stepper.New[algebra.Sequence[float64], float64, float64](stepper.ExplicitSystem, tab, rng, operations.Real{})
			Expect(err).NotTo(HaveOccurred())
			xv := algebra.NewVector(1, []float64{x0})
			worst = advance[algebra.Sequence[float64]](rst, constantSeq, xv, algebra.NewVector(1, nil), rng.NormInf)
			Expect(xv.At(0)).To(BeNumerically("~", want, 1e-14))
			Expect(worst).To(BeNumerically("<", 1e-14))
		},
		Entry("euler", "euler"),
		Entry("midpoint", "midpoint"),
		Entry("heun", "heun"),
		Entry("rk4", "rk4"),
		Entry("rk38", "rk38"),
		Entry("bogacki_shampine", "bogacki_shampine"),
		Entry("fehlberg45", "fehlberg45"),
		Entry("cash_karp54", "cash_karp54"),
		Entry("dopri5", "dopri5"),
		Entry("fehlberg78", "fehlberg78"),
	)

	It("matches the closed form for a single euler step", func() {
		st, err := stepper.Dense(tableau.Euler())
		Expect(err).NotTo(HaveOccurred())
		x := []float64{1.5, -0.25}
		sys := func(x, dxdt []float64, t float64) {
			dxdt[0] = 3 * x[1]
			dxdt[1] = t - x[0]
		}
		Expect(st.DoStep(sys, x, 0.5, 0.2)).To(Succeed())
		Expect(x[0]).To(BeNumerically("~", 1.35, 1e-15))
		Expect(x[1]).To(BeNumerically("~", -0.45, 1e-15))
	})

	It("steps backwards with a negative dt", func() {
		st, err := stepper.Dense(tableau.RK4())
		Expect(err).NotTo(HaveOccurred())
		x := []float64{x0}
		for i := 0; i < steps; i++ {
			Expect(st.DoStep(constantSlice, x, -float64(i)*dt, -dt)).To(Succeed())
		}
		Expect(x[0]).To(BeNumerically("~", 1.6, 1e-14))
	})

	It("follows the harmonic oscillator with rk4", func() {
		st, err := stepper.Dense(tableau.RK4())
		Expect(err).NotTo(HaveOccurred())
		sys := func(x, dxdt []float64, t float64) {
			dxdt[0] = x[1]
			dxdt[1] = -x[0]
		}
		x := []float64{1, 0}
		h := 0.01
		for i := 0; i < 100; i++ {
			Expect(st.DoStep(sys, x, float64(i)*h, h)).To(Succeed())
		}
		Expect(x[0]).To(BeNumerically("~", math.Cos(1), 1e-4))
		Expect(x[1]).To(BeNumerically("~", -math.Sin(1), 1e-4))
	})

	It("rotates a complex state", func() {
		alg := algebra.NewArray[complex128](operations.Complex{})
		st, err := stepper.NewExplicit[[]complex128, complex128, float64](tableau.RK4(), alg, operations.Complex{})
		Expect(err).NotTo(HaveOccurred())
		sys := func(z, dzdt []complex128, t float64) {
			dzdt[0] = 1i * z[0]
		}
		z := []complex128{1}
		h := 0.01
		for i := 0; i < 100; i++ {
			Expect(st.DoStep(sys, z, float64(i)*h, h)).To(Succeed())
		}
		Expect(cmplx.Abs(z[0] - cmplx.Exp(1i))).To(BeNumerically("<", 1e-8))
	})

	It("carries units through a falling body", func() {
		rng := algebra.NewRange[units.Quantity](units.Space{})
		st, err := stepper.NewExplicit[algebra.Sequence[units.Quantity], units.Quantity, units.Quantity](tableau.RK4(), rng, units.Space{})
		Expect(err).NotTo(HaveOccurred())
		g := units.Of(-9.81, units.MeterPerSecond2)
		sys := func(x, dxdt algebra.Sequence[units.Quantity], t float64) {
			dxdt.Set(0, x.At(1))
			dxdt.Set(1, g)
		}
		x := algebra.Slice[units.Quantity]{units.Of(0, units.Meter), units.Of(0, units.MeterPerSecond)}
		for i := 0; i < 10; i++ {
			Expect(st.DoStep(sys, x, float64(i)*dt, dt)).To(Succeed())
		}
		Expect(x[0].Dim).To(Equal(units.Meter.Dim))
		Expect(x[1].Dim).To(Equal(units.MeterPerSecond.Dim))
		Expect(x[0].Value).To(BeNumerically("~", -4.905, 1e-12))
		Expect(x[1].Value).To(BeNumerically("~", -9.81, 1e-12))
	})

	It("reallocates stage buffers when the state length changes", func() {
		st, err := stepper.Dense(tableau.Heun())
		Expect(err).NotTo(HaveOccurred())
		short := []float64{0, 1}
		Expect(st.DoStep(constantSlice, short, 0, dt)).To(Succeed())
		long := []float64{0, 1, 2}
		Expect(st.DoStep(constantSlice, long, 0, dt)).To(Succeed())
		Expect(long).To(HaveExactElements(
			BeNumerically("~", 0.1, 1e-12),
			BeNumerically("~", 1.1, 1e-12),
			BeNumerically("~", 2.1, 1e-12),
		))
	})
})

var _ = Describe("coefficient reuse", func() {
	oscillator := func(x, dxdt []float64, t float64) {
		dxdt[0] = x[1]
		dxdt[1] = -x[0] + 0.1*t
	}

	It("matches fresh steppers when dt changes between steps", func() {
		steps := []float64{0.1, 0.03, 0.25, 0.1}

		reused, err := stepper.DenseEmbedded(tableau.Dopri5())
		Expect(err).NotTo(HaveOccurred())
		x, xerr := []float64{1, 0}, make([]float64, 2)
		y := []float64{1, 0}
		t := 0.0
		for _, h := range steps {
			Expect(reused.DoStepWithError(oscillator, x, t, h, xerr)).To(Succeed())

			fresh, err := stepper.DenseEmbedded(tableau.Dopri5())
			Expect(err).NotTo(HaveOccurred())
			yerr := make([]float64, 2)
			Expect(fresh.DoStepWithError(oscillator, y, t, h, yerr)).To(Succeed())

			Expect(x).To(Equal(y))
			Expect(xerr).To(Equal(yerr))
			t += h
		}
	})
})

var _ = Describe("embedded steppers", func() {
	It("produce the same state with and without an error estimate", func() {
		a, err := stepper.DenseEmbedded(tableau.Dopri5())
		Expect(err).NotTo(HaveOccurred())
		b, err := stepper.DenseEmbedded(tableau.Dopri5())
		Expect(err).NotTo(HaveOccurred())
		sys := func(x, dxdt []float64, t float64) {
			dxdt[0] = x[1]
			dxdt[1] = -math.Sin(x[0])
		}
		xa := []float64{1, 0}
		xb := []float64{1, 0}
		xerr := make([]float64, 2)
		Expect(a.DoStep(sys, xa, 0, 0.05)).To(Succeed())
		Expect(b.DoStepWithError(sys, xb, 0, 0.05, xerr)).To(Succeed())
		Expect(xb).To(Equal(xa))
		Expect(xerr[0]).NotTo(BeZero())
		Expect(math.Abs(xerr[0])).To(BeNumerically("<", 1e-6))
	})

	It("report their orders", func() {
		st, err := stepper.DenseEmbedded(tableau.Fehlberg78())
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Order()).To(Equal(8))
		Expect(st.ErrorOrder()).To(Equal(7))
		Expect(st.Category()).To(Equal(stepper.ExplicitSystem))
		Expect(st.Name()).To(Equal("fehlberg78"))
	})

	It("leave the state alone when the error buffer has the wrong shape", func() {
		st, err := stepper.DenseEmbedded(tableau.CashKarp54())
		Expect(err).NotTo(HaveOccurred())
		x := []float64{x0, x0}
		err = st.DoStepWithError(constantSlice, x, 0, dt, make([]float64, 1))
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(x).To(Equal([]float64{x0, x0}))
	})

	It("require a tableau with embedded weights", func() {
		_, err := stepper.DenseEmbedded(tableau.RK4())
		Expect(err).To(MatchError(dynamo.ErrInvalidTableau))
	})
})

var _ = Describe("construction and arguments", func() {
	It("rejects a zero or non-finite dt", func() {
		st, err := stepper.Dense(tableau.RK4())
		Expect(err).NotTo(HaveOccurred())
		x := []float64{x0}
		for _, h := range []float64{0, math.NaN(), math.Inf(1)} {
			Expect(st.DoStep(constantSlice, x, 0, h)).To(MatchError(dynamo.ErrInvalidStep))
		}
		Expect(x[0]).To(Equal(x0))
	})

	It("rejects a nil or malformed tableau", func() {
		_, err := stepper.Dense(nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidTableau))

		bad := tableau.RK4()
		bad.B[0] = 0.5
		_, err = stepper.Dense(bad)
		Expect(err).To(MatchError(dynamo.ErrInvalidTableau))
	})

	It("is not affected by later edits to the tableau", func() {
		tab := tableau.Euler()
		st, err := stepper.Dense(tab)
		Expect(err).NotTo(HaveOccurred())
		tab.B[0] = 100
		x := []float64{x0}
		Expect(st.DoStep(constantSlice, x, 0, dt)).To(Succeed())
		Expect(x[0]).To(BeNumerically("~", 2.1, 1e-15))
	})

	It("dispatches on the system category", func() {
		arr := algebra.NewArray[float64](operations.Real{})
		st, err := stepper.New[[]float64, float64, float64](stepper.ExplicitSystem, tableau.BogackiShampine(), arr, operations.Real{})
		Expect(err).NotTo(HaveOccurred())
		_, ok := st.(stepper.ErrorStepper[[]float64])
		Expect(ok).To(BeTrue())

		st, err = stepper.New[[]float64, float64, float64](stepper.ExplicitSystem, tableau.Midpoint(), arr, operations.Real{})
		Expect(err).NotTo(HaveOccurred())
		_, ok = st.(stepper.ErrorStepper[[]float64])
		Expect(ok).To(BeFalse())

		for _, cat := range []stepper.SystemCategory{
			stepper.SecondOrderSystem,
			stepper.SymplecticSystem,
			stepper.SimpleSymplecticSystem,
			stepper.SymplecticOrSimpleSymplecticSystem,
			stepper.ImplicitSystem,
		} {
			_, err := stepper.New[[]float64, float64, float64](cat, tableau.RK4(), arr, operations.Real{})
			Expect(err).To(MatchError(dynamo.ErrUnsupportedCategory), cat.String())
		}
	})

	It("parses category names", func() {
		cat, err := stepper.ParseCategory(" Symplectic ")
		Expect(err).NotTo(HaveOccurred())
		Expect(cat).To(Equal(stepper.SymplecticSystem))

		_, err = stepper.ParseCategory("stiff")
		Expect(err).To(MatchError(dynamo.ErrUnsupportedCategory))
		Expect(stepper.SystemCategory(42).String()).To(Equal("category(42)"))
	})
})
