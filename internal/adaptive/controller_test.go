package adaptive

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/stepper"
	"github.com/san-kum/odeint/internal/tableau"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oscillator(x, dxdt []float64, t float64) {
	dxdt[0] = x[1]
	dxdt[1] = -x[0]
}

func constant(x, dxdt []float64, t float64) {
	for i := range dxdt {
		dxdt[i] = 1
	}
}

func poisoned(x, dxdt []float64, t float64) {
	for i := range dxdt {
		dxdt[i] = math.NaN()
	}
}

func newController(t *testing.T, cfg Config, opts ...Option) *Controller[[]float64, float64] {
	t.Helper()
	st, err := stepper.DenseEmbedded(tableau.Dopri5())
	require.NoError(t, err)
	c, err := New[[]float64, float64](st, algebra.NewArray[float64](operations.Real{}), cfg, opts...)
	require.NoError(t, err)
	return c
}

func bits(x []float64) []uint64 {
	out := make([]uint64, len(x))
	for i, v := range x {
		out[i] = math.Float64bits(v)
	}
	return out
}

func TestRejectLeavesStateUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AbsTol, cfg.RelTol = 1e-12, 1e-12
	c := newController(t, cfg)

	x := []float64{1, 0}
	before := bits(x)
	out, err := c.TryStep(oscillator, x, 0, 1.0)
	require.NoError(t, err)

	assert.Equal(t, Rejected, out.State)
	assert.Equal(t, before, bits(x))
	assert.Greater(t, out.ErrNorm, 1.0)
	assert.Less(t, out.NextDt, 1.0)
	assert.GreaterOrEqual(t, out.NextDt, 1.0*cfg.MinShrink)
	assert.Equal(t, Stats{Rejected: 1}, c.Stats())
}

func TestAcceptMatchesEmbeddedStep(t *testing.T) {
	c := newController(t, DefaultConfig())

	x := []float64{1, 0}
	out, err := c.TryStep(oscillator, x, 0, 0.01)
	require.NoError(t, err)
	require.Equal(t, Accepted, out.State)

	direct, err := stepper.DenseEmbedded(tableau.Dopri5())
	require.NoError(t, err)
	y := []float64{1, 0}
	require.NoError(t, direct.DoStepWithError(oscillator, y, 0, 0.01, make([]float64, 2)))

	assert.Equal(t, bits(y), bits(x))
	assert.Greater(t, out.NextDt, 0.01)
	assert.LessOrEqual(t, out.NextDt, 0.01*DefaultConfig().MaxGrowth)
}

func TestZeroErrorGrowsByMaximum(t *testing.T) {
	c := newController(t, DefaultConfig())
	x := []float64{2}
	out, err := c.TryStep(constant, x, 0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, Accepted, out.State)
	assert.InDelta(t, 0.5, out.NextDt, 1e-15)
	assert.InDelta(t, 2.1, x[0], 1e-15)
}

func TestMaxDtClampKeepsSign(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDt = 0.15
	c := newController(t, cfg)

	x := []float64{2}
	out, err := c.TryStep(constant, x, 0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.15, out.NextDt)

	out, err = c.TryStep(constant, x, 0.1, -0.1)
	require.NoError(t, err)
	assert.Equal(t, -0.15, out.NextDt)
	assert.InDelta(t, 2.0, x[0], 1e-14)
}

func TestNonFiniteErrorShrinksByMinimum(t *testing.T) {
	c := newController(t, DefaultConfig())
	x := []float64{1, 2}
	before := bits(x)

	out, err := c.TryStep(poisoned, x, 0, 0.1)
	require.NoError(t, err)
	assert.Equal(t, Rejected, out.State)
	assert.True(t, math.IsNaN(out.ErrNorm))
	assert.InDelta(t, 0.1*0.2, out.NextDt, 1e-17)
	assert.Equal(t, before, bits(x))
}

func TestUnderflowIsFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDt = 1e-3
	var seen []Outcome
	c := newController(t, cfg, WithHook(func(o Outcome) { seen = append(seen, o) }))

	x := []float64{1}
	_, err := c.Step(poisoned, x, 0, 0.1)
	require.ErrorIs(t, err, dynamo.ErrStepTooSmall)

	var se *dynamo.StepError
	require.True(t, errors.As(err, &se))
	assert.Less(t, math.Abs(se.Dt), 1e-3)
	assert.Equal(t, 3, se.Step)
	assert.Len(t, seen, 3)
	assert.Equal(t, 1.0, x[0])
}

func TestStepRetriesUntilAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AbsTol, cfg.RelTol = 1e-9, 1e-9
	c := newController(t, cfg)

	x := []float64{1, 0}
	out, err := c.Step(oscillator, x, 0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, Accepted, out.State)
	assert.Less(t, out.Dt, 2.0)
	assert.Positive(t, c.Stats().Rejected)
	assert.Equal(t, 1, c.Stats().Accepted)
	assert.InDelta(t, math.Cos(out.Dt), x[0], 1e-8)
}

func TestInvalidStepPassesThrough(t *testing.T) {
	c := newController(t, DefaultConfig())
	x := []float64{1}
	_, err := c.TryStep(constant, x, 0, 0)
	assert.ErrorIs(t, err, dynamo.ErrInvalidStep)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestRangeAlgebraController(t *testing.T) {
	rng := algebra.NewRange[float64](operations.Real{})
	st, err := stepper.NewEmbedded[algebra.Sequence[float64], float64, float64](tableau.CashKarp54(), rng, operations.Real{})
	require.NoError(t, err)
	c, err := New[algebra.Sequence[float64], float64](st, rng, DefaultConfig())
	require.NoError(t, err)

	sys := func(x, dxdt algebra.Sequence[float64], t float64) {
		dxdt.Set(0, -x.At(0))
	}
	x := algebra.NewVector(1, []float64{1})
	tm, dt := 0.0, 0.1
	for tm < 1 {
		if tm+dt > 1 {
			dt = 1 - tm
		}
		out, err := c.Step(sys, x, tm, dt)
		require.NoError(t, err)
		tm += out.Dt
		dt = out.NextDt
	}
	assert.InDelta(t, math.Exp(-1), x.At(0), 1e-5)
}
