package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/physics"
	"github.com/san-kum/odeint/internal/stepper"
	"github.com/san-kum/odeint/internal/tableau"
)

func rk4(t *testing.T) *stepper.Explicit[[]float64, float64, float64] {
	t.Helper()
	st, err := stepper.Dense(tableau.RK4())
	require.NoError(t, err)
	return st
}

func TestLyapunovDecay(t *testing.T) {
	m := physics.NewDecay()
	m.K = 0.5
	lambda, err := LyapunovExponent(rk4(t), m.Derive, []float64{1}, 0.01, 10, 1e-8)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, lambda, 1e-4)
}

func TestLyapunovLorenzIsPositive(t *testing.T) {
	m := physics.NewLorenz()
	lambda, err := LyapunovExponent(rk4(t), m.Derive, []float64{1, 1, 1}, 0.01, 50, 1e-8)
	require.NoError(t, err)
	assert.Greater(t, lambda, 0.3)
	assert.Less(t, lambda, 1.5)
}

func TestLyapunovInvalid(t *testing.T) {
	m := physics.NewDecay()
	_, err := LyapunovExponent(rk4(t), m.Derive, nil, 0.01, 1, 1e-8)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
	_, err = LyapunovExponent(rk4(t), m.Derive, []float64{1}, 0.01, 1, 0)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestLyapunovDiverged(t *testing.T) {
	blowup := func(x, dxdt []float64, _ float64) { dxdt[0] = 1e300 * x[0] }
	_, err := LyapunovExponent(rk4(t), blowup, []float64{1}, 0.01, 1, 1e-8)
	assert.ErrorIs(t, err, ErrDegenerateSeparation)
}

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	x := make([]float64, 1000)
	for i := range x {
		x[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*dt)
	}
	freq, power := DominantFrequency(x, dt)
	assert.InDelta(t, 5.0, freq, 1e-9)
	assert.Greater(t, power, 0.0)

	ps := PowerSpectrum(x)
	assert.Len(t, ps, 501)
	assert.InDelta(t, 0, ps[0], 1e-9)
	assert.Nil(t, PowerSpectrum([]float64{1}))
}
