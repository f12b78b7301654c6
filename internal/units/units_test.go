package units

import (
	"testing"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach2WithUnits(t *testing.T) {
	x1 := algebra.Slice[Quantity]{Of(1, Meter), Of(1, Meter)}
	x2 := algebra.Slice[Quantity]{Of(2, MeterPerSecond), Of(2, MeterPerSecond)}

	rng := algebra.NewRange[Quantity](Space{})
	require.NoError(t, rng.ForEach2(x1, x2, Ops.ScaleSum1(Of(0.1, Second))))

	for i := 0; i < x1.Len(); i++ {
		assert.InDelta(t, 0.2, x1[i].Value, 1e-10)
		assert.Equal(t, Meter.Dim, x1[i].Dim)
	}
}

func TestForEachWithUnits_ArrayAlgebra(t *testing.T) {
	x := []Quantity{Of(1, Meter)}
	v := []Quantity{Of(3, MeterPerSecond)}

	arr := algebra.NewArray[Quantity](Space{})
	require.NoError(t, arr.ForEach(Ops.ScaleSum(Dimensionless, Of(0.5, Second)), x, x, v))
	assert.InDelta(t, 2.5, x[0].Value, 1e-15)
	assert.Equal(t, Meter.Dim, x[0].Dim)
	assert.InDelta(t, 2.5, arr.NormInf(x), 1e-15)
}

func TestAdd_IncompatiblePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrIncompatible)
	}()
	Of(1, Meter).Add(Of(1, Second))
}

func TestQuantityArithmetic(t *testing.T) {
	v := Of(10, Meter).Div(Of(2, Second))
	assert.Equal(t, MeterPerSecond.Dim, v.Dim)
	assert.Equal(t, 5.0, v.Value)

	g := Of(9.81, MeterPerSecond2)
	assert.Equal(t, Dimension{Length: 1, Time: -2}, g.Dim)
	assert.Equal(t, "9.81 m s^-2", g.String())
	assert.Equal(t, "3", Of(3, Dimensionless).String())

	assert.Equal(t, Of(-1, Meter), Of(1, Meter).Sub(Of(2, Meter)))
	assert.Equal(t, Of(1, Meter), Of(-1, Meter).Abs())
}

func TestSpaceScalars(t *testing.T) {
	s := Space{}
	assert.Equal(t, Dimensionless, s.One())
	assert.Equal(t, Of(0.25, Second), s.Duration(0.25))
	assert.Equal(t, Of(2, Meter), s.Scale(s.Duration(2), Of(1, MeterPerSecond)))
}
