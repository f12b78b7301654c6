// Package operations provides the elementwise weighted combinations an
// algebra applies across containers, together with the element arithmetic
// they are written against.
package operations

import (
	"math"
	"math/cmplx"
)

// Field is the arithmetic an element type E must support to be combined with
// scalar coefficients of type S.
type Field[E, S any] interface {
	Add(a, b E) E
	Scale(s S, e E) E
	Abs(e E) float64
}

// Space extends Field with the two scalars a Runge-Kutta stepper needs: the
// multiplicative identity and a coefficient carrying h units of time.
type Space[E, S any] interface {
	Field[E, S]
	One() S
	Duration(h float64) S
}

// Real is the float64 element space.
type Real struct{}

func (Real) Add(a, b float64) float64   { return a + b }
func (Real) Scale(s, e float64) float64 { return s * e }
func (Real) Abs(e float64) float64      { return math.Abs(e) }
func (Real) One() float64               { return 1 }
func (Real) Duration(h float64) float64 { return h }

// Complex is the complex128 element space with real coefficients.
type Complex struct{}

func (Complex) Add(a, b complex128) complex128 { return a + b }

func (Complex) Scale(s float64, e complex128) complex128 {
	return complex(s*real(e), s*imag(e))
}

func (Complex) Abs(e complex128) float64   { return cmplx.Abs(e) }
func (Complex) One() float64               { return 1 }
func (Complex) Duration(h float64) float64 { return h }
