// Package stepper advances a state one step with a Runge-Kutta scheme
// described by a Butcher tableau. Steppers are generic over the state
// container V, its element type E and the coefficient type S, so the same
// code serves dense slices, gonum vectors and unit-carrying quantities.
package stepper

import (
	"fmt"
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// System evaluates the right-hand side dxdt = f(x, t). It must not
// modify x and must fill every element of dxdt.
type System[V any] func(x, dxdt V, t float64)

type Stepper[V any] interface {
	// DoStep advances x in place from t to t+dt.
	DoStep(sys System[V], x V, t, dt float64) error
	Order() int
	Category() SystemCategory
}

// ErrorStepper is a Stepper that also produces a local error estimate.
type ErrorStepper[V any] interface {
	Stepper[V]
	// DoStepWithError advances x and writes the difference between the
	// high and low order solutions into xerr.
	DoStepWithError(sys System[V], x V, t, dt float64, xerr V) error
	ErrorOrder() int
}

func checkStep(dt float64) error {
	if dt == 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("stepper: dt=%v: %w", dt, dynamo.ErrInvalidStep)
	}
	return nil
}
