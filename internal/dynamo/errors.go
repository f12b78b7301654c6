package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for stepping operations.
var (
	// ErrDimensionMismatch indicates containers of different lengths were combined.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between containers")

	// ErrArityMismatch indicates an operation was applied to the wrong number of containers.
	ErrArityMismatch = errors.New("dynamo: operation arity does not match container count")

	// ErrInvalidTableau indicates inconsistent Butcher coefficients.
	ErrInvalidTableau = errors.New("dynamo: invalid butcher tableau")

	// ErrInvalidStep indicates a zero or non-finite step size.
	ErrInvalidStep = errors.New("dynamo: invalid step size")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrUnsupportedCategory indicates no stepping algorithm exists for a system category.
	ErrUnsupportedCategory = errors.New("dynamo: unsupported system category")

	// ErrTooManySteps indicates an integration exceeded its step budget.
	ErrTooManySteps = errors.New("dynamo: step budget exhausted")

	// ErrInvalidConfig indicates controller or run configuration out of range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// StepError wraps an error with the integration time and step size at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g, dt=%.3g): %v", e.Step, e.Time, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
