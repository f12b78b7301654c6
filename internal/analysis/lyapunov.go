package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/stepper"
)

// ErrDegenerateSeparation is returned when the two trajectories merge or
// stop being finite, so no growth rate can be measured.
var ErrDegenerateSeparation = errors.New("analysis: trajectory separation degenerated")

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference trajectory and a companion started d0 away along x0[0]. After
// every step the separation is measured and the companion is pulled back
// to distance d0 along the same direction, so
//
//	λ ≈ 1/T · Σ ln(d_k / d0)
//
// A positive value indicates chaos.
func LyapunovExponent(st stepper.Stepper[[]float64], sys stepper.System[[]float64], x0 []float64, dt, duration, d0 float64) (float64, error) {
	if len(x0) == 0 {
		return 0, fmt.Errorf("analysis: empty state: %w", dynamo.ErrDimensionMismatch)
	}
	if !(d0 > 0) || !(duration > 0) || !(dt > 0) {
		return 0, fmt.Errorf("analysis: dt, duration and perturbation must be positive: %w", dynamo.ErrInvalidConfig)
	}

	x := append([]float64(nil), x0...)
	xp := append([]float64(nil), x0...)
	xp[0] += d0

	steps := int(math.Ceil(duration/dt - 1e-9))
	sumLog, t := 0.0, 0.0
	for k := 0; k < steps; k++ {
		if err := st.DoStep(sys, x, t, dt); err != nil {
			return 0, &dynamo.StepError{Step: k, Time: t, Dt: dt, Wrapped: err}
		}
		if err := st.DoStep(sys, xp, t, dt); err != nil {
			return 0, &dynamo.StepError{Step: k, Time: t, Dt: dt, Wrapped: err}
		}
		t = float64(k+1) * dt

		sep := distance(x, xp)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("analysis: separation %g at t=%g: %w", sep, t, ErrDegenerateSeparation)
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}
	return sumLog / t, nil
}

func distance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
