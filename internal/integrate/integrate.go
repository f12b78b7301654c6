// Package integrate drives steppers across a time interval. Drivers check
// the context between steps, report every accepted state to the observers
// and land exactly on the end time.
package integrate

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/odeint/internal/adaptive"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/stepper"
)

// endSlack is the fraction of a step below which the remaining interval
// is treated as already covered.
const endSlack = 1e-10

// Observer receives the state after every accepted step, and once for the
// initial state. x must not be retained; copy it if needed.
type Observer[V any] func(x V, t float64)

type Options[V any] struct {
	Observers []Observer[V]
	Logger    *slog.Logger
	// MaxSteps bounds the number of attempted steps. Zero means no bound.
	MaxSteps int
}

func (o Options[V]) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options[V]) observe(x V, t float64) {
	for _, obs := range o.Observers {
		obs(x, t)
	}
}

// Stats summarises a finished or interrupted integration. NextDt is the
// controller's proposal after the last accepted step.
type Stats struct {
	Steps    int
	Rejected int
	T        float64
	LastDt   float64
	NextDt   float64
}

func checkInterval(t0, t1, dt float64) error {
	if dt == 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("integrate: dt=%v: %w", dt, dynamo.ErrInvalidStep)
	}
	if math.IsNaN(t0) || math.IsNaN(t1) || math.IsInf(t0, 0) || math.IsInf(t1, 0) {
		return fmt.Errorf("integrate: interval [%v, %v]: %w", t0, t1, dynamo.ErrInvalidConfig)
	}
	if t1 != t0 && (t1-t0)*dt < 0 {
		return fmt.Errorf("integrate: dt=%g points away from t1=%g: %w", dt, t1, dynamo.ErrInvalidStep)
	}
	return nil
}

// remaining returns how much of [t, t1] is left in the direction of dt.
func remaining(t, t1, dt float64) float64 {
	return (t1 - t) * math.Copysign(1, dt)
}

func budget(steps, limit int) error {
	if limit > 0 && steps >= limit {
		return fmt.Errorf("integrate: %d steps: %w", steps, dynamo.ErrTooManySteps)
	}
	return nil
}

// Const integrates from t0 to t1 with fixed steps of dt. The last step is
// shortened so the integration ends exactly on t1.
func Const[V any](ctx context.Context, st stepper.Stepper[V], sys stepper.System[V], x V, t0, t1, dt float64, opts Options[V]) (Stats, error) {
	if err := checkInterval(t0, t1, dt); err != nil {
		return Stats{T: t0}, err
	}
	stats := Stats{T: t0}
	opts.observe(x, t0)

	t := t0
	for {
		rem := remaining(t, t1, dt)
		if rem <= endSlack*math.Abs(dt) {
			break
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := budget(stats.Steps, opts.MaxSteps); err != nil {
			return stats, err
		}

		h, last := dt, false
		if rem < math.Abs(dt)*(1+endSlack) {
			h, last = t1-t, true
		}
		if err := st.DoStep(sys, x, t, h); err != nil {
			return stats, &dynamo.StepError{Step: stats.Steps, Time: t, Dt: h, Wrapped: err}
		}
		stats.Steps++
		stats.LastDt = h
		if last {
			t = t1
		} else {
			t = t0 + float64(stats.Steps)*dt
		}
		stats.T = t
		opts.observe(x, t)
	}
	opts.logger().Debug("fixed-step integration finished", "steps", stats.Steps, "t", stats.T)
	return stats, nil
}

// N takes exactly n steps of dt starting at t0.
func N[V any](ctx context.Context, st stepper.Stepper[V], sys stepper.System[V], x V, t0, dt float64, n int, opts Options[V]) (Stats, error) {
	if err := checkInterval(t0, t0, dt); err != nil {
		return Stats{T: t0}, err
	}
	if n < 0 {
		return Stats{T: t0}, fmt.Errorf("integrate: negative step count %d: %w", n, dynamo.ErrInvalidConfig)
	}
	stats := Stats{T: t0}
	opts.observe(x, t0)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		t := t0 + float64(i)*dt
		if err := st.DoStep(sys, x, t, dt); err != nil {
			return stats, &dynamo.StepError{Step: i, Time: t, Dt: dt, Wrapped: err}
		}
		stats.Steps++
		stats.LastDt = dt
		stats.T = t0 + float64(i+1)*dt
		opts.observe(x, stats.T)
	}
	return stats, nil
}

// Adaptive integrates from t0 to t1 letting the controller pick step
// sizes, starting from dt. Only accepted states are observed.
func Adaptive[V, E any](ctx context.Context, c *adaptive.Controller[V, E], sys stepper.System[V], x V, t0, t1, dt float64, opts Options[V]) (Stats, error) {
	if err := checkInterval(t0, t1, dt); err != nil {
		return Stats{T: t0}, err
	}
	log := opts.logger()
	stats := Stats{T: t0}
	opts.observe(x, t0)

	t, attempts := t0, 0
	for {
		rem := remaining(t, t1, dt)
		if rem <= endSlack*math.Abs(dt) {
			break
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		h, last := dt, false
		if rem < math.Abs(dt)*(1+endSlack) {
			h, last = t1-t, true
		}
		if err := budget(attempts, opts.MaxSteps); err != nil {
			return stats, err
		}
		out, err := c.TryStep(sys, x, t, h)
		attempts++
		if err != nil {
			log.Warn("adaptive integration failed", "t", t, "dt", h, "error", err)
			return stats, err
		}
		if out.State != adaptive.Accepted {
			stats.Rejected++
			dt = out.NextDt
			continue
		}

		stats.Steps++
		stats.LastDt = h
		if last {
			t = t1
		} else {
			t += h
		}
		stats.T = t
		stats.NextDt = out.NextDt
		opts.observe(x, t)
		dt = out.NextDt
	}
	log.Debug("adaptive integration finished", "steps", stats.Steps, "rejected", stats.Rejected, "t", stats.T)
	return stats, nil
}
