// Package adaptive chooses step sizes for embedded steppers. A controller
// attempts a step on a private copy of the state, measures the scaled
// error estimate and either commits the step and proposes a larger dt or
// discards it and proposes a smaller one.
package adaptive

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/stepper"
)

type State int

const (
	Trial State = iota
	Accepted
	Rejected
)

func (s State) String() string {
	switch s {
	case Trial:
		return "trial"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes one attempt. Dt is the step that was tried and NextDt
// the step the controller proposes next.
type Outcome struct {
	State   State
	T       float64
	Dt      float64
	NextDt  float64
	ErrNorm float64
}

type Stats struct {
	Accepted int
	Rejected int
}

type Option func(*options)

type options struct {
	logger *slog.Logger
	tol    Tolerance
	hook   func(Outcome)
}

// WithLogger logs rejections at debug level and step underflow at warn.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTolerance overrides the policy named in Config.
func WithTolerance(t Tolerance) Option {
	return func(o *options) { o.tol = t }
}

// WithHook is called after every attempt, accepted or not.
func WithHook(fn func(Outcome)) Option {
	return func(o *options) { o.hook = fn }
}

type Controller[V, E any] struct {
	st   stepper.ErrorStepper[V]
	alg  algebra.Algebra[V, E]
	cfg  Config
	tol  Tolerance
	log  *slog.Logger
	hook func(Outcome)
	q    float64

	n     int
	trial V
	xerr  V
	stats Stats
}

func New[V, E any](st stepper.ErrorStepper[V], alg algebra.Algebra[V, E], cfg Config, opts ...Option) (*Controller[V, E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if st.ErrorOrder() < 1 {
		return nil, fmt.Errorf("adaptive: error order %d: %w", st.ErrorOrder(), dynamo.ErrInvalidTableau)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tol == nil {
		o.tol, _ = cfg.Tolerance()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Controller[V, E]{
		st:   st,
		alg:  alg,
		cfg:  cfg,
		tol:  o.tol,
		log:  o.logger,
		hook: o.hook,
		q:    float64(st.ErrorOrder()),
		n:    -1,
	}, nil
}

func (c *Controller[V, E]) Stepper() stepper.ErrorStepper[V] { return c.st }
func (c *Controller[V, E]) Config() Config                   { return c.cfg }
func (c *Controller[V, E]) Stats() Stats                     { return c.stats }

func (c *Controller[V, E]) ensure(x V) {
	if n := c.alg.Len(x); n != c.n {
		c.trial = c.alg.Like(x)
		c.xerr = c.alg.Like(x)
		c.n = n
	}
}

// TryStep attempts a single step of size dt from t. On acceptance x holds
// the new state; on rejection x is unchanged. A returned error always
// leaves x unchanged.
func (c *Controller[V, E]) TryStep(sys stepper.System[V], x V, t, dt float64) (Outcome, error) {
	out := Outcome{State: Trial, T: t, Dt: dt}
	c.ensure(x)
	if err := c.alg.Copy(c.trial, x); err != nil {
		return out, err
	}
	if err := c.st.DoStepWithError(sys, c.trial, t, dt, c.xerr); err != nil {
		return out, err
	}
	norm, err := c.errNorm(x)
	if err != nil {
		return out, err
	}
	out.ErrNorm = norm

	finite := !math.IsNaN(norm) && !math.IsInf(norm, 0)
	if finite && norm <= 1 {
		if err := c.alg.Copy(x, c.trial); err != nil {
			return out, err
		}
		out.State = Accepted
		out.NextDt = c.grow(dt, norm)
		c.stats.Accepted++
		c.notify(out)
		return out, nil
	}

	out.State = Rejected
	out.NextDt = c.shrink(dt, norm, finite)
	c.stats.Rejected++
	c.log.Debug("step rejected", "t", t, "dt", dt, "err_norm", norm, "next_dt", out.NextDt)
	c.notify(out)
	if math.Abs(out.NextDt) < c.cfg.MinDt {
		c.log.Warn("step size underflow", "t", t, "dt", out.NextDt, "min_dt", c.cfg.MinDt)
		return out, &dynamo.StepError{
			Step:    c.stats.Accepted + c.stats.Rejected,
			Time:    t,
			Dt:      out.NextDt,
			Wrapped: dynamo.ErrStepTooSmall,
		}
	}
	return out, nil
}

// Step retries TryStep from t until a step is accepted and returns that
// attempt's outcome.
func (c *Controller[V, E]) Step(sys stepper.System[V], x V, t, dt float64) (Outcome, error) {
	for {
		out, err := c.TryStep(sys, x, t, dt)
		if err != nil || out.State == Accepted {
			return out, err
		}
		dt = out.NextDt
	}
}

func (c *Controller[V, E]) errNorm(x V) (float64, error) {
	return c.alg.Reduce(0, func(acc float64, abs []float64) float64 {
		return operations.MaxAbs(acc, abs[0]/c.tol.Scale(abs[1]))
	}, c.xerr, x)
}

func (c *Controller[V, E]) grow(dt, norm float64) float64 {
	factor := c.cfg.MaxGrowth
	if norm > 0 {
		factor = math.Min(c.cfg.MaxGrowth, c.cfg.Safety*math.Pow(norm, -1/(c.q+1)))
	}
	next := dt * factor
	if c.cfg.MaxDt > 0 && math.Abs(next) > c.cfg.MaxDt {
		next = math.Copysign(c.cfg.MaxDt, dt)
	}
	return next
}

func (c *Controller[V, E]) shrink(dt, norm float64, finite bool) float64 {
	factor := c.cfg.MinShrink
	if finite {
		factor = math.Max(c.cfg.MinShrink, c.cfg.Safety*math.Pow(norm, -1/c.q))
	}
	return dt * factor
}

func (c *Controller[V, E]) notify(out Outcome) {
	if c.hook != nil {
		c.hook(out)
	}
}
