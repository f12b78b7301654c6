package experiment

import (
	"math"

	"github.com/san-kum/odeint/internal/adaptive"
	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/integrate"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/physics"
	"github.com/san-kum/odeint/internal/stepper"
)

// Frame is the state after one accepted step. State is owned by the
// session and overwritten by the next step.
type Frame struct {
	T       float64
	Dt      float64
	State   []float64
	Energy  float64
	ErrNorm float64
}

// Session advances a run one accepted step at a time on dense slices.
type Session struct {
	model  physics.Model
	method string
	st     stepper.Stepper[[]float64]
	ctrl   *adaptive.Controller[[]float64, float64]
	sys    stepper.System[[]float64]

	x0, x      []float64
	t0, t1, dt float64
	t, nextDt  float64
	stats      integrate.Stats
}

// Session prepares a stepwise run of the configured experiment. Params
// changed through the session affect later steps only.
func (e *Experiment) Session() (*Session, error) {
	model, err := e.cfg.Model()
	if err != nil {
		return nil, err
	}
	method, err := e.reg.GetMethod(e.cfg.Method)
	if err != nil {
		return nil, err
	}
	alg := algebra.NewArray[float64](operations.Real{})
	st, err := stepper.New[[]float64, float64, float64](method.Category, method.Tableau, alg, operations.Real{})
	if err != nil {
		return nil, err
	}
	s := &Session{
		model:  model,
		method: method.Name,
		st:     st,
		sys:    model.Derive,
		x0:     e.cfg.InitialState(model),
		t0:     e.cfg.T0,
		t1:     e.cfg.T0 + e.cfg.Duration,
		dt:     e.cfg.Dt,
	}
	if e.cfg.Adaptive {
		es, ok := st.(stepper.ErrorStepper[[]float64])
		if !ok {
			return nil, dynamo.ErrInvalidTableau
		}
		s.ctrl, err = adaptive.New[[]float64, float64](es, alg, e.cfg.AdaptiveConfig(), adaptive.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
	}
	s.Reset()
	return s, nil
}

func (s *Session) Model() physics.Model   { return s.model }
func (s *Session) Method() string         { return s.method }
func (s *Session) Adaptive() bool         { return s.ctrl != nil }
func (s *Session) Stats() integrate.Stats { return s.stats }
func (s *Session) Time() float64          { return s.t }
func (s *Session) End() float64           { return s.t1 }
func (s *Session) State() []float64       { return s.x }

// Done reports whether the session reached the end of its interval.
func (s *Session) Done() bool { return s.t1-s.t <= 1e-10*math.Abs(s.dt) }

// Reset returns to the initial state and time. Parameters keep their
// current values.
func (s *Session) Reset() {
	s.x = integrate.CloneSlice(s.x0)
	s.t, s.nextDt = s.t0, s.dt
	s.stats = integrate.Stats{T: s.t0}
}

// Step takes one accepted step, clipped to the end of the interval.
func (s *Session) Step() (Frame, error) {
	if s.Done() {
		return s.frame(0, 0), nil
	}
	h := math.Min(s.nextDt, s.t1-s.t)
	var norm float64
	if s.ctrl != nil {
		before := s.ctrl.Stats().Rejected
		out, err := s.ctrl.Step(s.sys, s.x, s.t, h)
		if err != nil {
			return s.frame(0, 0), err
		}
		s.stats.Rejected += s.ctrl.Stats().Rejected - before
		h, norm = out.Dt, out.ErrNorm
		s.nextDt = out.NextDt
	} else if err := s.st.DoStep(s.sys, s.x, s.t, h); err != nil {
		return s.frame(0, 0), &dynamo.StepError{Step: s.stats.Steps, Time: s.t, Dt: h, Wrapped: err}
	}

	s.stats.Steps++
	s.stats.LastDt = h
	if s.t1-(s.t+h) <= 1e-10*math.Abs(s.dt) {
		s.t = s.t1
	} else {
		s.t += h
	}
	s.stats.T = s.t
	s.stats.NextDt = s.nextDt
	return s.frame(h, norm), nil
}

func (s *Session) frame(dt, norm float64) Frame {
	f := Frame{T: s.t, Dt: dt, State: s.x, ErrNorm: norm}
	if h, ok := s.model.(physics.Hamiltonian); ok {
		f.Energy = h.Energy(s.x)
	}
	return f
}

func (s *Session) Params() map[string]float64 { return s.model.Params() }

func (s *Session) SetParam(name string, v float64) error { return s.model.SetParam(name, v) }
