// Package experiment runs a configured system with a configured method
// over the selected state representation, and compares methods.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/odeint/internal/adaptive"
	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/integrate"
	"github.com/san-kum/odeint/internal/metrics"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/physics"
	"github.com/san-kum/odeint/internal/stepper"
)

// Result is a finished run. States are recorded every Output.Every
// accepted steps; the final state is always recorded.
type Result struct {
	System  string
	Method  string
	Algebra string
	Times   []float64
	States  [][]float64
	Stats   integrate.Stats
	Metrics map[string]float64
	Elapsed time.Duration
}

// Final returns the last recorded state.
func (r *Result) Final() []float64 {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type Option func(*Experiment)

func WithRegistry(r *Registry) Option  { return func(e *Experiment) { e.reg = r } }
func WithLogger(l *slog.Logger) Option { return func(e *Experiment) { e.logger = l } }

// WithRegisterer exports step counters for the run, labelled by method.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Experiment) { e.registerer = reg }
}

// WithObserver receives every accepted state. x is only valid during the
// call.
func WithObserver(fn func(x []float64, t float64)) Option {
	return func(e *Experiment) { e.observers = append(e.observers, fn) }
}

type Experiment struct {
	cfg        *config.Config
	reg        *Registry
	logger     *slog.Logger
	registerer prometheus.Registerer
	recorder   *metrics.Recorder
	observers  []func(x []float64, t float64)
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := build(opts)
	e.cfg = cfg.Clone()
	if e.registerer != nil {
		e.recorder = metrics.NewRecorder(e.registerer, cfg.Method)
	}
	return e, nil
}

func build(opts []Option) *Experiment {
	e := &Experiment{}
	for _, opt := range opts {
		opt(e)
	}
	if e.reg == nil {
		e.reg = NewRegistry()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

func (e *Experiment) Config() *config.Config { return e.cfg.Clone() }

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	model, err := e.cfg.Model()
	if err != nil {
		return nil, err
	}
	method, err := e.reg.GetMethod(e.cfg.Method)
	if err != nil {
		return nil, err
	}
	x0 := e.cfg.InitialState(model)

	res := &Result{System: e.cfg.System, Method: method.Name, Algebra: e.cfg.Algebra}
	ms := e.reg.DefaultMetrics(model)
	rec := newRecording(res, ms, e.cfg.Output.Every, e.observers)

	log := e.logger.With("system", res.System, "method", res.Method, "algebra", res.Algebra)
	log.Info("run started", "t0", e.cfg.T0, "duration", e.cfg.Duration, "adaptive", e.cfg.Adaptive)

	start := time.Now()
	switch e.cfg.Algebra {
	case config.AlgebraRange:
		res.Stats, err = runWith(ctx, e, model, method, x0, sequenceSpace(model, func(x []float64) algebra.Sequence[float64] {
			return algebra.Slice[float64](x)
		}), rec)
	case config.AlgebraVector:
		res.Stats, err = runWith(ctx, e, model, method, x0, sequenceSpace(model, func(x []float64) algebra.Sequence[float64] {
			return algebra.NewVector(len(x), x)
		}), rec)
	default:
		res.Stats, err = runWith(ctx, e, model, method, x0, arraySpace(model, e.cfg.ParallelChunk), rec)
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		log.Error("run failed", "error", err, "t", res.Stats.T)
		return res, err
	}

	rec.finish()
	res.Metrics = metrics.Collect(ms...)
	log.Info("run finished", "steps", res.Stats.Steps, "rejected", res.Stats.Rejected, "elapsed", res.Elapsed)
	return res, nil
}

// space binds a state representation to a model.
type space[V any] struct {
	alg  algebra.Algebra[V, float64]
	wrap func(x []float64) V
	read func(x V) []float64
	sys  stepper.System[V]
}

func arraySpace(model physics.Model, chunk int) space[[]float64] {
	var opts []algebra.ArrayOption
	if chunk > 0 {
		opts = append(opts, algebra.WithParallel(chunk))
	}
	return space[[]float64]{
		alg:  algebra.NewArray[float64](operations.Real{}, opts...),
		wrap: func(x []float64) []float64 { return x },
		read: func(x []float64) []float64 { return x },
		sys:  model.Derive,
	}
}

// sequenceSpace steps Sequence containers and evaluates the model through
// dense scratch buffers.
func sequenceSpace(model physics.Model, wrap func([]float64) algebra.Sequence[float64]) space[algebra.Sequence[float64]] {
	n := model.Dim()
	xbuf, dbuf, obuf := make([]float64, n), make([]float64, n), make([]float64, n)
	gather := func(dst []float64, s algebra.Sequence[float64]) {
		for i := range dst {
			dst[i] = s.At(i)
		}
	}
	return space[algebra.Sequence[float64]]{
		alg:  algebra.NewRange[float64](operations.Real{}),
		wrap: wrap,
		read: func(x algebra.Sequence[float64]) []float64 {
			gather(obuf, x)
			return obuf
		},
		sys: func(x, dxdt algebra.Sequence[float64], t float64) {
			gather(xbuf, x)
			model.Derive(xbuf, dbuf, t)
			for i, v := range dbuf {
				dxdt.Set(i, v)
			}
		},
	}
}

func runWith[V any](ctx context.Context, e *Experiment, model physics.Model, method Method, x0 []float64, sp space[V], rec *recording) (integrate.Stats, error) {
	if len(x0) != model.Dim() {
		return integrate.Stats{}, fmt.Errorf("experiment: state has %d components, %s needs %d: %w",
			len(x0), model.Name(), model.Dim(), dynamo.ErrDimensionMismatch)
	}
	st, err := stepper.New[V, float64, float64](method.Category, method.Tableau, sp.alg, operations.Real{})
	if err != nil {
		return integrate.Stats{}, err
	}

	x := sp.wrap(x0)
	t0, t1 := e.cfg.T0, e.cfg.T0+e.cfg.Duration
	prevT := t0
	opts := integrate.Options[V]{
		Logger:   e.logger,
		MaxSteps: e.cfg.MaxSteps,
		Observers: []integrate.Observer[V]{func(x V, t float64) {
			if e.recorder != nil && !e.cfg.Adaptive && t != t0 {
				e.recorder.ObserveFixed(t, t-prevT)
			}
			prevT = t
			rec.observe(sp.read(x), t)
		}},
	}

	if !e.cfg.Adaptive {
		return integrate.Const(ctx, st, sp.sys, x, t0, t1, e.cfg.Dt, opts)
	}

	es, ok := st.(stepper.ErrorStepper[V])
	if !ok {
		return integrate.Stats{}, fmt.Errorf("experiment: %s has no error estimate: %w", method.Name, dynamo.ErrInvalidTableau)
	}
	var copts []adaptive.Option
	copts = append(copts, adaptive.WithLogger(e.logger))
	if e.recorder != nil {
		copts = append(copts, adaptive.WithHook(e.recorder.ObserveOutcome))
	}
	ctrl, err := adaptive.New[V, float64](es, sp.alg, e.cfg.AdaptiveConfig(), copts...)
	if err != nil {
		return integrate.Stats{}, err
	}
	return integrate.Adaptive(ctx, ctrl, sp.sys, x, t0, t1, e.cfg.Dt, opts)
}

// recording samples observed states into a Result and feeds metrics.
type recording struct {
	res       *Result
	ms        []metrics.Metric
	every     int
	seen      int
	lastX     []float64
	lastT     float64
	observers []func([]float64, float64)
}

func newRecording(res *Result, ms []metrics.Metric, every int, observers []func([]float64, float64)) *recording {
	if every < 1 {
		every = 1
	}
	return &recording{res: res, ms: ms, every: every, observers: observers}
}

func (r *recording) observe(x []float64, t float64) {
	for _, m := range r.ms {
		m.Observe(x, t)
	}
	for _, obs := range r.observers {
		obs(x, t)
	}
	if r.seen%r.every == 0 {
		r.res.Times = append(r.res.Times, t)
		r.res.States = append(r.res.States, integrate.CloneSlice(x))
	} else {
		r.lastX = append(r.lastX[:0], x...)
	}
	r.lastT = t
	r.seen++
}

// finish records the final state if sampling skipped it.
func (r *recording) finish() {
	n := len(r.res.Times)
	if r.seen == 0 || (n > 0 && r.res.Times[n-1] == r.lastT) {
		return
	}
	r.res.Times = append(r.res.Times, r.lastT)
	r.res.States = append(r.res.States, integrate.CloneSlice(r.lastX))
}

// Difference is the largest componentwise gap between the final states of
// two runs.
func Difference(a, b *Result) float64 {
	fa, fb := a.Final(), b.Final()
	if len(fa) != len(fb) {
		return math.Inf(1)
	}
	d := 0.0
	for i := range fa {
		d = operations.MaxAbs(d, math.Abs(fa[i]-fb[i]))
	}
	return d
}
