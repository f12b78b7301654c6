package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/san-kum/odeint/internal/adaptive"
)

const namespace = "odeint"

// Recorder holds Prometheus instruments for step attempts. Attach it to a
// controller with adaptive.WithHook(r.ObserveOutcome).
type Recorder struct {
	// StepsTotal counts attempts by method and outcome (accepted, rejected).
	StepsTotal *prometheus.CounterVec
	// StepSize is the magnitude of every attempted dt.
	StepSize *prometheus.HistogramVec
	// ErrorNorm is the scaled error norm of the last attempt.
	ErrorNorm *prometheus.GaugeVec
	// SimTime is the integration time reached by the last accepted step.
	SimTime *prometheus.GaugeVec

	method string
}

// NewRecorder registers the instruments with reg under the given method
// label. Recorders for different methods may share one registry; the
// second registration reuses the first one's collectors.
func NewRecorder(reg prometheus.Registerer, method string) *Recorder {
	return &Recorder{
		StepsTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Step attempts by method and outcome",
		}, []string{"method", "outcome"})),
		StepSize: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_size",
			Help:      "Magnitude of attempted step sizes",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"method"})),
		ErrorNorm: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "error_norm",
			Help:      "Scaled error norm of the last attempt",
		}, []string{"method"})),
		SimTime: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sim_time",
			Help:      "Integration time reached by the last accepted step",
		}, []string{"method"})),
		method: method,
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveOutcome records one controller attempt.
func (r *Recorder) ObserveOutcome(out adaptive.Outcome) {
	r.StepsTotal.WithLabelValues(r.method, out.State.String()).Inc()
	r.StepSize.WithLabelValues(r.method).Observe(math.Abs(out.Dt))
	if !math.IsNaN(out.ErrNorm) {
		r.ErrorNorm.WithLabelValues(r.method).Set(out.ErrNorm)
	}
	if out.State == adaptive.Accepted {
		r.SimTime.WithLabelValues(r.method).Set(out.T + out.Dt)
	}
}

// ObserveFixed records an accepted fixed-size step ending at t.
func (r *Recorder) ObserveFixed(t, dt float64) {
	r.StepsTotal.WithLabelValues(r.method, adaptive.Accepted.String()).Inc()
	r.StepSize.WithLabelValues(r.method).Observe(math.Abs(dt))
	r.SimTime.WithLabelValues(r.method).Set(t)
}

// WriteText writes every metric gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
