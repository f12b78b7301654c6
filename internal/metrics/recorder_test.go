package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odeint/internal/adaptive"
)

func TestRecorderOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "dopri5")

	r.ObserveOutcome(adaptive.Outcome{State: adaptive.Rejected, T: 0, Dt: 0.5, ErrNorm: 4})
	r.ObserveOutcome(adaptive.Outcome{State: adaptive.Accepted, T: 0, Dt: 0.25, ErrNorm: 0.3})
	r.ObserveOutcome(adaptive.Outcome{State: adaptive.Accepted, T: 0.25, Dt: 0.5, ErrNorm: 0.8})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.StepsTotal.WithLabelValues("dopri5", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.StepsTotal.WithLabelValues("dopri5", "rejected")))
	assert.Equal(t, 0.8, testutil.ToFloat64(r.ErrorNorm.WithLabelValues("dopri5")))
	assert.Equal(t, 0.75, testutil.ToFloat64(r.SimTime.WithLabelValues("dopri5")))
}

func TestRecorderFixed(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "rk4")

	r.ObserveFixed(0.1, 0.1)
	r.ObserveFixed(0.2, 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.StepsTotal.WithLabelValues("rk4", "accepted")))
	assert.Equal(t, 0.2, testutil.ToFloat64(r.SimTime.WithLabelValues("rk4")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.StepSize))
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, "rk4")
	r.ObserveFixed(1, 0.5)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "# TYPE odeint_steps_total counter")
	assert.Contains(t, out, `odeint_steps_total{method="rk4",outcome="accepted"} 1`)
	assert.True(t, strings.Contains(out, "odeint_step_size_bucket"))
}

func TestRecordersShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewRecorder(reg, "rk4")
	b := NewRecorder(reg, "dopri5")

	a.ObserveFixed(0.1, 0.1)
	b.ObserveOutcome(adaptive.Outcome{State: adaptive.Accepted, Dt: 0.1, ErrNorm: 0.5})

	assert.Same(t, a.StepsTotal, b.StepsTotal)
	assert.Equal(t, 2, testutil.CollectAndCount(a.StepsTotal))
}
