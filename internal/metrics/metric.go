// Package metrics observes integrations: scalar run metrics computed from
// accepted states, and Prometheus instruments for controller behaviour.
package metrics

import "sort"

// Metric folds observed states into a single value.
type Metric interface {
	Name() string
	Observe(x []float64, t float64)
	Value() float64
	Reset()
}

// Collect returns the current value of every metric by name.
func Collect(ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names lists metric names in sorted order.
func Names(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
