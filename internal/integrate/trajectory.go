package integrate

// Trajectory records observed states. Clone must return an independent
// copy of its argument.
type Trajectory[V any] struct {
	Times  []float64
	States []V
	clone  func(V) V
}

func NewTrajectory[V any](clone func(V) V) *Trajectory[V] {
	return &Trajectory[V]{clone: clone}
}

// Observe satisfies Observer.
func (tr *Trajectory[V]) Observe(x V, t float64) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, tr.clone(x))
}

func (tr *Trajectory[V]) Len() int { return len(tr.Times) }

// Last returns the final recorded state and its time.
func (tr *Trajectory[V]) Last() (V, float64, bool) {
	if len(tr.Times) == 0 {
		var zero V
		return zero, 0, false
	}
	n := len(tr.Times) - 1
	return tr.States[n], tr.Times[n], true
}

// CloneSlice copies a []float64 state.
func CloneSlice(x []float64) []float64 {
	return append([]float64(nil), x...)
}
