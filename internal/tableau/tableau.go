// Package tableau defines Butcher tables for explicit Runge-Kutta methods.
//
// A Tableau is built once, validated, and treated as immutable afterwards.
// Stage i (zero-based) is evaluated at t + C[i]*dt on the state
// x + dt*sum_j A[i][j]*k_j, and the step advances with the weights B. An
// embedded tableau carries a second weight vector BHat whose solution has
// order ErrorOrder; the difference of the two solutions estimates the local
// error.
package tableau

import (
	"fmt"
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// consistencyTol bounds the rounding allowed in the sum and row-sum checks.
const consistencyTol = 1e-12

type Tableau struct {
	Name       string
	Order      int
	ErrorOrder int
	C          []float64
	A          [][]float64
	B          []float64
	BHat       []float64
}

// New builds and validates a fixed-step tableau.
func New(name string, order int, c []float64, a [][]float64, b []float64) (*Tableau, error) {
	t := &Tableau{Name: name, Order: order, C: c, A: a, B: b}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewEmbedded builds and validates a tableau with an error estimator.
func NewEmbedded(name string, order, errorOrder int, c []float64, a [][]float64, b, bHat []float64) (*Tableau, error) {
	t := &Tableau{Name: name, Order: order, ErrorOrder: errorOrder, C: c, A: a, B: b, BHat: bHat}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func mustBuild(t *Tableau, err error) *Tableau {
	if err != nil {
		panic(err)
	}
	return t
}

// Clone returns a deep copy, so a stepper's coefficients cannot change
// underneath it.
func (t *Tableau) Clone() *Tableau {
	c := &Tableau{
		Name:       t.Name,
		Order:      t.Order,
		ErrorOrder: t.ErrorOrder,
		C:          append([]float64(nil), t.C...),
		B:          append([]float64(nil), t.B...),
		A:          make([][]float64, len(t.A)),
	}
	for i, row := range t.A {
		c.A[i] = append([]float64{}, row...)
	}
	if t.BHat != nil {
		c.BHat = append([]float64(nil), t.BHat...)
	}
	return c
}

func (t *Tableau) Stages() int    { return len(t.B) }
func (t *Tableau) Embedded() bool { return t.BHat != nil }

// ErrorWeights returns B - BHat, the weights of the error estimate.
func (t *Tableau) ErrorWeights() []float64 {
	if !t.Embedded() {
		return nil
	}
	w := make([]float64, len(t.B))
	for i := range w {
		w[i] = t.B[i] - t.BHat[i]
	}
	return w
}

func (t *Tableau) invalid(format string, args ...any) error {
	return fmt.Errorf("tableau %q: %s: %w", t.Name, fmt.Sprintf(format, args...), dynamo.ErrInvalidTableau)
}

// Validate checks shape and consistency: C, A and B describe the same number
// of stages, A is strictly lower triangular, every row of A sums to its C,
// and the weights sum to one.
func (t *Tableau) Validate() error {
	s := len(t.B)
	if s == 0 {
		return t.invalid("no stages")
	}
	if t.Order < 1 {
		return t.invalid("order %d < 1", t.Order)
	}
	if len(t.C) != s || len(t.A) != s {
		return t.invalid("stage count mismatch: %d weights, %d nodes, %d rows", s, len(t.C), len(t.A))
	}

	for i, row := range t.A {
		if len(row) != i {
			return t.invalid("row %d has %d coefficients, want %d", i, len(row), i)
		}
		sum := 0.0
		for j, a := range row {
			if !finite(a) {
				return t.invalid("a[%d][%d] is not finite", i, j)
			}
			sum += a
		}
		if !finite(t.C[i]) || t.C[i] < 0 || t.C[i] > 1 {
			return t.invalid("node c[%d] = %g outside [0, 1]", i, t.C[i])
		}
		if math.Abs(sum-t.C[i]) > consistencyTol {
			return t.invalid("row %d sums to %g, node is %g", i, sum, t.C[i])
		}
	}

	if err := t.checkWeights("b", t.B); err != nil {
		return err
	}

	if t.BHat == nil {
		if t.ErrorOrder != 0 {
			return t.invalid("error order %d without embedded weights", t.ErrorOrder)
		}
		return nil
	}

	if len(t.BHat) != s {
		return t.invalid("embedded weights have %d entries, want %d", len(t.BHat), s)
	}
	if err := t.checkWeights("bhat", t.BHat); err != nil {
		return err
	}
	if t.ErrorOrder < 1 || t.ErrorOrder == t.Order {
		return t.invalid("error order %d must be positive and differ from order %d", t.ErrorOrder, t.Order)
	}
	for i := range t.B {
		if t.B[i] != t.BHat[i] {
			return nil
		}
	}
	return t.invalid("embedded weights equal the primary weights")
}

func (t *Tableau) checkWeights(name string, w []float64) error {
	sum := 0.0
	for i, v := range w {
		if !finite(v) {
			return t.invalid("%s[%d] is not finite", name, i)
		}
		sum += v
	}
	if math.Abs(sum-1) > consistencyTol {
		return t.invalid("%s sums to %.17g, want 1", name, sum)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
