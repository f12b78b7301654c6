package stepper

import (
	"fmt"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/tableau"
)

// Explicit is a fixed-step explicit Runge-Kutta stepper. Stage buffers are
// allocated on first use and reused while the state length is unchanged.
// The stage and update operations are built once and only their
// coefficients are rewritten per step, so an Explicit must not be shared
// between goroutines.
type Explicit[V, E, S any] struct {
	tab   *tableau.Tableau
	alg   algebra.Algebra[V, E]
	space operations.Space[E, S]

	n    int
	k    []V
	tmp  V
	args []V

	// stageW[i] is [1, dt*a_i0, ..., dt*a_i(i-1)], read by stageOp[i].
	stageW  [][]S
	stageOp []*operations.ScaleSum[E, S]
	updateW []S
	update  *operations.Increment[E, S]
}

// NewExplicit validates tab and returns a stepper holding a private copy
// of it.
func NewExplicit[V, E, S any](tab *tableau.Tableau, alg algebra.Algebra[V, E], space operations.Space[E, S]) (*Explicit[V, E, S], error) {
	if tab == nil {
		return nil, fmt.Errorf("stepper: nil tableau: %w", dynamo.ErrInvalidTableau)
	}
	if err := tab.Validate(); err != nil {
		return nil, err
	}
	s := tab.Stages()
	st := &Explicit[V, E, S]{
		tab:     tab.Clone(),
		alg:     alg,
		space:   space,
		n:       -1,
		k:       make([]V, s),
		args:    make([]V, s+2),
		stageW:  make([][]S, s),
		stageOp: make([]*operations.ScaleSum[E, S], s),
		updateW: make([]S, s),
	}
	for i := 1; i < s; i++ {
		st.stageW[i] = make([]S, i+1)
		st.stageW[i][0] = space.One()
		st.stageOp[i] = operations.ScaleSumOver[E, S](space, st.stageW[i])
	}
	st.update = operations.IncrementOver[E, S](space, st.updateW)
	return st, nil
}

func (s *Explicit[V, E, S]) Order() int               { return s.tab.Order }
func (s *Explicit[V, E, S]) Category() SystemCategory { return ExplicitSystem }
func (s *Explicit[V, E, S]) Name() string             { return s.tab.Name }

// Tableau returns a copy of the coefficients in use.
func (s *Explicit[V, E, S]) Tableau() *tableau.Tableau { return s.tab.Clone() }

func (s *Explicit[V, E, S]) DoStep(sys System[V], x V, t, dt float64) error {
	if err := s.stages(sys, x, t, dt); err != nil {
		return err
	}
	return s.advance(x, dt)
}

func (s *Explicit[V, E, S]) ensure(x V) {
	n := s.alg.Len(x)
	if n == s.n {
		return
	}
	for i := range s.k {
		s.k[i] = s.alg.Like(x)
	}
	s.tmp = s.alg.Like(x)
	s.n = n
}

// stages evaluates every k_i. The first stage reads x directly; later
// stages read x + dt*sum_j a_ij*k_j staged in tmp.
func (s *Explicit[V, E, S]) stages(sys System[V], x V, t, dt float64) error {
	if err := checkStep(dt); err != nil {
		return err
	}
	s.ensure(x)
	for i, row := range s.tab.A {
		src := x
		if i > 0 {
			w := s.stageW[i]
			for j, a := range row {
				w[j+1] = s.space.Duration(a * dt)
			}
			args := s.args[:i+2]
			args[0], args[1] = s.tmp, x
			copy(args[2:], s.k[:i])
			if err := s.alg.ForEach(s.stageOp[i], args...); err != nil {
				return err
			}
			src = s.tmp
		}
		sys(src, s.k[i], t+s.tab.C[i]*dt)
	}
	return nil
}

// advance applies x += dt*sum_i b_i*k_i.
func (s *Explicit[V, E, S]) advance(x V, dt float64) error {
	for i, b := range s.tab.B {
		s.updateW[i] = s.space.Duration(b * dt)
	}
	args := s.args[:len(s.k)+1]
	args[0] = x
	copy(args[1:], s.k)
	return s.alg.ForEach(s.update, args...)
}
