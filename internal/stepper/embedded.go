package stepper

import (
	"fmt"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/tableau"
)

// Embedded is an explicit stepper over a tableau with a second weight row.
// DoStep behaves exactly like the plain stepper; DoStepWithError also
// reports xerr = dt*sum_i (b_i - bhat_i)*k_i.
type Embedded[V, E, S any] struct {
	*Explicit[V, E, S]
	errW    []float64
	errC    []S
	errStep *operations.ScaleSum[E, S]
}

func NewEmbedded[V, E, S any](tab *tableau.Tableau, alg algebra.Algebra[V, E], space operations.Space[E, S]) (*Embedded[V, E, S], error) {
	if tab != nil && !tab.Embedded() {
		return nil, fmt.Errorf("stepper: tableau %q has no embedded weights: %w", tab.Name, dynamo.ErrInvalidTableau)
	}
	ex, err := NewExplicit[V, E, S](tab, alg, space)
	if err != nil {
		return nil, err
	}
	errW := ex.tab.ErrorWeights()
	errC := make([]S, len(errW))
	return &Embedded[V, E, S]{
		Explicit: ex,
		errW:     errW,
		errC:     errC,
		errStep:  operations.ScaleSumOver[E, S](space, errC),
	}, nil
}

func (s *Embedded[V, E, S]) ErrorOrder() int { return s.tab.ErrorOrder }

// DoStepWithError leaves x untouched if xerr has the wrong shape.
func (s *Embedded[V, E, S]) DoStepWithError(sys System[V], x V, t, dt float64, xerr V) error {
	if err := s.stages(sys, x, t, dt); err != nil {
		return err
	}
	if err := s.estimate(xerr, dt); err != nil {
		return err
	}
	return s.advance(x, dt)
}

func (s *Embedded[V, E, S]) estimate(xerr V, dt float64) error {
	for i, w := range s.errW {
		s.errC[i] = s.space.Duration(w * dt)
	}
	args := s.args[:len(s.errW)+1]
	args[0] = xerr
	copy(args[1:], s.k)
	return s.alg.ForEach(s.errStep, args...)
}
