package stepper

import (
	"fmt"
	"strings"

	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/tableau"
)

// SystemCategory describes the shape of the right-hand side a stepper
// expects. Only ExplicitSystem has steppers in this module; the other
// categories are recognised so callers get a typed error instead of a
// silent mismatch.
type SystemCategory int

const (
	ExplicitSystem SystemCategory = iota
	SecondOrderSystem
	SymplecticSystem
	SimpleSymplecticSystem
	SymplecticOrSimpleSymplecticSystem
	ImplicitSystem
)

var categoryNames = map[SystemCategory]string{
	ExplicitSystem:                     "explicit",
	SecondOrderSystem:                  "second-order",
	SymplecticSystem:                   "symplectic",
	SimpleSymplecticSystem:             "simple-symplectic",
	SymplecticOrSimpleSymplecticSystem: "symplectic-or-simple-symplectic",
	ImplicitSystem:                     "implicit",
}

func (c SystemCategory) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func ParseCategory(s string) (SystemCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("stepper: unknown category %q: %w", s, dynamo.ErrUnsupportedCategory)
}

// New builds a stepper for the given category. Embedded tableaux yield a
// stepper that also implements ErrorStepper.
func New[V, E, S any](cat SystemCategory, tab *tableau.Tableau, alg algebra.Algebra[V, E], space operations.Space[E, S]) (Stepper[V], error) {
	switch cat {
	case ExplicitSystem:
		if tab != nil && tab.Embedded() {
			st, err := NewEmbedded[V, E, S](tab, alg, space)
			if err != nil {
				return nil, err
			}
			return st, nil
		}
		st, err := NewExplicit[V, E, S](tab, alg, space)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("stepper: %s: %w", cat, dynamo.ErrUnsupportedCategory)
	}
}
