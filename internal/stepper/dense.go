package stepper

import (
	"github.com/san-kum/odeint/internal/algebra"
	"github.com/san-kum/odeint/internal/operations"
	"github.com/san-kum/odeint/internal/tableau"
)

// Dense returns a stepper over plain []float64 states.
func Dense(tab *tableau.Tableau) (*Explicit[[]float64, float64, float64], error) {
	return NewExplicit[[]float64, float64, float64](tab, algebra.NewArray[float64](operations.Real{}), operations.Real{})
}

func DenseEmbedded(tab *tableau.Tableau) (*Embedded[[]float64, float64, float64], error) {
	return NewEmbedded[[]float64, float64, float64](tab, algebra.NewArray[float64](operations.Real{}), operations.Real{})
}
