package units

import (
	"math"

	"github.com/san-kum/odeint/internal/operations"
)

// Space is the quantity element space. Coefficients are quantities too, so
// a step of h seconds scales a velocity into a length.
type Space struct{}

var _ operations.Space[Quantity, Quantity] = Space{}

// Ops builds operations over quantities.
var Ops = operations.Ops[Quantity, Quantity]{Field: Space{}}

func (Space) Add(a, b Quantity) Quantity   { return a.Add(b) }
func (Space) Scale(s, e Quantity) Quantity { return s.Mul(e) }

// Abs drops the dimension: tolerances compare bare magnitudes.
func (Space) Abs(e Quantity) float64 { return math.Abs(e.Value) }

func (Space) One() Quantity { return Dimensionless }

func (Space) Duration(h float64) Quantity { return Of(h, Second) }
