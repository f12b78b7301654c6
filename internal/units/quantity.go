// Package units provides scalar quantities tagged with physical dimensions,
// usable as state elements and step coefficients.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrIncompatible indicates arithmetic between quantities of different dimensions.
var ErrIncompatible = errors.New("units: incompatible dimensions")

// Dimension holds SI base-unit exponents.
type Dimension struct {
	Length int8
	Mass   int8
	Time   int8
}

func (d Dimension) Mul(o Dimension) Dimension {
	return Dimension{Length: d.Length + o.Length, Mass: d.Mass + o.Mass, Time: d.Time + o.Time}
}

func (d Dimension) Inverse() Dimension {
	return Dimension{Length: -d.Length, Mass: -d.Mass, Time: -d.Time}
}

func (d Dimension) String() string {
	var parts []string
	for _, u := range []struct {
		sym string
		exp int8
	}{{"m", d.Length}, {"kg", d.Mass}, {"s", d.Time}} {
		switch u.exp {
		case 0:
		case 1:
			parts = append(parts, u.sym)
		default:
			parts = append(parts, fmt.Sprintf("%s^%d", u.sym, u.exp))
		}
	}
	return strings.Join(parts, " ")
}

// Quantity is a float64 value with a dimension. The zero value is a
// dimensionless zero.
type Quantity struct {
	Value float64
	Dim   Dimension
}

var (
	Dimensionless   = Quantity{Value: 1}
	Meter           = Quantity{Value: 1, Dim: Dimension{Length: 1}}
	Kilogram        = Quantity{Value: 1, Dim: Dimension{Mass: 1}}
	Second          = Quantity{Value: 1, Dim: Dimension{Time: 1}}
	MeterPerSecond  = Meter.Div(Second)
	MeterPerSecond2 = MeterPerSecond.Div(Second)
)

// Of returns v expressed in unit.
func Of(v float64, unit Quantity) Quantity {
	return Quantity{Value: v * unit.Value, Dim: unit.Dim}
}

func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{Value: q.Value * o.Value, Dim: q.Dim.Mul(o.Dim)}
}

func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{Value: q.Value / o.Value, Dim: q.Dim.Mul(o.Dim.Inverse())}
}

// Add panics when the dimensions differ; mixing them is a programming error.
func (q Quantity) Add(o Quantity) Quantity {
	if q.Dim != o.Dim {
		panic(fmt.Errorf("units: cannot add [%s] to [%s]: %w", o.Dim, q.Dim, ErrIncompatible))
	}
	return Quantity{Value: q.Value + o.Value, Dim: q.Dim}
}

func (q Quantity) Sub(o Quantity) Quantity {
	return q.Add(Quantity{Value: -o.Value, Dim: o.Dim})
}

func (q Quantity) Abs() Quantity {
	return Quantity{Value: math.Abs(q.Value), Dim: q.Dim}
}

func (q Quantity) String() string {
	if d := q.Dim.String(); d != "" {
		return fmt.Sprintf("%g %s", q.Value, d)
	}
	return fmt.Sprintf("%g", q.Value)
}
