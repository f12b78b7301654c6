package operations

import "math"

// Operation combines the elements found at one index of several containers.
// Apply receives the current value of the destination element and the
// elements of the source containers, and returns the new destination value.
type Operation[E any] interface {
	Arity() int
	Apply(dst E, terms []E) E
}

// ScaleSum overwrites the destination with c1*x1 + c2*x2 + ... + cK*xK.
// Terms are accumulated strictly left to right.
type ScaleSum[E, S any] struct {
	field  Field[E, S]
	coeffs []S
}

// NewScaleSum builds a weighted sum with one coefficient per source container.
// The coefficients are copied.
func NewScaleSum[E, S any](f Field[E, S], coeffs ...S) ScaleSum[E, S] {
	if len(coeffs) == 0 {
		panic("operations: scale sum needs at least one coefficient")
	}
	c := make([]S, len(coeffs))
	copy(c, coeffs)
	return ScaleSum[E, S]{field: f, coeffs: c}
}

// ScaleSumOver is NewScaleSum without the copy. Apply reads coeffs as they
// are at traversal time, so the owner may rewrite them between traversals
// and keep using one operation.
func ScaleSumOver[E, S any](f Field[E, S], coeffs []S) *ScaleSum[E, S] {
	if len(coeffs) == 0 {
		panic("operations: scale sum needs at least one coefficient")
	}
	return &ScaleSum[E, S]{field: f, coeffs: coeffs}
}

func (op ScaleSum[E, S]) Arity() int { return len(op.coeffs) }

// Coefficients returns a copy of the weights.
func (op ScaleSum[E, S]) Coefficients() []S {
	c := make([]S, len(op.coeffs))
	copy(c, op.coeffs)
	return c
}

func (op ScaleSum[E, S]) Apply(_ E, terms []E) E {
	acc := op.field.Scale(op.coeffs[0], terms[0])
	for j := 1; j < len(terms); j++ {
		acc = op.field.Add(acc, op.field.Scale(op.coeffs[j], terms[j]))
	}
	return acc
}

// Increment adds c1*x1 + ... + cK*xK onto the destination.
type Increment[E, S any] struct {
	field  Field[E, S]
	coeffs []S
}

// NewIncrement builds an accumulating weighted sum.
func NewIncrement[E, S any](f Field[E, S], coeffs ...S) Increment[E, S] {
	if len(coeffs) == 0 {
		panic("operations: increment needs at least one coefficient")
	}
	c := make([]S, len(coeffs))
	copy(c, coeffs)
	return Increment[E, S]{field: f, coeffs: c}
}

// IncrementOver is the non-copying form of NewIncrement, see ScaleSumOver.
func IncrementOver[E, S any](f Field[E, S], coeffs []S) *Increment[E, S] {
	if len(coeffs) == 0 {
		panic("operations: increment needs at least one coefficient")
	}
	return &Increment[E, S]{field: f, coeffs: coeffs}
}

func (op Increment[E, S]) Arity() int { return len(op.coeffs) }

func (op Increment[E, S]) Apply(dst E, terms []E) E {
	acc := dst
	for j, t := range terms {
		acc = op.field.Add(acc, op.field.Scale(op.coeffs[j], t))
	}
	return acc
}

// MaxAbs folds one magnitude into a running infinity norm. NaN is sticky:
// once seen it is the result, so a non-finite error is never masked.
func MaxAbs(acc, v float64) float64 {
	if math.IsNaN(acc) {
		return acc
	}
	if math.IsNaN(v) || v > acc {
		return v
	}
	return acc
}
