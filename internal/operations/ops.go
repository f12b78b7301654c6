package operations

// Ops binds the operation constructors to one element space so call sites
// do not spell out type arguments.
type Ops[E, S any] struct {
	Field Field[E, S]
}

var (
	RealOps    = Ops[float64, float64]{Field: Real{}}
	ComplexOps = Ops[complex128, float64]{Field: Complex{}}
)

func (o Ops[E, S]) ScaleSum(coeffs ...S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, coeffs...)
}

func (o Ops[E, S]) Increment(coeffs ...S) Increment[E, S] {
	return NewIncrement(o.Field, coeffs...)
}

func (o Ops[E, S]) ScaleSum1(a1 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1)
}

func (o Ops[E, S]) ScaleSum2(a1, a2 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1, a2)
}

func (o Ops[E, S]) ScaleSum3(a1, a2, a3 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1, a2, a3)
}

func (o Ops[E, S]) ScaleSum4(a1, a2, a3, a4 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1, a2, a3, a4)
}

func (o Ops[E, S]) ScaleSum5(a1, a2, a3, a4, a5 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1, a2, a3, a4, a5)
}

func (o Ops[E, S]) ScaleSum6(a1, a2, a3, a4, a5, a6 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1, a2, a3, a4, a5, a6)
}

func (o Ops[E, S]) ScaleSum7(a1, a2, a3, a4, a5, a6, a7 S) ScaleSum[E, S] {
	return NewScaleSum(o.Field, a1, a2, a3, a4, a5, a6, a7)
}
