package algebra

import "github.com/san-kum/odeint/internal/operations"

// Range traverses any Sequence by position.
type Range[E any] struct {
	mag Magnitude[E]
}

func NewRange[E any](m Magnitude[E]) *Range[E] {
	return &Range[E]{mag: m}
}

func (r *Range[E]) ForEach(op operations.Operation[E], xs ...Sequence[E]) error {
	if err := checkArity(op.Arity(), len(xs)); err != nil {
		return err
	}
	n, err := checkLengths(func(i int) int { return xs[i].Len() }, len(xs))
	if err != nil {
		return err
	}

	dst, srcs := xs[0], xs[1:]
	terms := make([]E, len(srcs))
	for i := 0; i < n; i++ {
		for j, s := range srcs {
			terms[j] = s.At(i)
		}
		dst.Set(i, op.Apply(dst.At(i), terms))
	}
	return nil
}

func (r *Range[E]) NormInf(v Sequence[E]) float64 {
	nrm := 0.0
	for i := 0; i < v.Len(); i++ {
		nrm = operations.MaxAbs(nrm, r.mag.Abs(v.At(i)))
	}
	return nrm
}

func (r *Range[E]) Reduce(init float64, fn func(acc float64, abs []float64) float64, xs ...Sequence[E]) (float64, error) {
	n, err := checkLengths(func(i int) int { return xs[i].Len() }, len(xs))
	if err != nil {
		return 0, err
	}

	acc := init
	abs := make([]float64, len(xs))
	for i := 0; i < n; i++ {
		for j, x := range xs {
			abs[j] = r.mag.Abs(x.At(i))
		}
		acc = fn(acc, abs)
	}
	return acc, nil
}

func (r *Range[E]) Copy(dst, src Sequence[E]) error {
	xs := []Sequence[E]{dst, src}
	n, err := checkLengths(func(i int) int { return xs[i].Len() }, len(xs))
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		dst.Set(i, src.At(i))
	}
	return nil
}

func (r *Range[E]) Like(v Sequence[E]) Sequence[E] { return v.Like() }
func (r *Range[E]) Len(v Sequence[E]) int          { return v.Len() }

func (r *Range[E]) ForEach2(x1, x2 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2)
}

func (r *Range[E]) ForEach3(x1, x2, x3 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2, x3)
}

func (r *Range[E]) ForEach4(x1, x2, x3, x4 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2, x3, x4)
}

func (r *Range[E]) ForEach5(x1, x2, x3, x4, x5 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2, x3, x4, x5)
}

func (r *Range[E]) ForEach6(x1, x2, x3, x4, x5, x6 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2, x3, x4, x5, x6)
}

func (r *Range[E]) ForEach7(x1, x2, x3, x4, x5, x6, x7 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2, x3, x4, x5, x6, x7)
}

func (r *Range[E]) ForEach8(x1, x2, x3, x4, x5, x6, x7, x8 Sequence[E], op operations.Operation[E]) error {
	return r.ForEach(op, x1, x2, x3, x4, x5, x6, x7, x8)
}
