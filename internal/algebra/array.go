package algebra

import (
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
)

// Array traverses slices directly, without going through Sequence.
// With WithParallel, ForEach splits the index range across goroutines;
// reductions always run sequentially.
type Array[E any] struct {
	mag      Magnitude[E]
	minChunk int
}

type ArrayOption func(*arrayConfig)

type arrayConfig struct {
	minChunk int
}

// WithParallel enables index-parallel ForEach for slices longer than minChunk.
func WithParallel(minChunk int) ArrayOption {
	return func(c *arrayConfig) { c.minChunk = minChunk }
}

func NewArray[E any](m Magnitude[E], opts ...ArrayOption) *Array[E] {
	var cfg arrayConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Array[E]{mag: m, minChunk: cfg.minChunk}
}

func (a *Array[E]) ForEach(op operations.Operation[E], xs ...[]E) error {
	if err := checkArity(op.Arity(), len(xs)); err != nil {
		return err
	}
	n, err := checkLengths(func(i int) int { return len(xs[i]) }, len(xs))
	if err != nil {
		return err
	}

	apply := func(start, end int) {
		dst, srcs := xs[0], xs[1:]
		terms := make([]E, len(srcs))
		for i := start; i < end; i++ {
			for j, s := range srcs {
				terms[j] = s[i]
			}
			dst[i] = op.Apply(dst[i], terms)
		}
	}

	if a.minChunk > 0 {
		dynamo.ParallelFor(n, a.minChunk, apply)
	} else {
		apply(0, n)
	}
	return nil
}

func (a *Array[E]) NormInf(v []E) float64 {
	nrm := 0.0
	for _, e := range v {
		nrm = operations.MaxAbs(nrm, a.mag.Abs(e))
	}
	return nrm
}

func (a *Array[E]) Reduce(init float64, fn func(acc float64, abs []float64) float64, xs ...[]E) (float64, error) {
	n, err := checkLengths(func(i int) int { return len(xs[i]) }, len(xs))
	if err != nil {
		return 0, err
	}

	acc := init
	abs := make([]float64, len(xs))
	for i := 0; i < n; i++ {
		for j, x := range xs {
			abs[j] = a.mag.Abs(x[i])
		}
		acc = fn(acc, abs)
	}
	return acc, nil
}

func (a *Array[E]) Copy(dst, src []E) error {
	xs := [][]E{dst, src}
	if _, err := checkLengths(func(i int) int { return len(xs[i]) }, len(xs)); err != nil {
		return err
	}
	copy(dst, src)
	return nil
}

func (a *Array[E]) Like(v []E) []E { return make([]E, len(v)) }
func (a *Array[E]) Len(v []E) int  { return len(v) }

func (a *Array[E]) ForEach2(x1, x2 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2)
}

func (a *Array[E]) ForEach3(x1, x2, x3 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2, x3)
}

func (a *Array[E]) ForEach4(x1, x2, x3, x4 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2, x3, x4)
}

func (a *Array[E]) ForEach5(x1, x2, x3, x4, x5 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2, x3, x4, x5)
}

func (a *Array[E]) ForEach6(x1, x2, x3, x4, x5, x6 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2, x3, x4, x5, x6)
}

func (a *Array[E]) ForEach7(x1, x2, x3, x4, x5, x6, x7 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2, x3, x4, x5, x6, x7)
}

func (a *Array[E]) ForEach8(x1, x2, x3, x4, x5, x6, x7, x8 []E, op operations.Operation[E]) error {
	return a.ForEach(op, x1, x2, x3, x4, x5, x6, x7, x8)
}
