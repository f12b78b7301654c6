// Package algebra applies elementwise operations across containers.
//
// An Algebra knows how to traverse one kind of container; an
// operations.Operation knows how to combine the elements found at one index.
// Range walks anything satisfying Sequence, Array walks plain slices. Both
// give identical results for identical data.
package algebra

import (
	"fmt"

	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/operations"
)

// Algebra traverses containers of type V holding elements of type E.
type Algebra[V, E any] interface {
	// ForEach applies op at every index of xs in increasing order. xs[0]
	// receives the result; the remaining containers are the op's terms.
	ForEach(op operations.Operation[E], xs ...V) error
	// NormInf returns the largest element magnitude of v.
	NormInf(v V) float64
	// Reduce folds the element magnitudes found at each index of xs.
	Reduce(init float64, fn func(acc float64, abs []float64) float64, xs ...V) (float64, error)
	Copy(dst, src V) error
	Like(v V) V
	Len(v V) int
}

// Magnitude reports the size of an element as a real number.
type Magnitude[E any] interface {
	Abs(e E) float64
}

func checkArity(arity, containers int) error {
	if containers < 2 {
		return fmt.Errorf("algebra: need at least 2 containers, got %d: %w", containers, dynamo.ErrArityMismatch)
	}
	if arity != containers-1 {
		return fmt.Errorf("algebra: operation takes %d terms, got %d containers: %w", arity, containers, dynamo.ErrArityMismatch)
	}
	return nil
}

func checkLengths(lengths func(i int) int, count int) (int, error) {
	if count == 0 {
		return 0, nil
	}
	n := lengths(0)
	for i := 1; i < count; i++ {
		if l := lengths(i); l != n {
			return 0, fmt.Errorf("algebra: container %d has length %d, want %d: %w", i, l, n, dynamo.ErrDimensionMismatch)
		}
	}
	return n, nil
}
