package algebra

import "gonum.org/v1/gonum/mat"

// Vector presents a gonum dense vector as a Sequence of float64.
type Vector struct {
	vec *mat.VecDense
}

// NewVector allocates an n-element vector, optionally backed by data.
func NewVector(n int, data []float64) *Vector {
	return &Vector{vec: mat.NewVecDense(n, data)}
}

// VectorOf wraps an existing gonum vector without copying.
func VectorOf(v *mat.VecDense) *Vector {
	return &Vector{vec: v}
}

func (v *Vector) Len() int                { return v.vec.Len() }
func (v *Vector) At(i int) float64        { return v.vec.AtVec(i) }
func (v *Vector) Set(i int, e float64)    { v.vec.SetVec(i, e) }
func (v *Vector) Like() Sequence[float64] { return NewVector(v.vec.Len(), nil) }

// Raw returns the underlying gonum vector.
func (v *Vector) Raw() *mat.VecDense { return v.vec }
