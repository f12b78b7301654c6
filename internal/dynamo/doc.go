// Package dynamo holds the primitives shared by every layer of the stepping
// engine: sentinel errors and the index-parallel helper used by the array
// algebra.
//
// The numerical layers are split by concern:
//
//   - operations: elementwise weighted sums and the infinity-norm fold
//   - algebra: traversal of one or more containers in lock-step
//   - tableau: Butcher coefficient tables
//   - stepper: explicit and embedded Runge-Kutta steppers
//   - adaptive: error-driven step-size control
//   - integrate: caller-facing integration loops
//
// # Example
//
//	tab := tableau.Dopri5()
//	st, _ := stepper.DenseEmbedded(tab)
//	ctrl, _ := adaptive.New[[]float64, float64](st, algebra.NewArray[float64](operations.Real{}), adaptive.DefaultConfig())
//	stats, _ := integrate.Adaptive(ctx, ctrl, sys, x, 0, 10, 0.01, integrate.Options[[]float64]{})
//
// # Thread Safety
//
// Steppers and controllers own scratch buffers and are NOT safe for
// concurrent use. Build one per goroutine.
package dynamo
