// Package analysis characterizes trajectories produced by the steppers.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of a sampled signal
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(st, model.Derive, x0, dt, duration, 1e-8)
//	if err == nil && lambda > 0 {
//	    // System is chaotic
//	}
package analysis
