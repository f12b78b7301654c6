// Package physics provides first-order dynamical systems over dense
// []float64 states.
//
// Each model implements [Model], writing its right-hand side into a
// caller-owned derivative buffer:
//
//   - [Constant]: dx/dt = rate
//   - [Decay]: exponential decay
//   - [Harmonic]: undamped harmonic oscillator
//   - [Pendulum]: damped, optionally driven pendulum
//   - [SpringMass]: chain of masses between two walls
//   - [VanDerPol]: relaxation oscillator with a limit cycle
//   - [Duffing]: forced nonlinear oscillator
//   - [Lorenz]: butterfly attractor
//
// Conservative models also implement [Hamiltonian] so energy drift can be
// monitored during a run:
//
//	m, _ := physics.New("harmonic")
//	if h, ok := m.(physics.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
