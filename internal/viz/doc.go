// Package viz draws simulation state in the terminal.
//
// [Watch] is a Bubble Tea program that steps an experiment session live,
// drawing the system on a Braille [Canvas] next to an energy or
// component chart. [Plot] renders recorded runs with asciigraph.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial state
//	Tab   - Select parameter
//	Up/Dn - Tune selected parameter by 5%
//	[ ]   - Scrub through recent history
//	T     - Cycle color themes
//	X/Y/Z - Rotate 3D views
//	?     - Show help overlay
package viz
