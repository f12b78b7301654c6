package tableau

import (
	"fmt"
	"sort"
)

// Euler returns the forward Euler method.
func Euler() *Tableau {
	return mustBuild(New("euler", 1,
		[]float64{0},
		[][]float64{{}},
		[]float64{1},
	))
}

// Midpoint returns the explicit midpoint rule.
func Midpoint() *Tableau {
	return mustBuild(New("midpoint", 2,
		[]float64{0, 0.5},
		[][]float64{
			{},
			{0.5},
		},
		[]float64{0, 1},
	))
}

// Heun returns Heun's second order method.
func Heun() *Tableau {
	return mustBuild(New("heun", 2,
		[]float64{0, 1},
		[][]float64{
			{},
			{1},
		},
		[]float64{0.5, 0.5},
	))
}

// RK4 returns the classic fourth order Runge-Kutta method.
func RK4() *Tableau {
	return mustBuild(New("rk4", 4,
		[]float64{0, 0.5, 0.5, 1},
		[][]float64{
			{},
			{0.5},
			{0, 0.5},
			{0, 0, 1},
		},
		[]float64{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0},
	))
}

// RK38 returns Kutta's 3/8 rule.
func RK38() *Tableau {
	return mustBuild(New("rk38", 4,
		[]float64{0, 1.0 / 3.0, 2.0 / 3.0, 1},
		[][]float64{
			{},
			{1.0 / 3.0},
			{-1.0 / 3.0, 1},
			{1, -1, 1},
		},
		[]float64{1.0 / 8.0, 3.0 / 8.0, 3.0 / 8.0, 1.0 / 8.0},
	))
}

// BogackiShampine returns the Bogacki-Shampine 3(2) pair.
func BogackiShampine() *Tableau {
	return mustBuild(NewEmbedded("bogacki_shampine", 3, 2,
		[]float64{0, 0.5, 0.75, 1},
		[][]float64{
			{},
			{0.5},
			{0, 0.75},
			{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0},
		},
		[]float64{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
		[]float64{7.0 / 24.0, 1.0 / 4.0, 1.0 / 3.0, 1.0 / 8.0},
	))
}

// Fehlberg45 returns the Runge-Kutta-Fehlberg 4(5) pair, advancing with the
// fifth order weights.
func Fehlberg45() *Tableau {
	return mustBuild(NewEmbedded("fehlberg45", 5, 4,
		[]float64{0, 1.0 / 4.0, 3.0 / 8.0, 12.0 / 13.0, 1, 1.0 / 2.0},
		[][]float64{
			{},
			{1.0 / 4.0},
			{3.0 / 32.0, 9.0 / 32.0},
			{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0},
			{439.0 / 216.0, -8, 3680.0 / 513.0, -845.0 / 4104.0},
			{-8.0 / 27.0, 2, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0},
		},
		[]float64{16.0 / 135.0, 0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0},
		[]float64{25.0 / 216.0, 0, 1408.0 / 2565.0, 2197.0 / 4104.0, -1.0 / 5.0, 0},
	))
}

// CashKarp54 returns the Cash-Karp 5(4) pair.
func CashKarp54() *Tableau {
	return mustBuild(NewEmbedded("cash_karp54", 5, 4,
		[]float64{0, 1.0 / 5.0, 3.0 / 10.0, 3.0 / 5.0, 1, 7.0 / 8.0},
		[][]float64{
			{},
			{1.0 / 5.0},
			{3.0 / 40.0, 9.0 / 40.0},
			{3.0 / 10.0, -9.0 / 10.0, 6.0 / 5.0},
			{-11.0 / 54.0, 5.0 / 2.0, -70.0 / 27.0, 35.0 / 27.0},
			{1631.0 / 55296.0, 175.0 / 512.0, 575.0 / 13824.0, 44275.0 / 110592.0, 253.0 / 4096.0},
		},
		[]float64{37.0 / 378.0, 0, 250.0 / 621.0, 125.0 / 594.0, 0, 512.0 / 1771.0},
		[]float64{2825.0 / 27648.0, 0, 18575.0 / 48384.0, 13525.0 / 55296.0, 277.0 / 14336.0, 1.0 / 4.0},
	))
}

// Dopri5 returns the Dormand-Prince 5(4) pair. The seventh stage is
// evaluated at the new state, which is what the embedded weights need.
func Dopri5() *Tableau {
	return mustBuild(NewEmbedded("dopri5", 5, 4,
		[]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1},
		[][]float64{
			{},
			{1.0 / 5.0},
			{3.0 / 40.0, 9.0 / 40.0},
			{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
			{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
			{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
			{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
		},
		[]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0},
		[]float64{5179.0 / 57600.0, 0, 7571.0 / 16695.0, 393.0 / 640.0, -92097.0 / 339200.0, 187.0 / 2100.0, 1.0 / 40.0},
	))
}

// Fehlberg78 returns the Runge-Kutta-Fehlberg 7(8) pair, advancing with the
// eighth order weights.
func Fehlberg78() *Tableau {
	return mustBuild(NewEmbedded("fehlberg78", 8, 7,
		[]float64{0, 2.0 / 27.0, 1.0 / 9.0, 1.0 / 6.0, 5.0 / 12.0, 1.0 / 2.0, 5.0 / 6.0, 1.0 / 6.0, 2.0 / 3.0, 1.0 / 3.0, 1, 0, 1},
		[][]float64{
			{},
			{2.0 / 27.0},
			{1.0 / 36.0, 1.0 / 12.0},
			{1.0 / 24.0, 0, 1.0 / 8.0},
			{5.0 / 12.0, 0, -25.0 / 16.0, 25.0 / 16.0},
			{1.0 / 20.0, 0, 0, 1.0 / 4.0, 1.0 / 5.0},
			{-25.0 / 108.0, 0, 0, 125.0 / 108.0, -65.0 / 27.0, 125.0 / 54.0},
			{31.0 / 300.0, 0, 0, 0, 61.0 / 225.0, -2.0 / 9.0, 13.0 / 900.0},
			{2, 0, 0, -53.0 / 6.0, 704.0 / 45.0, -107.0 / 9.0, 67.0 / 90.0, 3},
			{-91.0 / 108.0, 0, 0, 23.0 / 108.0, -976.0 / 135.0, 311.0 / 54.0, -19.0 / 60.0, 17.0 / 6.0, -1.0 / 12.0},
			{2383.0 / 4100.0, 0, 0, -341.0 / 164.0, 4496.0 / 1025.0, -301.0 / 82.0, 2133.0 / 4100.0, 45.0 / 82.0, 45.0 / 164.0, 18.0 / 41.0},
			{3.0 / 205.0, 0, 0, 0, 0, -6.0 / 41.0, -3.0 / 205.0, -3.0 / 41.0, 3.0 / 41.0, 6.0 / 41.0, 0},
			{-1777.0 / 4100.0, 0, 0, -341.0 / 164.0, 4496.0 / 1025.0, -289.0 / 82.0, 2193.0 / 4100.0, 51.0 / 82.0, 33.0 / 164.0, 12.0 / 41.0, 0, 1},
		},
		[]float64{0, 0, 0, 0, 0, 34.0 / 105.0, 9.0 / 35.0, 9.0 / 35.0, 9.0 / 280.0, 9.0 / 280.0, 0, 41.0 / 840.0, 41.0 / 840.0},
		[]float64{41.0 / 840.0, 0, 0, 0, 0, 34.0 / 105.0, 9.0 / 35.0, 9.0 / 35.0, 9.0 / 280.0, 9.0 / 280.0, 41.0 / 840.0, 0, 0},
	))
}

var builtins = map[string]func() *Tableau{
	"euler":            Euler,
	"midpoint":         Midpoint,
	"heun":             Heun,
	"rk4":              RK4,
	"rk38":             RK38,
	"bogacki_shampine": BogackiShampine,
	"fehlberg45":       Fehlberg45,
	"cash_karp54":      CashKarp54,
	"dopri5":           Dopri5,
	"fehlberg78":       Fehlberg78,
}

// Lookup returns a fresh copy of the named built-in tableau.
func Lookup(name string) (*Tableau, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown tableau: %s", name)
	}
	return fn(), nil
}

// Names lists the built-in tableaux in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
