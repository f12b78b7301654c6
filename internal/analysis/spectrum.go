package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns |X_k|^2 for the non-negative frequencies of the
// real signal x, k = 0..len(x)/2, with the mean removed.
func PowerSpectrum(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	centered := make([]float64, len(x))
	for i, v := range x {
		centered[i] = v - mean
	}

	coeff := fourier.NewFFT(len(x)).Coefficients(nil, centered)
	power := make([]float64, len(coeff))
	for i, c := range coeff {
		a := cmplx.Abs(c)
		power[i] = a * a
	}
	return power
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-zero spectral line of x sampled every dt, and its power.
func DominantFrequency(x []float64, dt float64) (freq, power float64) {
	ps := PowerSpectrum(x)
	if len(ps) < 2 {
		return 0, 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	fft := fourier.NewFFT(len(x))
	return fft.Freq(best) / dt, ps[best]
}
