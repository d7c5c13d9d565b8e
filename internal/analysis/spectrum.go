package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude spectrum of data for bins 0..n/2. The
// mean is removed and a Hann window applied first, so bin 0 is near zero
// and leakage from a finite trace stays local.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	x := make([]float64, n)
	copy(x, data)
	floats.AddConst(-stat.Mean(x, nil), x)
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Frequencies returns the frequency of each PowerSpectrum bin for a trace
// of n samples taken every dt.
func Frequencies(n int, dt float64) []float64 {
	if n < 2 || dt <= 0 {
		return nil
	}
	fs := make([]float64, n/2+1)
	for i := range fs {
		fs[i] = float64(i) / (float64(n) * dt)
	}
	return fs
}

// DominantFrequency returns the frequency and magnitude of the strongest
// non-DC component of data sampled every dt.
func DominantFrequency(data []float64, dt float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0, 0
	}
	idx := floats.MaxIdx(ps[1:]) + 1
	return Frequencies(len(data), dt)[idx], ps[idx]
}
