// Package testutil holds deterministic signals and tolerance assertions
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude) with a
// fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Blocks splits signal into consecutive blocks of n samples. The last block
// is zero-padded to n.
func Blocks(signal []float64, n int) [][]float64 {
	if n <= 0 {
		return nil
	}
	count := (len(signal) + n - 1) / n
	out := make([][]float64, count)
	for b := range out {
		out[b] = make([]float64, n)
		copy(out[b], signal[b*n:min((b+1)*n, len(signal))])
	}
	return out
}

// ZeroPad returns a copy of signal extended with zeros to length n.
// Signals already at least n long are copied unchanged.
func ZeroPad(signal []float64, n int) []float64 {
	out := make([]float64, max(n, len(signal)))
	copy(out, signal)
	return out
}
