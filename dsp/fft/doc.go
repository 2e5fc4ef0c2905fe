// Package fft provides the real-valued spectral transform used by the
// binaural convolution engine.
//
// A [Backend] maps K real samples to the K/2+1 non-redundant bins of their
// spectrum and back. The inverse is unnormalized: a forward transform followed
// by an inverse transform scales every sample by K, and callers divide by K
// themselves (see [Normalize]). Keeping the scaling with the caller lets the
// convolution engine fold it into its own per-block pass.
//
// [RealFFT] is the default backend, built on algo-fft complex plans:
//
//	tr, err := fft.NewRealFFT(1024)
//	spec := make([]complex128, fft.Bins(1024))
//	err = tr.Forward(spec, samples)
//	err = tr.Inverse(samples, spec)
//	fft.Normalize(samples)
//
// A RealFFT owns scratch memory and is not safe for concurrent use. Create
// one per goroutine (the engine gives every impulse-response generation its
// own instance).
package fft
