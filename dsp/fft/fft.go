package fft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by transform construction and execution.
var (
	ErrInvalidSize    = errors.New("fft: size must be a power of two >= 2")
	ErrLengthMismatch = errors.New("fft: buffer length mismatch")
)

// Backend is a forward real-to-complex and inverse complex-to-real transform
// of a fixed size. Inverse does not normalize.
type Backend interface {
	// Size returns the transform length K in samples.
	Size() int

	// Forward transforms K real samples into K/2+1 complex bins.
	Forward(dst []complex128, src []float64) error

	// Inverse transforms K/2+1 complex bins into K real samples scaled by K.
	Inverse(dst []float64, src []complex128) error
}

// RealFFT implements Backend on top of an algo-fft complex plan.
type RealFFT struct {
	size int
	plan *algofft.Plan[complex128]
	work []complex128
}

var _ Backend = (*RealFFT)(nil)

// NewRealFFT creates a transform of the given size.
func NewRealFFT(size int) (*RealFFT, error) {
	if size < 2 || !isPowerOf2(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan for size %d: %w", size, err)
	}

	return &RealFFT{
		size: size,
		plan: plan,
		work: make([]complex128, size),
	}, nil
}

// Size returns the transform length.
func (r *RealFFT) Size() int {
	return r.size
}

// Forward computes the non-redundant half spectrum of src.
// len(src) must be Size() and len(dst) must be Bins(Size()).
func (r *RealFFT) Forward(dst []complex128, src []float64) error {
	if len(src) != r.size {
		return fmt.Errorf("%w: expected %d input samples, got %d", ErrLengthMismatch, r.size, len(src))
	}
	if len(dst) != Bins(r.size) {
		return fmt.Errorf("%w: expected %d output bins, got %d", ErrLengthMismatch, Bins(r.size), len(dst))
	}

	for i, v := range src {
		r.work[i] = complex(v, 0)
	}

	if err := r.plan.Forward(r.work, r.work); err != nil {
		return fmt.Errorf("fft: forward transform failed: %w", err)
	}

	copy(dst, r.work[:len(dst)])
	return nil
}

// Inverse reconstructs Size() real samples from a half spectrum.
// The result is scaled by Size(); call Normalize to undo it.
//
// The full spectrum is rebuilt from Hermitian symmetry and the inverse is
// evaluated as conj(FFT(conj(X))), which keeps the result independent of
// the inverse scaling convention of the underlying plan.
func (r *RealFFT) Inverse(dst []float64, src []complex128) error {
	bins := Bins(r.size)
	if len(src) != bins {
		return fmt.Errorf("%w: expected %d input bins, got %d", ErrLengthMismatch, bins, len(src))
	}
	if len(dst) != r.size {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, r.size, len(dst))
	}

	for k, v := range src {
		r.work[k] = complex(real(v), -imag(v))
	}
	for k := bins; k < r.size; k++ {
		r.work[k] = src[r.size-k]
	}

	if err := r.plan.Forward(r.work, r.work); err != nil {
		return fmt.Errorf("fft: inverse transform failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(r.work[i])
	}
	return nil
}

// Normalize divides every sample by len(buf), undoing the scaling of a
// forward/inverse pair of that size.
func Normalize(buf []float64) {
	if len(buf) == 0 {
		return
	}
	vecmath.ScaleBlockInPlace(buf, 1/float64(len(buf)))
}

// Bins returns the number of non-redundant bins of a size-point real spectrum.
func Bins(size int) int {
	return size/2 + 1
}

func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
