package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions. The configuration errors all
// wrap ErrInvalidConfiguration so callers can test for the whole class.
var (
	ErrInvalidConfiguration = errors.New("conv: invalid configuration")
	ErrEmptyInput           = errors.New("conv: empty input")
	ErrEmptyKernel          = fmt.Errorf("%w: empty kernel", ErrInvalidConfiguration)
	ErrInvalidBlockSize     = fmt.Errorf("%w: invalid block size", ErrInvalidConfiguration)
	ErrLengthMismatch       = errors.New("conv: buffer length mismatch")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) algorithm. The streaming engine uses it as the
// reference it must agree with.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	n := len(a)
	m := len(b)

	for i := range dst {
		dst[i] = 0
	}

	// vecmath pays off once the kernel spans a few SIMD lanes
	const simdThreshold = 4
	if m < simdThreshold {
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				dst[i+j] += a[i] * b[j]
			}
		}
		return
	}

	temp := make([]float64, m)
	for i := 0; i < n; i++ {
		vecmath.ScaleBlock(temp, b, a[i])
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
