package conv

import "fmt"

// MaxFFTSize bounds the transform size a plan may request.
const MaxFFTSize = 1 << 24

// Partition describes how a stream of fixed-size blocks is convolved with a
// fixed-length kernel.
type Partition struct {
	BlockSize int // N, samples per block
	KernelLen int // M, kernel taps
	FFTSize   int // K, transform size
	Depth     int // MEM, history slots per channel
}

// Plan computes the transform size and history depth for blockSize-sample
// blocks and a kernelLen-tap kernel.
//
// The transform size is the smallest power of two that is at least
// blockSize+kernelLen-1 (and at least 2). The depth is max(2, ceil(K/N)).
func Plan(blockSize, kernelLen int) (Partition, error) {
	if blockSize <= 0 {
		return Partition{}, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}
	if kernelLen <= 0 {
		return Partition{}, fmt.Errorf("%w: kernel length %d", ErrEmptyKernel, kernelLen)
	}

	minSize := blockSize + kernelLen - 1
	if minSize > MaxFFTSize || minSize < blockSize {
		return Partition{}, fmt.Errorf("%w: block %d + kernel %d exceeds max FFT size %d",
			ErrInvalidConfiguration, blockSize, kernelLen, MaxFFTSize)
	}

	fftSize := max(nextPowerOf2(minSize), 2)
	depth := max(2, (fftSize+blockSize-1)/blockSize)

	return Partition{
		BlockSize: blockSize,
		KernelLen: kernelLen,
		FFTSize:   fftSize,
		Depth:     depth,
	}, nil
}

// Bins returns the number of spectrum bins of a real transform of FFTSize.
func (p Partition) Bins() int {
	return p.FFTSize/2 + 1
}

// ResponseLen returns the length of one block's linear convolution with the
// kernel, N+M-1.
func (p Partition) ResponseLen() int {
	return p.BlockSize + p.KernelLen - 1
}

// HistoryLen returns the number of samples an overlap history with the given
// channel count needs.
func (p Partition) HistoryLen(channels int) int {
	return p.Depth * channels * p.FFTSize
}

// String implements fmt.Stringer.
func (p Partition) String() string {
	return fmt.Sprintf("N=%d M=%d K=%d MEM=%d", p.BlockSize, p.KernelLen, p.FFTSize, p.Depth)
}
