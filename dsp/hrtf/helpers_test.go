package hrtf

import (
	"context"
	"testing"

	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func newTestProcessor(t *testing.T, blockSize int, opts ...Option) *Processor {
	t.Helper()
	p, err := NewProcessor([]core.ProcessorOption{core.WithBlockSize(blockSize)}, opts...)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	return p
}

func mustLoad(t *testing.T, p *Processor, responses ...ImpulseResponse) {
	t.Helper()
	if err := p.LoadImpulseResponseSet(context.Background(), responses); err != nil {
		t.Fatalf("LoadImpulseResponseSet: %v", err)
	}
}

func mustResponse(t *testing.T, channels ...[]float64) ImpulseResponse {
	t.Helper()
	r, err := NewImpulseResponse(channels...)
	if err != nil {
		t.Fatalf("NewImpulseResponse: %v", err)
	}
	return r
}

// renderBlocks feeds inL/inR through p block by block. The last block is
// zero-padded.
func renderBlocks(t *testing.T, p *Processor, inL, inR []float64) (outL, outR []float64) {
	t.Helper()
	n := p.BlockSize()
	blocksL := testutil.Blocks(inL, n)
	blocksR := testutil.Blocks(inR, n)
	for b := range blocksL {
		l := make([]float64, n)
		r := make([]float64, n)
		if err := p.ProcessBlock(l, r, blocksL[b], blocksR[b]); err != nil {
			t.Fatalf("block %d: %v", b, err)
		}
		outL = append(outL, l...)
		outR = append(outR, r...)
	}
	return outL, outR
}

// blockwiseReference convolves signal block by block, using the kernel
// kernelAt(b) for block b and summing the full responses.
func blockwiseReference(t *testing.T, signal []float64, n int, kernelAt func(b int) []float64) []float64 {
	t.Helper()
	blocks := testutil.Blocks(signal, n)
	var out []float64
	for b, block := range blocks {
		y, err := conv.Direct(block, kernelAt(b))
		if err != nil {
			t.Fatal(err)
		}
		end := b*n + len(y)
		if end > len(out) {
			out = append(out, make([]float64, end-len(out))...)
		}
		for i, v := range y {
			out[b*n+i] += v
		}
	}
	return out
}

func requireRelClose(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) < len(want) {
		t.Fatalf("got %d samples, want at least %d", len(got), len(want))
	}
	d, err := testutil.MaxRelDiff(got[:len(want)], want)
	if err != nil {
		t.Fatal(err)
	}
	if d > tol {
		t.Fatalf("relative error %g exceeds %g", d, tol)
	}
}
