package hrtf

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func TestBuildBankLayout(t *testing.T) {
	responses := []ImpulseResponse{
		{Left: testutil.Impulse(3, 0), Right: testutil.Impulse(3, 1)},
		{Left: []float64{0.5, 0, 0}, Right: []float64{0, 0, -1}},
	}
	b, err := BuildBank(context.Background(), responses, 4, 0)
	if err != nil {
		t.Fatal(err)
	}

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if got := b.Partition().String(); got != "N=4 M=3 K=8 MEM=2" {
		t.Fatalf("partition = %s", got)
	}

	// An impulse at 0 has a flat spectrum; a delay by one sample has
	// unit magnitude and phase -2πk/K.
	for k, v := range b.Spectrum(0, EarLeft) {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Fatalf("left bin %d = %v, want 1", k, v)
		}
	}
	for k, v := range b.Spectrum(0, EarRight) {
		want := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/8))
		if cmplx.Abs(v-want) > 1e-12 {
			t.Fatalf("right bin %d = %v, want %v", k, v, want)
		}
	}
	if v := b.Spectrum(1, EarLeft)[3]; cmplx.Abs(v-0.5) > 1e-12 {
		t.Fatalf("response 1 left bin 3 = %v, want 0.5", v)
	}

	if b.Spectrum(2, EarLeft) != nil || b.Spectrum(-1, EarLeft) != nil || b.Spectrum(0, Ear(2)) != nil {
		t.Fatal("out-of-range spectrum should be nil")
	}
}

func TestBankMagnitudeResponse(t *testing.T) {
	responses := []ImpulseResponse{{Left: []float64{2, 0, 0, 0}, Right: []float64{0, 0, 0, -1}}}
	b, err := BuildBank(context.Background(), responses, 4, 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, ear := range []Ear{EarLeft, EarRight} {
		want := 2.0
		if ear == EarRight {
			want = 1
		}
		mag := b.MagnitudeResponse(0, ear)
		if len(mag) != b.Partition().Bins() {
			t.Fatalf("%s: %d bins, want %d", ear, len(mag), b.Partition().Bins())
		}
		for k, v := range mag {
			if math.Abs(v-want) > 1e-12 {
				t.Fatalf("%s bin %d = %v, want %v", ear, k, v, want)
			}
		}
	}
	if b.MagnitudeResponse(1, EarLeft) != nil {
		t.Fatal("out-of-range magnitude should be nil")
	}
}

func TestBuildBankErrors(t *testing.T) {
	good := ImpulseResponse{Left: []float64{1, 0}, Right: []float64{0, 1}}
	short := ImpulseResponse{Left: []float64{1}, Right: []float64{1}}

	tests := []struct {
		name      string
		responses []ImpulseResponse
		blockSize int
		maxBins   int
		want      error
	}{
		{"empty", nil, 4, 0, ErrEmptyBank},
		{"mixed lengths", []ImpulseResponse{good, short}, 4, 0, ErrLengthMismatch},
		{"bad block size", []ImpulseResponse{good}, 0, 0, ErrInvalidConfiguration},
		{"over budget", []ImpulseResponse{good, good}, 4, 10, ErrResourceExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildBank(context.Background(), tt.responses, tt.blockSize, tt.maxBins)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildBankBudgetBoundary(t *testing.T) {
	responses := []ImpulseResponse{{Left: []float64{1, 0, 0}, Right: []float64{1, 0, 0}}}
	b, err := BuildBank(context.Background(), responses, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	need := BankFootprint(b.Partition(), 1)
	if need != 1*2*5+2*2*8 {
		t.Fatalf("footprint = %d, want 42", need)
	}
	if _, err := BuildBank(context.Background(), responses, 4, need); err != nil {
		t.Fatalf("exact budget rejected: %v", err)
	}
	if _, err := BuildBank(context.Background(), responses, 4, need-1); !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("budget-1: got %v, want ErrResourceExhausted", err)
	}
}

func TestBuildBankCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	responses := []ImpulseResponse{{Left: []float64{1}, Right: []float64{1}}}
	_, err := BuildBank(ctx, responses, 8, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
