package signal

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func TestOscillatorIsPhaseContinuous(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	osc, err := g.Sine(1000, 0.8)
	if err != nil {
		t.Fatal(err)
	}

	var got []float64
	for _, size := range []int{7, 64, 1, 200, 33} {
		block := make([]float64, size)
		if n, err := osc.Read(block); n != size || err != nil {
			t.Fatalf("Read = %d, %v", n, err)
		}
		got = append(got, block...)
	}

	want := testutil.DeterministicSine(1000, 48000, 0.8, len(got))
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestTestTone(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(44100))
	osc, err := g.TestTone()
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float64, 44100)
	_, _ = osc.Read(buf)

	if peak := core.Peak(buf); math.Abs(peak-TestToneAmplitude) > 1e-3 {
		t.Fatalf("peak = %v, want %v", peak, TestToneAmplitude)
	}
	crossings := 0
	for i := 1; i < len(buf); i++ {
		if buf[i-1] < 0 && buf[i] >= 0 {
			crossings++
		}
	}
	if crossings < 374 || crossings > 376 {
		t.Fatalf("%d rising zero crossings in 1 s, want ~375", crossings)
	}
}

func TestSineRejectsInvalidFrequency(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))
	for _, f := range []float64{-1, 501} {
		if _, err := g.Sine(f, 1); err == nil {
			t.Errorf("Sine(%v) accepted", f)
		}
	}
}

func TestNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	n1, err := g1.Noise(1)
	if err != nil {
		t.Fatal(err)
	}
	n2, err := g2.Noise(1)
	if err != nil {
		t.Fatal(err)
	}

	a := make([]float64, 16)
	b := make([]float64, 16)
	_, _ = n1.Read(a[:5])
	_, _ = n1.Read(a[5:])
	_, _ = n2.Read(b)
	testutil.RequireSliceEqual(t, a, b)

	for i, v := range a {
		if v < -1 || v >= 1 {
			t.Fatalf("sample %d = %v out of range", i, v)
		}
	}

	if _, err := g1.Noise(-1); err == nil {
		t.Fatal("negative amplitude accepted")
	}
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]float64{1, 2, 3, 4, 5})
	buf := make([]float64, 3)

	n, err := src.Read(buf)
	if n != 3 || err != nil {
		t.Fatalf("first Read = %d, %v", n, err)
	}
	if src.Remaining() != 2 {
		t.Fatalf("Remaining() = %d, want 2", src.Remaining())
	}

	n, err = ReadBlock(src, buf)
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadBlock = %d, %v", n, err)
	}
	testutil.RequireSliceEqual(t, buf, []float64{4, 5, 0})

	n, err = src.Read(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("Read after end = %d, %v", n, err)
	}
}

type stalledSource struct{}

func (stalledSource) Read([]float64) (int, error) { return 0, nil }

func TestReadBlockStalled(t *testing.T) {
	buf := []float64{9, 9}
	if _, err := ReadBlock(stalledSource{}, buf); !errors.Is(err, io.ErrNoProgress) {
		t.Fatalf("error = %v, want io.ErrNoProgress", err)
	}
	testutil.RequireSliceEqual(t, buf, []float64{0, 0})
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}

	silent, err := Normalize([]float64{0, 0}, 1)
	if err != nil || silent[0] != 0 {
		t.Fatalf("silent = %v, %v", silent, err)
	}
	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("empty input accepted")
	}
	if _, err := Normalize([]float64{1}, -1); err == nil {
		t.Fatal("negative target accepted")
	}
}
