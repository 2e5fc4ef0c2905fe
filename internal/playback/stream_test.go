package playback

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

func frameAt(p []byte, i int) (float32, float32) {
	off := i * BytesPerFrame
	l := math.Float32frombits(binary.LittleEndian.Uint32(p[off:]))
	r := math.Float32frombits(binary.LittleEndian.Uint32(p[off+4:]))
	return l, r
}

func counter() RenderFunc {
	n := 0
	return func(left, right []float64) error {
		for i := range left {
			left[i] = float64(n) / 100
			right[i] = -float64(n) / 100
			n++
		}
		return nil
	}
}

func TestStreamInterleavesAcrossBlocks(t *testing.T) {
	s, err := NewStream(3, counter())
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 7*BytesPerFrame+5) // trailing partial frame is left untouched
	n, err := s.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7*BytesPerFrame {
		t.Fatalf("n = %d", n)
	}
	for i := range 7 {
		l, r := frameAt(buf, i)
		if l != float32(float64(i)/100) || r != float32(-float64(i)/100) {
			t.Fatalf("frame %d = %v, %v", i, l, r)
		}
	}

	// Continues mid-block.
	n, err = s.Read(buf[:2*BytesPerFrame])
	if err != nil || n != 2*BytesPerFrame {
		t.Fatalf("second read = %d, %v", n, err)
	}
	next := 7.0
	if l, _ := frameAt(buf, 0); l != float32(next/100) {
		t.Fatalf("frame 7 = %v", l)
	}
}

func TestStreamClips(t *testing.T) {
	s, _ := NewStream(2, func(left, right []float64) error {
		left[0], left[1] = 2, -3
		right[0], right[1] = 0.5, math.Inf(1)
		return nil
	})
	buf := make([]byte, 2*BytesPerFrame)
	if _, err := s.Read(buf); err != nil {
		t.Fatal(err)
	}
	l0, r0 := frameAt(buf, 0)
	l1, r1 := frameAt(buf, 1)
	if l0 != 1 || r0 != 0.5 || l1 != -1 || r1 != 1 {
		t.Fatalf("got %v %v %v %v", l0, r0, l1, r1)
	}
}

func TestStreamEOF(t *testing.T) {
	calls := 0
	s, _ := NewStream(2, func(left, right []float64) error {
		calls++
		left[0], left[1] = 0.1, 0.2
		right[0], right[1] = 0.1, 0.2
		return io.EOF
	})
	buf := make([]byte, 8*BytesPerFrame)
	n, err := s.Read(buf)
	if err != nil || n != 2*BytesPerFrame {
		t.Fatalf("first read = %d, %v", n, err)
	}
	if _, err := s.Read(buf); !errors.Is(err, io.EOF) {
		t.Fatalf("second read err = %v", err)
	}
	if calls != 1 || s.Err() != nil {
		t.Fatalf("calls = %d, err = %v", calls, s.Err())
	}
}

func TestStreamRenderError(t *testing.T) {
	boom := errors.New("boom")
	s, _ := NewStream(4, func(left, right []float64) error { return boom })
	buf := make([]byte, 4*BytesPerFrame)
	if _, err := s.Read(buf); !errors.Is(err, io.EOF) {
		t.Fatalf("read err = %v", err)
	}
	if !errors.Is(s.Err(), boom) {
		t.Fatalf("Err() = %v", s.Err())
	}
}

func TestNewStreamErrors(t *testing.T) {
	if _, err := NewStream(0, counter()); !errors.Is(err, ErrInvalidBlockSize) {
		t.Errorf("zero block: %v", err)
	}
	if _, err := NewStream(4, nil); err == nil {
		t.Error("nil render accepted")
	}
}
