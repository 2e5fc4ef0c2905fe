package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-binaural/internal/testutil"
)

// runTimeDomainOLA streams signal through h using direct convolution in
// place of the spectral product, so the ring logic is tested on its own.
func runTimeDomainOLA(t *testing.T, h *OverlapHistory, signal, kernel []float64) []float64 {
	t.Helper()
	p := h.Partition()
	var out []float64
	for _, block := range testutil.Blocks(signal, p.BlockSize) {
		h.Load(0, block)
		full, err := Direct(block, kernel)
		if err != nil {
			t.Fatal(err)
		}
		head := h.Slot(0, 0)
		clear(head)
		copy(head, full)

		dst := make([]float64, p.BlockSize)
		h.OverlapAdd(dst, 0)
		h.Age()
		out = append(out, dst...)
	}
	return out
}

func TestOverlapHistoryMatchesDirect(t *testing.T) {
	cases := []struct{ n, m int }{{4, 3}, {4, 1}, {8, 30}, {16, 5}, {3, 17}, {64, 64}}
	for _, c := range cases {
		p, err := Plan(c.n, c.m)
		if err != nil {
			t.Fatal(err)
		}
		h, err := NewOverlapHistory(p, 1)
		if err != nil {
			t.Fatal(err)
		}

		kernel := testutil.DeterministicNoise(int64(c.m), 1, c.m)
		signal := testutil.DeterministicNoise(int64(c.n), 1, c.n*6)
		// trailing silent blocks flush the tail
		padded := testutil.ZeroPad(signal, len(signal)+c.m+c.n)
		got := runTimeDomainOLA(t, h, padded, kernel)

		want, err := Direct(signal, kernel)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, got[:len(want)], want, 1e-12)
	}
}

func TestOverlapHistoryAgeRotatesSlots(t *testing.T) {
	p, err := Plan(2, 5) // K=8, MEM=4
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewOverlapHistory(p, 2)
	if err != nil {
		t.Fatal(err)
	}

	h.Load(0, []float64{1, 1})
	h.Load(1, []float64{-1, -1})
	h.Age()
	h.Load(0, []float64{2, 2})
	h.Age()

	if got := h.Slot(1, 0)[0]; got != 2 {
		t.Fatalf("slot 1 ch 0 = %v, want 2", got)
	}
	if got := h.Slot(2, 0)[0]; got != 1 {
		t.Fatalf("slot 2 ch 0 = %v, want 1", got)
	}
	if got := h.Slot(2, 1)[1]; got != -1 {
		t.Fatalf("slot 2 ch 1 = %v, want -1", got)
	}

	// the recycled head is fully overwritten by the next load
	h.Load(0, []float64{3})
	head := h.Slot(0, 0)
	if head[0] != 3 {
		t.Fatalf("head[0] = %v, want 3", head[0])
	}
	for i := 1; i < len(head); i++ {
		if head[i] != 0 {
			t.Fatalf("head[%d] = %v, want 0", i, head[i])
		}
	}
}

func TestOverlapHistoryFromArena(t *testing.T) {
	p, err := Plan(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	arena := make([]float64, p.HistoryLen(2)+10)
	for i := range arena {
		arena[i] = 7
	}
	h, err := NewOverlapHistoryFrom(p, 2, arena)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Arena()) != p.HistoryLen(2) {
		t.Fatalf("arena len = %d, want %d", len(h.Arena()), p.HistoryLen(2))
	}
	for i, v := range h.Arena() {
		if v != 0 {
			t.Fatalf("arena[%d] = %v, want zeroed", i, v)
		}
	}

	if _, err := NewOverlapHistoryFrom(p, 2, make([]float64, 3)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short arena: got %v, want ErrLengthMismatch", err)
	}
	if _, err := NewOverlapHistory(p, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("zero channels: got %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewOverlapHistory(Partition{}, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("zero partition: got %v, want ErrInvalidConfiguration", err)
	}
}

func TestOverlapHistoryReset(t *testing.T) {
	p, _ := Plan(4, 3)
	h, _ := NewOverlapHistory(p, 1)
	h.Load(0, []float64{1, 2, 3, 4})
	h.Age()
	h.Reset()

	dst := make([]float64, 4)
	h.OverlapAdd(dst, 0)
	testutil.RequireSliceEqual(t, dst, []float64{0, 0, 0, 0})
}
