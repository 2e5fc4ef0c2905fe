package conv

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// OverlapHistory is a ring of Depth time-domain buffers of FFTSize samples
// per channel. Slot 0 holds the newest block; slot i holds the block from i
// periods earlier, whose samples [i*N, i*N+N) overlap the current output.
//
// All buffers live in one arena. OverlapHistory is not safe for concurrent
// use.
type OverlapHistory struct {
	arena     []float64
	partition Partition
	channels  int
	head      int
}

// NewOverlapHistory allocates a zeroed history for p and channels.
func NewOverlapHistory(p Partition, channels int) (*OverlapHistory, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidConfiguration, channels)
	}
	return NewOverlapHistoryFrom(p, channels, make([]float64, p.HistoryLen(channels)))
}

// NewOverlapHistoryFrom builds a history on top of arena, which must hold at
// least p.HistoryLen(channels) samples. The used part of the arena is zeroed.
func NewOverlapHistoryFrom(p Partition, channels int, arena []float64) (*OverlapHistory, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidConfiguration, channels)
	}
	if p.BlockSize <= 0 || p.FFTSize < p.BlockSize || p.Depth < 2 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, p)
	}
	need := p.HistoryLen(channels)
	if len(arena) < need {
		return nil, fmt.Errorf("%w: arena holds %d samples, need %d", ErrLengthMismatch, len(arena), need)
	}

	h := &OverlapHistory{
		arena:     arena[:need],
		partition: p,
		channels:  channels,
	}
	h.Reset()
	return h, nil
}

// Partition returns the partition the history was sized for.
func (h *OverlapHistory) Partition() Partition {
	return h.partition
}

// Channels returns the number of channels.
func (h *OverlapHistory) Channels() int {
	return h.channels
}

// Arena returns the backing storage, for returning it to a pool once the
// history is no longer referenced.
func (h *OverlapHistory) Arena() []float64 {
	return h.arena
}

// Slot returns the FFTSize-sample buffer of channel ch that is i periods old.
// Slot 0 is the head.
func (h *OverlapHistory) Slot(i, ch int) []float64 {
	k := h.partition.FFTSize
	phys := (h.head + i) % h.partition.Depth
	off := (phys*h.channels + ch) * k
	return h.arena[off : off+k : off+k]
}

// Load writes block into the head slot of ch and zero-fills the rest of it.
// len(block) must be at most BlockSize.
func (h *OverlapHistory) Load(ch int, block []float64) {
	head := h.Slot(0, ch)
	n := copy(head, block)
	clear(head[n:])
}

// OverlapAdd writes the output block of ch into dst: the first len(dst)
// samples of the head slot plus, for every older slot i, its samples at
// offset i*N. Samples past FFTSize contribute nothing.
func (h *OverlapHistory) OverlapAdd(dst []float64, ch int) {
	n := h.partition.BlockSize
	k := h.partition.FFTSize
	copy(dst, h.Slot(0, ch)[:len(dst)])

	for i := 1; i < h.partition.Depth; i++ {
		off := i * n
		if off >= k {
			break
		}
		cnt := min(len(dst), k-off)
		vecmath.AddBlockInPlace(dst[:cnt], h.Slot(i, ch)[off:off+cnt])
	}
}

// Age shifts every slot one period older and recycles the oldest slot as the
// new head. The next Load overwrites it completely.
func (h *OverlapHistory) Age() {
	h.head--
	if h.head < 0 {
		h.head = h.partition.Depth - 1
	}
}

// Reset zeroes all slots and rewinds the ring.
func (h *OverlapHistory) Reset() {
	clear(h.arena)
	h.head = 0
}
