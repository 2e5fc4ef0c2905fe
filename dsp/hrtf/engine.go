package hrtf

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/fft"
)

// State is the observable state of an Engine.
type State int32

const (
	// StateIdle means no impulse-response set has been adopted yet.
	StateIdle State = iota
	// StateActive means the last block was convolved.
	StateActive
	// StateBypassed means the convolution is disabled and input passes through.
	StateBypassed
	// StateSwapping means a new set is pending and will be adopted at the
	// start of the next block.
	StateSwapping
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateBypassed:
		return "bypassed"
	case StateSwapping:
		return "swapping"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// BypassMode selects what the engine does while the convolution is disabled.
type BypassMode int

const (
	// BypassCopy copies input to output unchanged.
	BypassCopy BypassMode = iota
	// BypassTransform runs the forward and inverse transform without the
	// spectral product, keeping the per-block cost constant. Output equals
	// input within floating-point tolerance.
	BypassTransform
)

// Routing selects which input channel feeds each ear.
type Routing int

const (
	// RouteStereo convolves input channel c for ear c.
	RouteStereo Routing = iota
	// RouteMonoSource feeds the left input channel to both ears.
	RouteMonoSource
)

// Stats counts render-path events since the engine was created.
type Stats struct {
	Blocks           uint64
	Convolved        uint64
	Bypassed         uint64
	Swaps            uint64
	LengthMismatches uint64
}

// generation is everything the render path needs for one impulse-response
// set. It is built on the control path and owned by the render path once
// adopted.
type generation struct {
	seq      uint64
	bank     *Bank
	history  *conv.OverlapHistory
	arena    *buffer.Buffer
	tr       *fft.RealFFT
	spectrum []complex128
	scratch  []float64

	// links the engine's retired list
	nextRetired *generation
}

// Engine is the render side of the binaural convolution. ProcessBlock and
// ProcessInPlace must be called from a single goroutine. The exported setters
// may be called from any goroutine.
type Engine struct {
	pending  atomic.Pointer[generation]
	retired  atomic.Pointer[generation] // head of a list the control path drains
	selected atomic.Int64
	enabled  atomic.Bool
	state    atomic.Int32
	applied  atomic.Uint64

	blocks     atomic.Uint64
	convolved  atomic.Uint64
	bypassed   atomic.Uint64
	swaps      atomic.Uint64
	mismatches atomic.Uint64

	bypassMode BypassMode
	routing    Routing

	// render-only
	active     *generation
	needsReset bool
}

// NewEngine returns an idle engine with the convolution enabled.
func NewEngine(mode BypassMode, routing Routing) *Engine {
	e := &Engine{bypassMode: mode, routing: routing}
	e.enabled.Store(true)
	return e
}

// SetEnabled turns the convolution on or off from the next block on.
func (e *Engine) SetEnabled(on bool) {
	e.enabled.Store(on)
}

// Enabled reports whether the convolution is switched on.
func (e *Engine) Enabled() bool {
	return e.enabled.Load()
}

// Select stores the response index used from the next block on. The render
// path clamps it to the adopted bank.
func (e *Engine) Select(index int) {
	e.selected.Store(int64(index))
}

// Selected returns the stored response index.
func (e *Engine) Selected() int {
	return int(e.selected.Load())
}

// State returns the current state. A pending set reports StateSwapping.
func (e *Engine) State() State {
	if e.pending.Load() != nil {
		return StateSwapping
	}
	return State(e.state.Load())
}

// Applied returns the sequence number of the last adopted set.
func (e *Engine) Applied() uint64 {
	return e.applied.Load()
}

// Stats returns a snapshot of the render counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Blocks:           e.blocks.Load(),
		Convolved:        e.convolved.Load(),
		Bypassed:         e.bypassed.Load(),
		Swaps:            e.swaps.Load(),
		LengthMismatches: e.mismatches.Load(),
	}
}

// ProcessInPlace renders one stereo block, overwriting the input.
func (e *Engine) ProcessInPlace(left, right []float64) error {
	return e.ProcessBlock(left, right, left, right)
}

// ProcessBlock renders one block of binaural output from inL and inR.
//
// All four slices must have the same length. While a set is active that
// length must equal the block size the set was prepared for; any other
// length passes the input through and returns ErrLengthMismatch. Output
// slices may alias the inputs of the same channel.
func (e *Engine) ProcessBlock(outL, outR, inL, inR []float64) error {
	e.blocks.Add(1)

	if g := e.pending.Swap(nil); g != nil {
		e.adopt(g)
	}

	n := len(inL)
	if len(inR) != n || len(outL) != n || len(outR) != n {
		e.passthrough(outL, outR, inL, inR)
		e.mismatches.Add(1)
		return ErrLengthMismatch
	}

	g := e.active
	if g == nil {
		e.passthrough(outL, outR, inL, inR)
		e.bypassed.Add(1)
		e.state.Store(int32(StateIdle))
		return nil
	}

	if n != g.bank.partition.BlockSize {
		e.passthrough(outL, outR, inL, inR)
		e.mismatches.Add(1)
		return ErrLengthMismatch
	}

	if !e.enabled.Load() {
		e.bypass(g, outL, outR, inL, inR)
		e.needsReset = true
		e.bypassed.Add(1)
		e.state.Store(int32(StateBypassed))
		return nil
	}

	if e.needsReset {
		g.history.Reset()
		e.needsReset = false
	}

	e.convolve(g, outL, outR, inL, inR)
	e.convolved.Add(1)
	e.state.Store(int32(StateActive))
	return nil
}

// adopt installs g and hands the previous generation to the control path.
func (e *Engine) adopt(g *generation) {
	prev := e.active
	e.active = g
	e.needsReset = false
	e.applied.Store(g.seq)
	e.swaps.Add(1)
	if prev != nil {
		e.retire(prev)
	}
}

// retire pushes g onto the retired list. The control path only ever takes
// the whole list, so the loop retries at most once per concurrent reclaim.
func (e *Engine) retire(g *generation) {
	for {
		head := e.retired.Load()
		g.nextRetired = head
		if e.retired.CompareAndSwap(head, g) {
			return
		}
	}
}

func (e *Engine) convolve(g *generation, outL, outR, inL, inR []float64) {
	h := g.history
	bank := g.bank

	idx := min(max(int(e.selected.Load()), 0), bank.count-1)

	// Both ears are loaded before any output is written so that in-place
	// and mono-source processing read unmodified input.
	h.Load(0, inL)
	if e.routing == RouteMonoSource {
		h.Load(1, inL)
	} else {
		h.Load(1, inR)
	}

	for ear, out := range [numEars][]float64{outL, outR} {
		slot := h.Slot(0, ear)
		// Sizes are fixed when the generation is built, so the transform
		// cannot fail here.
		_ = g.tr.Forward(g.spectrum, slot)
		multiplySpectrum(g.spectrum, bank.spectrum(idx, Ear(ear)))
		_ = g.tr.Inverse(slot, g.spectrum)
		fft.Normalize(slot)
		h.OverlapAdd(out, ear)
	}

	h.Age()
}

func (e *Engine) bypass(g *generation, outL, outR, inL, inR []float64) {
	if e.bypassMode != BypassTransform {
		e.passthrough(outL, outR, inL, inR)
		return
	}

	transformThrough(g, outL, inL)
	transformThrough(g, outR, inR)
}

// transformThrough runs in through the transform pair without a spectral
// product.
func transformThrough(g *generation, out, in []float64) {
	n := copy(g.scratch, in)
	clear(g.scratch[n:])
	_ = g.tr.Forward(g.spectrum, g.scratch)
	_ = g.tr.Inverse(g.scratch, g.spectrum)
	fft.Normalize(g.scratch)
	copy(out, g.scratch[:len(out)])
}

func (e *Engine) passthrough(outL, outR, inL, inR []float64) {
	copy(outL, inL)
	copy(outR, inR)
}

func multiplySpectrum(dst, h []complex128) {
	for k := range dst {
		dst[k] *= h[k]
	}
}
