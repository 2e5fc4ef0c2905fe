package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/hrtf"
	"github.com/cwbudde/algo-binaural/dsp/signal"
	"github.com/cwbudde/algo-binaural/internal/audiofile"
	"github.com/cwbudde/algo-binaural/internal/irset"
	"github.com/cwbudde/algo-vecmath"
)

const defaultNoiseAmplitude = 0.25

// input feeds mono or stereo blocks. A mono input drives both channels.
type input struct {
	left  signal.Source
	right signal.Source
	// endless sources never return io.EOF.
	endless bool
}

func (in *input) read(l, r []float64) (int, error) {
	n, err := signal.ReadBlock(in.left, l)
	if in.right == nil {
		copy(r, l)
		return n, err
	}
	if _, rerr := signal.ReadBlock(in.right, r); err == nil {
		err = rerr
	}
	return n, err
}

// openInput resolves the -in flag: "sine[:hz]", "noise[:amplitude]" or an
// audio file recorded at sampleRate.
func openInput(source string, sampleRate float64, seed int64) (*input, error) {
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		signal.WithSeed(seed),
	)

	kind, arg, hasArg := strings.Cut(source, ":")
	switch kind {
	case "sine":
		freq := signal.TestToneFrequency
		if hasArg {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("sine frequency %q: %w", arg, err)
			}
			freq = v
		}
		osc, err := gen.Sine(freq, signal.TestToneAmplitude)
		if err != nil {
			return nil, err
		}
		return &input{left: osc, endless: true}, nil
	case "noise":
		amp := defaultNoiseAmplitude
		if hasArg {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("noise amplitude %q: %w", arg, err)
			}
			amp = v
		}
		n, err := gen.Noise(amp)
		if err != nil {
			return nil, err
		}
		return &input{left: n, endless: true}, nil
	}

	clip, err := audiofile.Load(source)
	if err != nil {
		return nil, err
	}
	if float64(clip.SampleRate) != sampleRate {
		return nil, fmt.Errorf("%s: sample rate %d Hz does not match the impulse responses (%g Hz)",
			source, clip.SampleRate, sampleRate)
	}
	if clip.NumChannels() == 1 {
		return &input{left: signal.NewSliceSource(clip.Channels[0])}, nil
	}
	l, r := clip.Stereo()
	return &input{left: signal.NewSliceSource(l), right: signal.NewSliceSource(r)}, nil
}

// heading is an azimuth in degrees shared between the control and render
// goroutines.
type heading struct {
	bits atomic.Uint64
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (h *heading) Load() float64 {
	return math.Float64frombits(h.bits.Load())
}

func (h *heading) Store(deg float64) {
	h.bits.Store(math.Float64bits(wrapDegrees(deg)))
}

// Add turns the heading by delta degrees and returns the new value.
func (h *heading) Add(delta float64) float64 {
	for {
		old := h.bits.Load()
		next := wrapDegrees(math.Float64frombits(old) + delta)
		if h.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

type renderConfig struct {
	rotate float64 // degrees per second
	gain   float64 // linear
	frames int     // input frames to take from endless sources
}

// renderer pulls input, steers the processor and renders one block per
// call. Once the input ends it keeps rendering until the convolution tail
// has been flushed.
type renderer struct {
	proc    *hrtf.Processor
	set     atomic.Pointer[irset.Set]
	in      *input
	cfg     renderConfig
	heading heading

	inL, inR []float64
	consumed int
	produced int
	target   int
	drained  bool
	done     bool
}

func newRenderer(proc *hrtf.Processor, set *irset.Set, in *input, cfg renderConfig) *renderer {
	r := &renderer{
		proc: proc,
		in:   in,
		cfg:  cfg,
		inL:  make([]float64, proc.BlockSize()),
		inR:  make([]float64, proc.BlockSize()),
	}
	r.set.Store(set)
	return r
}

// steer selects the response nearest to the current heading.
func (r *renderer) steer() int {
	set := r.set.Load()
	return r.proc.SelectDirection(set.Nearest(r.heading.Load()))
}

// next renders into left and right and returns how many frames belong to
// the output. It returns io.EOF with the final block.
func (r *renderer) next(left, right []float64) (int, error) {
	if r.done {
		return 0, io.EOF
	}

	if r.drained {
		clear(r.inL)
		clear(r.inR)
	} else {
		want := len(r.inL)
		if r.in.endless && r.cfg.frames > 0 {
			want = min(want, r.cfg.frames-r.consumed)
		}
		n, err := r.in.read(r.inL[:want], r.inR[:want])
		clear(r.inL[n:])
		clear(r.inR[n:])
		r.consumed += n
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if err != nil || n < len(r.inL) {
			r.drained = true
			r.target = r.consumed + r.tail()
		}
	}

	r.steer()
	if err := r.proc.ProcessBlock(left, right, r.inL, r.inR); err != nil {
		return 0, err
	}
	if r.cfg.gain != 1 {
		vecmath.ScaleBlockInPlace(left, r.cfg.gain)
		vecmath.ScaleBlockInPlace(right, r.cfg.gain)
	}
	if r.cfg.rotate != 0 {
		r.heading.Add(r.cfg.rotate * float64(len(left)) / r.proc.SampleRate())
	}

	valid := len(left)
	if r.drained {
		valid = min(valid, r.target-r.produced)
	}
	r.produced += valid
	if r.drained && r.produced >= r.target {
		r.done = true
		return valid, io.EOF
	}
	return valid, nil
}

// tail returns how many frames the convolution rings on past the input. It
// reads the set the renderer steers with, so it never waits on a reload.
func (r *renderer) tail() int {
	set := r.set.Load()
	if set == nil || set.Len() == 0 || !r.proc.ConvolutionEnabled() {
		return 0
	}
	return set.Responses[0].Len() - 1
}
