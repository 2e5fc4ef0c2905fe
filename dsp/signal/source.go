package signal

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Reference test tone used to audition a binaural setup.
const (
	TestToneFrequency = 375.0
	TestToneAmplitude = 0.473
)

// Source produces samples block by block. Read fills dst and returns the
// number of samples written; a finite source returns io.EOF once it is
// exhausted and n < len(dst).
type Source interface {
	Read(dst []float64) (int, error)
}

// Generator creates deterministic sources from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed for noise sources.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured source generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine returns an endless sine oscillator.
func (g *Generator) Sine(freqHz, amplitude float64) (*Oscillator, error) {
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if freqHz < 0 || freqHz > g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("sine frequency must be in [0, %g]: %f", g.cfg.SampleRate/2, freqHz)
	}
	return &Oscillator{
		step:      2 * math.Pi * freqHz / g.cfg.SampleRate,
		amplitude: amplitude,
	}, nil
}

// TestTone returns the reference test tone oscillator.
func (g *Generator) TestTone() (*Oscillator, error) {
	return g.Sine(TestToneFrequency, TestToneAmplitude)
}

// Noise returns an endless white-noise source in [-amplitude, amplitude).
func (g *Generator) Noise(amplitude float64) (*Noise, error) {
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	return &Noise{
		rng:       rand.New(rand.NewSource(g.seed)),
		amplitude: amplitude,
	}, nil
}

// Oscillator is a phase-continuous sine source.
type Oscillator struct {
	phase     float64
	step      float64
	amplitude float64
}

// Read fills dst with the next samples. It never returns an error.
func (o *Oscillator) Read(dst []float64) (int, error) {
	for i := range dst {
		dst[i] = o.amplitude * math.Sin(o.phase)
		o.phase += o.step
		if o.phase >= 2*math.Pi {
			o.phase -= 2 * math.Pi
		}
	}
	return len(dst), nil
}

// Noise is a seeded white-noise source.
type Noise struct {
	rng       *rand.Rand
	amplitude float64
}

// Read fills dst with the next samples. It never returns an error.
func (n *Noise) Read(dst []float64) (int, error) {
	for i := range dst {
		dst[i] = (n.rng.Float64()*2 - 1) * n.amplitude
	}
	return len(dst), nil
}

// SliceSource plays back a fixed slice once.
type SliceSource struct {
	data []float64
	pos  int
}

// NewSliceSource returns a source reading data from the start.
func NewSliceSource(data []float64) *SliceSource {
	return &SliceSource{data: data}
}

// Read copies the next samples into dst and returns io.EOF once the slice
// is exhausted.
func (s *SliceSource) Read(dst []float64) (int, error) {
	n := copy(dst, s.data[s.pos:])
	s.pos += n
	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

// Remaining returns the number of samples not yet read.
func (s *SliceSource) Remaining() int {
	return len(s.data) - s.pos
}

// ReadBlock reads exactly len(dst) samples from src, zero-filling whatever
// a finite source could not deliver. It returns io.EOF once src is
// exhausted; dst is valid even then.
func ReadBlock(src Source, dst []float64) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.Read(dst[total:])
		total += n
		if err != nil {
			clear(dst[total:])
			return total, err
		}
		if n == 0 {
			clear(dst[total:])
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	peak := core.Peak(data)
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / peak
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
