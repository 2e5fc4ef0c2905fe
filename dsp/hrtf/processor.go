package hrtf

import (
	"context"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Processor is the host-facing binaural renderer. ProcessBlock and
// ProcessInPlace form the render path and belong to the audio thread; every
// other method is part of the control path and may be called from any
// goroutine.
type Processor struct {
	cfg    core.ProcessorConfig
	engine *Engine
	coord  *Coordinator

	mu      sync.Mutex // guards lastSeq
	lastSeq uint64
}

// NewProcessor creates a processor with no impulse responses loaded. Until
// a set is loaded the processor passes its input through.
//
// coreOpts set the sample rate and the initial block size; opts configure
// the binaural behavior.
func NewProcessor(coreOpts []core.ProcessorOption, opts ...Option) (*Processor, error) {
	cfg := core.ApplyProcessorOptions(coreOpts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	s := defaultProcessorSettings()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	if s.pool == nil {
		s.pool = buffer.NewPool()
	}

	engine := NewEngine(s.bypass, s.routing)
	coord, err := NewCoordinator(engine, s.pool, cfg.BlockSize, s.maxBins)
	if err != nil {
		return nil, err
	}

	return &Processor{
		cfg:    cfg,
		engine: engine,
		coord:  coord,
	}, nil
}

// ProcessBlock renders one block. See Engine.ProcessBlock.
func (p *Processor) ProcessBlock(outL, outR, inL, inR []float64) error {
	return p.engine.ProcessBlock(outL, outR, inL, inR)
}

// ProcessInPlace renders one block over its input.
func (p *Processor) ProcessInPlace(left, right []float64) error {
	return p.engine.ProcessInPlace(left, right)
}

// SampleRate returns the configured sample rate.
func (p *Processor) SampleRate() float64 {
	return p.cfg.SampleRate
}

// BlockSize returns the block size the render path expects.
func (p *Processor) BlockSize() int {
	return p.coord.BlockSize()
}

// SelectDirection selects the response used from the next block on and
// returns the effective index. Requests outside the loaded set are ignored
// and keep the previous selection.
//
// SelectDirection, SelectAzimuth and Direction take no locks, so a host may
// also steer from the render goroutine between blocks.
func (p *Processor) SelectDirection(index int) int {
	bank := p.coord.Bank()
	valid := index >= 0
	if bank != nil {
		valid = valid && index < bank.Len()
	}
	if valid {
		p.engine.Select(index)
	}
	return p.effectiveIndex(bank)
}

// SelectAzimuth selects the response closest to degrees, assuming the loaded
// set covers the full circle in even steps. It returns the effective index.
func (p *Processor) SelectAzimuth(degrees float64) int {
	bank := p.coord.Bank()
	if bank == nil {
		return p.Direction()
	}
	return p.SelectDirection(AzimuthIndex(degrees, bank.Len()))
}

// Direction returns the effective response index.
func (p *Processor) Direction() int {
	return p.effectiveIndex(p.coord.Bank())
}

func (p *Processor) effectiveIndex(bank *Bank) int {
	idx := p.engine.Selected()
	if bank != nil && idx >= bank.Len() {
		idx = bank.Len() - 1
	}
	return max(idx, 0)
}

// SetConvolutionEnabled switches between convolution and bypass. Switching
// back on starts from silent history.
func (p *Processor) SetConvolutionEnabled(on bool) {
	p.engine.SetEnabled(on)
}

// ConvolutionEnabled reports whether the convolution is switched on.
func (p *Processor) ConvolutionEnabled() bool {
	return p.engine.Enabled()
}

// LoadImpulseResponseSet replaces the active set. The new set is used from
// the first block that starts after the call returns; use WaitApplied to
// block until then. On error the previous set stays active.
func (p *Processor) LoadImpulseResponseSet(ctx context.Context, responses []ImpulseResponse) error {
	seq, err := p.coord.Load(ctx, responses)
	if err != nil {
		return err
	}
	p.setLastSeq(seq)
	return nil
}

// LoadSingleImpulseResponse replaces the active set with a single response.
func (p *Processor) LoadSingleImpulseResponse(ctx context.Context, response ImpulseResponse) error {
	return p.LoadImpulseResponseSet(ctx, []ImpulseResponse{response})
}

// Prepare announces a new host block size. The loaded set is rebuilt for it.
func (p *Processor) Prepare(ctx context.Context, blockSize int) error {
	seq, err := p.coord.Prepare(ctx, blockSize)
	if err != nil {
		return err
	}
	p.setLastSeq(seq)
	return nil
}

// WaitApplied blocks until the render path uses the most recently loaded
// set. It returns immediately when nothing is pending.
func (p *Processor) WaitApplied(ctx context.Context) error {
	p.mu.Lock()
	seq := p.lastSeq
	p.mu.Unlock()
	return p.coord.WaitApplied(ctx, seq)
}

// State returns the render state.
func (p *Processor) State() State {
	return p.engine.State()
}

// Stats returns the render counters.
func (p *Processor) Stats() Stats {
	return p.engine.Stats()
}

// Bank returns the most recently loaded bank, or nil.
func (p *Processor) Bank() *Bank {
	return p.coord.Bank()
}

// Reclaim releases storage of sets the render path no longer uses. Loading
// and preparing reclaim as well; hosts that rarely reload may call it
// periodically.
func (p *Processor) Reclaim() {
	p.coord.Reclaim()
}

func (p *Processor) setLastSeq(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq > p.lastSeq {
		p.lastSeq = seq
	}
}
