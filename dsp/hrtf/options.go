package hrtf

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
)

// DefaultMaxBankBins is the default limit for BankFootprint: 2^26 values,
// roughly 1 GiB of spectra and history.
const DefaultMaxBankBins = 1 << 26

// Option configures a Processor.
type Option func(*processorSettings) error

type processorSettings struct {
	bypass  BypassMode
	routing Routing
	maxBins int
	pool    *buffer.Pool
}

func defaultProcessorSettings() processorSettings {
	return processorSettings{
		bypass:  BypassCopy,
		routing: RouteStereo,
		maxBins: DefaultMaxBankBins,
	}
}

// WithBypassMode sets what happens while the convolution is disabled.
func WithBypassMode(mode BypassMode) Option {
	return func(s *processorSettings) error {
		if mode != BypassCopy && mode != BypassTransform {
			return fmt.Errorf("%w: unknown bypass mode %d", ErrInvalidConfiguration, mode)
		}
		s.bypass = mode
		return nil
	}
}

// WithRouting sets which input channel feeds each ear.
func WithRouting(routing Routing) Option {
	return func(s *processorSettings) error {
		if routing != RouteStereo && routing != RouteMonoSource {
			return fmt.Errorf("%w: unknown routing %d", ErrInvalidConfiguration, routing)
		}
		s.routing = routing
		return nil
	}
}

// WithMaxBankBins limits the memory a loaded set may take, counted as
// spectrum bins plus history samples. Zero disables the limit.
func WithMaxBankBins(limit int) Option {
	return func(s *processorSettings) error {
		if limit < 0 {
			return fmt.Errorf("%w: bin budget must be >= 0: %d", ErrInvalidConfiguration, limit)
		}
		s.maxBins = limit
		return nil
	}
}

// WithPool shares a buffer pool for overlap histories between processors.
func WithPool(pool *buffer.Pool) Option {
	return func(s *processorSettings) error {
		if pool == nil {
			return fmt.Errorf("%w: pool must not be nil", ErrInvalidConfiguration)
		}
		s.pool = pool
		return nil
	}
}
