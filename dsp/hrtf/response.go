package hrtf

import (
	"fmt"
	"math"
)

// Ear selects one of the two output channels.
type Ear int

const (
	EarLeft Ear = iota
	EarRight
)

const numEars = 2

// String implements fmt.Stringer.
func (e Ear) String() string {
	switch e {
	case EarLeft:
		return "left"
	case EarRight:
		return "right"
	default:
		return fmt.Sprintf("Ear(%d)", int(e))
	}
}

// ImpulseResponse is a left/right pair of head-related impulse responses of
// equal length. Values are treated as immutable once handed to a Processor.
type ImpulseResponse struct {
	Left  []float64
	Right []float64
}

// NewImpulseResponse builds a response from one or two channels. A single
// channel is used for both ears.
func NewImpulseResponse(channels ...[]float64) (ImpulseResponse, error) {
	var r ImpulseResponse
	switch len(channels) {
	case 1:
		r = ImpulseResponse{Left: channels[0], Right: channels[0]}
	case 2:
		r = ImpulseResponse{Left: channels[0], Right: channels[1]}
	default:
		return ImpulseResponse{}, fmt.Errorf("%w: impulse response needs 1 or 2 channels, got %d",
			ErrInvalidConfiguration, len(channels))
	}
	if err := r.validate(); err != nil {
		return ImpulseResponse{}, err
	}
	return r, nil
}

// Len returns the number of taps per ear.
func (r ImpulseResponse) Len() int {
	return len(r.Left)
}

// Ear returns the taps of ear e.
func (r ImpulseResponse) Ear(e Ear) []float64 {
	if e == EarRight {
		return r.Right
	}
	return r.Left
}

func (r ImpulseResponse) validate() error {
	if len(r.Left) == 0 || len(r.Right) == 0 {
		return fmt.Errorf("%w: impulse response has no taps", ErrInvalidConfiguration)
	}
	if len(r.Left) != len(r.Right) {
		return fmt.Errorf("%w: left ear has %d taps, right ear %d",
			ErrLengthMismatch, len(r.Left), len(r.Right))
	}
	for e := range numEars {
		for i, v := range r.Ear(Ear(e)) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite sample at %s[%d]", ErrInvalidConfiguration, Ear(e), i)
			}
		}
	}
	return nil
}

func (r ImpulseResponse) clone() ImpulseResponse {
	return ImpulseResponse{
		Left:  append([]float64(nil), r.Left...),
		Right: append([]float64(nil), r.Right...),
	}
}

// validateSet checks that responses is non-empty and that every response is
// valid and as long as the first one.
func validateSet(responses []ImpulseResponse) error {
	if len(responses) == 0 {
		return ErrEmptyBank
	}
	m := responses[0].Len()
	for i, r := range responses {
		if err := r.validate(); err != nil {
			return fmt.Errorf("response %d: %w", i, err)
		}
		if r.Len() != m {
			return fmt.Errorf("%w: response %d has %d taps, want %d", ErrLengthMismatch, i, r.Len(), m)
		}
	}
	return nil
}
