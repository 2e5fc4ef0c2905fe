package hrtf

import (
	"errors"
	"fmt"
)

// Errors returned by the hrtf package. Configuration problems wrap
// ErrInvalidConfiguration.
var (
	ErrInvalidConfiguration = errors.New("hrtf: invalid configuration")
	ErrEmptyBank            = fmt.Errorf("%w: empty impulse response set", ErrInvalidConfiguration)
	ErrLengthMismatch       = fmt.Errorf("%w: length mismatch", ErrInvalidConfiguration)
	ErrResourceExhausted    = errors.New("hrtf: resource budget exceeded")
)
