// Package playback streams rendered stereo blocks to the audio device.
package playback

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// BytesPerFrame is the size of one interleaved stereo float32 frame.
const BytesPerFrame = 2 * 4

// ErrInvalidBlockSize is returned for a non-positive block size.
var ErrInvalidBlockSize = errors.New("playback: block size must be > 0")

// RenderFunc fills one block of left and right output. Returning io.EOF ends
// the stream after that block; any other error ends it immediately.
type RenderFunc func(left, right []float64) error

// Stream adapts a RenderFunc to the float32 little-endian interleaved byte
// stream the device consumes. Rendering happens on the reader's goroutine.
type Stream struct {
	render RenderFunc
	left   []float64
	right  []float64
	frames []float64 // interleaved copy of left and right
	pos    int
	valid  int
	eof    bool

	mu  sync.Mutex
	err error
}

// NewStream returns a stream that renders blockSize frames at a time.
func NewStream(blockSize int, render RenderFunc) (*Stream, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if render == nil {
		return nil, errors.New("playback: render func is nil")
	}
	return &Stream{
		render: render,
		left:   make([]float64, blockSize),
		right:  make([]float64, blockSize),
		frames: make([]float64, 2*blockSize),
	}, nil
}

// Read implements io.Reader. Only whole frames are written; samples outside
// [-1, 1] are clipped.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / BytesPerFrame
	n := 0
	for n < frames {
		if s.pos == s.valid {
			if s.eof {
				break
			}
			if !s.fill() {
				break
			}
		}
		off := n * BytesPerFrame
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(clip(s.frames[2*s.pos])))
		binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(clip(s.frames[2*s.pos+1])))
		s.pos++
		n++
	}
	if n == 0 && frames > 0 {
		return 0, io.EOF
	}
	return n * BytesPerFrame, nil
}

func (s *Stream) fill() bool {
	err := s.render(s.left, s.right)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.eof = true
	default:
		s.setErr(err)
		s.eof = true
		s.pos, s.valid = 0, 0
		return false
	}
	s.pos, s.valid = 0, core.Interleave(s.frames, s.left, s.right)
	return true
}

func (s *Stream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Err returns the first render error other than io.EOF.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func clip(v float64) float32 {
	return float32(core.Clamp(v, -1, 1))
}
