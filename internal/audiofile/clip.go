package audiofile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a container/codec.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatAIFF
	FormatMP3
	FormatOgg
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatAIFF:
		return "aiff"
	case FormatMP3:
		return "mp3"
	case FormatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".aif", ".aiff":
		return FormatAIFF
	case ".mp3":
		return FormatMP3
	case ".ogg", ".oga":
		return FormatOgg
	default:
		return FormatUnknown
	}
}

// Clip is decoded audio, one slice per channel, samples in [-1, 1).
type Clip struct {
	SampleRate int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// NumChannels returns the channel count.
func (c *Clip) NumChannels() int {
	return len(c.Channels)
}

// Stereo returns the first two channels. A mono clip returns its only
// channel twice.
func (c *Clip) Stereo() (left, right []float64) {
	switch len(c.Channels) {
	case 0:
		return nil, nil
	case 1:
		return c.Channels[0], c.Channels[0]
	default:
		return c.Channels[0], c.Channels[1]
	}
}

// Load decodes the file at path, choosing the decoder by extension.
func Load(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	var clip *Clip
	switch format := FormatFromPath(path); format {
	case FormatWAV:
		clip, err = DecodeWAV(f)
	case FormatAIFF:
		clip, err = DecodeAIFF(f)
	case FormatMP3:
		clip, err = DecodeMP3(f)
	case FormatOgg:
		clip, err = DecodeOgg(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return clip, nil
}

// deinterleave splits interleaved samples into channels, scaling each value
// with scale. A trailing partial frame is dropped.
func deinterleave[T int | int16 | float32](data []T, channels int, scale float64) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range channels {
			out[ch][i] = float64(data[i*channels+ch]) * scale
		}
	}
	return out
}

func newClip[T int | int16 | float32](data []T, channels, sampleRate int, scale float64) (*Clip, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrNotAudioFile, channels, sampleRate)
	}
	if len(data) < channels {
		return nil, ErrEmpty
	}
	return &Clip{SampleRate: sampleRate, Channels: deinterleave(data, channels, scale)}, nil
}

// fullScale returns the reciprocal of the positive full-scale value of a
// signed integer PCM sample of the given depth.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return 1 / float64(uint64(1)<<(bitDepth-1)), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedDepth, bitDepth)
	}
}
