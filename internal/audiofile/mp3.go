package audiofile

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces interleaved 16-bit little-endian stereo.
const mp3Channels = 2

// DecodeMP3 decodes an MP3 stream.
func DecodeMP3(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAudioFile, err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decoding MP3: %w", err)
	}
	return clipFromPCM16LE(raw, mp3Channels, dec.SampleRate())
}

func clipFromPCM16LE(raw []byte, channels, sampleRate int) (*Clip, error) {
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	return newClip(samples, channels, sampleRate, 1.0/32768)
}
