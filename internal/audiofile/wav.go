package audiofile

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-binaural/dsp/core"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format tags accepted as integer PCM.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// pcmReader is the part of the go-audio decoders used here.
type pcmReader interface {
	FullPCMBuffer() (*goaudio.IntBuffer, error)
}

// DecodeWAV decodes an integer PCM WAV file.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAudioFile
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	// 8-bit WAV is unsigned
	return decodePCM(dec, int(dec.BitDepth), dec.BitDepth == 8)
}

// decodePCM reads the whole buffer of dec and scales it to [-1, 1).
// unsigned shifts offset-binary data to signed first.
func decodePCM(dec pcmReader, bitDepth int, unsigned bool) (*Clip, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: reading PCM: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, ErrNotAudioFile
	}
	if unsigned {
		offset := 1 << (bitDepth - 1)
		for i, v := range buf.Data {
			buf.Data[i] = v - offset
		}
	}
	return newClip(buf.Data, buf.Format.NumChannels, buf.Format.SampleRate, scale)
}

// EncodeWAV writes clip as integer PCM with the given bit depth (16 or 24).
// Samples are clipped to full scale.
func EncodeWAV(w io.WriteSeeker, clip *Clip, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, bitDepth)
	}
	channels := clip.NumChannels()
	if channels == 0 || clip.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrNotAudioFile, channels, clip.SampleRate)
	}

	full := float64(int64(1)<<(bitDepth-1)) - 1
	frames := clip.Frames()
	data := make([]int, frames*channels)
	for ch, samples := range clip.Channels {
		for i := range frames {
			v := core.Clamp(samples[i], -1, 1)
			data[i*channels+ch] = int(math.Round(v * full))
		}
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: writing WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finishing WAV: %w", err)
	}
	return nil
}

// SaveWAV writes clip to path.
func SaveWAV(path string, clip *Clip, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}
	if err := EncodeWAV(f, clip, bitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
