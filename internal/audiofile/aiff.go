package audiofile

import (
	"io"

	"github.com/go-audio/aiff"
)

// DecodeAIFF decodes an integer PCM AIFF file.
func DecodeAIFF(r io.ReadSeeker) (*Clip, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAudioFile
	}
	return decodePCM(dec, int(dec.BitDepth), false)
}
