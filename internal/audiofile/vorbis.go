package audiofile

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// DecodeOgg decodes an Ogg Vorbis stream.
func DecodeOgg(r io.Reader) (*Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAudioFile, err)
	}
	return newClip(data, format.Channels, format.SampleRate, 1)
}
