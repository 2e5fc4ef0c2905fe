package audiofile

import "errors"

var (
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	ErrNotAudioFile      = errors.New("audiofile: not a valid audio file")
	ErrUnsupportedDepth  = errors.New("audiofile: unsupported bit depth")
	ErrEmpty             = errors.New("audiofile: no samples")
)
