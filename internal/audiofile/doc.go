// Package audiofile decodes audio files into deinterleaved float64 clips and
// writes clips back as PCM WAV.
//
// Impulse responses are read from WAV or AIFF. Program material may also
// come from MP3 or Ogg Vorbis. Decoding is whole-file: impulse responses are
// short and the offline renderer needs the full input anyway.
package audiofile
