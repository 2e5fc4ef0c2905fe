// Package hrtf renders binaural stereo by convolving an audio stream with a
// selectable pair of head-related impulse responses.
//
// The convolution is a uniform overlap-add scheme with zero latency: every
// input block of N samples is zero-padded to a power-of-two transform size
// K >= N+M-1, multiplied with the precomputed spectrum of the selected
// impulse response and reconstructed from a ring of the last MEM block
// responses (see conv.Plan and conv.OverlapHistory).
//
// Two kinds of callers share a Processor:
//
//   - the render path (ProcessBlock, ProcessInPlace) runs on the audio
//     thread. It never allocates, locks or blocks;
//   - the control path (loading responses, selecting a direction,
//     enabling or disabling the convolution) may allocate and take a
//     context.
//
// New impulse-response sets are built completely on the control path and
// handed to the render path as a single generation pointer. The render path
// adopts it at the start of its next block, so no block ever mixes the old
// and the new set.
package hrtf
