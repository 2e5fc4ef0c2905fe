// Package conv provides the partition planning and overlap-add state used by
// streaming FFT convolution, plus a direct reference convolution.
//
// # Planning
//
// [Plan] picks the transform size K and history depth MEM for a stream of
// N-sample blocks convolved with an M-tap kernel:
//
//	K   = smallest power of two >= N + M - 1
//	MEM = max(2, ceil(K / N))
//
// K >= N + M - 1 guarantees that the circular convolution computed by the
// transform equals the linear one, so a block's full response fits in one
// K-sample buffer. That response spreads over at most ceil(K/N) output
// blocks, which is how many buffers the history keeps.
//
// # Overlap-add history
//
// [OverlapHistory] is a ring of MEM buffers of K samples per channel, all
// carved from a single arena. Each block:
//
//	h.Load(ch, input)          // slot 0 <- input, zero-padded to K
//	// transform, multiply, inverse, normalize slot 0 in place
//	h.OverlapAdd(out, ch)      // out = slot0[0:N] + sum slot_i[i*N : i*N+N]
//	h.Age()                    // slot i <- slot i-1, oldest slot recycled
//
// Aging rotates the ring head; no samples are copied.
//
// # Direct convolution
//
// [Direct] computes the full linear convolution in the time domain and is the
// reference the streaming engine is tested against.
package conv
