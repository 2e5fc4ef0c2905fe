// Package buffer provides a reusable float64 buffer and a size-classed pool
// for the arenas behind overlap histories. Arenas are allocated on the
// control path and recycled once the render path has released them, so
// repeated impulse-response swaps of the same size reuse memory.
package buffer
