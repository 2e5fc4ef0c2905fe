package buffer

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// numClasses covers capacities up to 2^40 samples.
const numClasses = 41

// Pool recycles Buffers in power-of-two capacity classes, so a request is
// only served by a buffer that fits it without growing.
type Pool struct {
	classes [numClasses]sync.Pool

	gets   atomic.Uint64
	misses atomic.Uint64
	puts   atomic.Uint64
}

// PoolStats reports how often Get was served from the pool and how many
// buffers Put accepted.
type PoolStats struct {
	Gets   uint64
	Misses uint64
	Puts   uint64
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a zeroed Buffer of the requested length. Callers should
// return it via Put when done.
func (p *Pool) Get(length int) *Buffer {
	length = max(length, 0)
	p.gets.Add(1)

	class := classOf(length)
	if class >= numClasses {
		p.misses.Add(1)
		return New(length)
	}

	if b, ok := p.classes[class].Get().(*Buffer); ok {
		b.samples = b.samples[:length]
		b.Zero()
		return b
	}

	p.misses.Add(1)
	return newWithCap(length, 1<<class)
}

// Put returns a Buffer to the pool for reuse. The caller must not use the
// buffer afterwards. Buffers whose capacity is not a power of two, such as
// those from New, are dropped.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	c := cap(b.samples)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	class := bits.TrailingZeros(uint(c))
	if class >= numClasses {
		return
	}
	p.puts.Add(1)
	p.classes[class].Put(b)
}

// Stats returns the pool counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{Gets: p.gets.Load(), Misses: p.misses.Load(), Puts: p.puts.Load()}
}

// classOf returns the smallest class whose capacity 2^class holds length.
func classOf(length int) int {
	if length <= 1 {
		return 0
	}
	return bits.Len(uint(length - 1))
}
