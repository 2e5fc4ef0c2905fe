package hrtf

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/conv"
	"github.com/cwbudde/algo-binaural/dsp/fft"
)

// waitPollInterval is how often WaitApplied checks the render path.
const waitPollInterval = time.Millisecond

// Coordinator builds generations on the control path and hands them to an
// Engine. Its methods are safe for concurrent use. Bank and BlockSize never
// wait on a build in progress.
type Coordinator struct {
	mu sync.Mutex

	engine  *Engine
	pool    *buffer.Pool
	maxBins int

	// written under mu, read lock-free
	blockSize atomic.Int64
	bank      atomic.Pointer[Bank]

	responses []ImpulseResponse
	seq       uint64
	released  int
}

// NewCoordinator returns a coordinator feeding engine. History arenas are
// taken from pool and returned to it once the render path let go of them.
func NewCoordinator(engine *Engine, pool *buffer.Pool, blockSize, maxBins int) (*Coordinator, error) {
	if engine == nil || pool == nil {
		return nil, fmt.Errorf("%w: coordinator needs an engine and a pool", ErrInvalidConfiguration)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidConfiguration, blockSize)
	}
	if maxBins < 0 {
		return nil, fmt.Errorf("%w: bin budget %d", ErrInvalidConfiguration, maxBins)
	}
	c := &Coordinator{
		engine:  engine,
		pool:    pool,
		maxBins: maxBins,
	}
	c.blockSize.Store(int64(blockSize))
	return c, nil
}

// Load validates responses, builds a bank for the current block size and
// publishes it. It returns the sequence number to wait for. A rejected set
// leaves the previous one in place.
func (c *Coordinator) Load(ctx context.Context, responses []ImpulseResponse) (uint64, error) {
	if err := validateSet(responses); err != nil {
		return 0, err
	}

	owned := make([]ImpulseResponse, len(responses))
	for i, r := range responses {
		owned[i] = r.clone()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bank, err := BuildBank(ctx, owned, c.BlockSize(), c.maxBins)
	if err != nil {
		return 0, err
	}

	seq, err := c.publishLocked(bank)
	if err != nil {
		return 0, err
	}
	c.responses = owned
	return seq, nil
}

// Prepare changes the block size. A loaded set is rebuilt for the new size
// and published; without one only the size is recorded.
func (c *Coordinator) Prepare(ctx context.Context, blockSize int) (uint64, error) {
	if blockSize <= 0 {
		return 0, fmt.Errorf("%w: block size %d", ErrInvalidConfiguration, blockSize)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.reclaimLocked()

	if blockSize == c.BlockSize() && c.bank.Load() != nil {
		return c.seq, nil
	}
	if c.responses == nil {
		c.blockSize.Store(int64(blockSize))
		return c.seq, nil
	}

	bank, err := BuildBank(ctx, c.responses, blockSize, c.maxBins)
	if err != nil {
		return 0, err
	}
	seq, err := c.publishLocked(bank)
	if err != nil {
		return 0, err
	}
	c.blockSize.Store(int64(blockSize))
	return seq, nil
}

// Bank returns the most recently published bank, or nil.
func (c *Coordinator) Bank() *Bank {
	return c.bank.Load()
}

// BlockSize returns the block size banks are built for.
func (c *Coordinator) BlockSize() int {
	return int(c.blockSize.Load())
}

// Sequence returns the sequence number of the last publication.
func (c *Coordinator) Sequence() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reclaim returns the storage of generations the render path has retired
// to the pool. It reports how many generations were released in total.
func (c *Coordinator) Reclaim() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reclaimLocked()
	return c.released
}

// WaitApplied blocks until the render path has adopted publication seq or a
// later one, or until ctx is done.
func (c *Coordinator) WaitApplied(ctx context.Context, seq uint64) error {
	if c.engine.Applied() >= seq {
		return nil
	}

	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("hrtf: waiting for set %d: %w", seq, ctx.Err())
		case <-ticker.C:
			if c.engine.Applied() >= seq {
				c.Reclaim()
				return nil
			}
		}
	}
}

func (c *Coordinator) publishLocked(bank *Bank) (uint64, error) {
	g, err := c.newGeneration(bank)
	if err != nil {
		return 0, err
	}

	c.seq++
	g.seq = c.seq

	// A pending generation the render path never adopted is ours again.
	if stale := c.engine.pending.Swap(g); stale != nil {
		c.release(stale)
	}
	c.bank.Store(bank)
	c.reclaimLocked()
	return g.seq, nil
}

func (c *Coordinator) newGeneration(bank *Bank) (*generation, error) {
	p := bank.partition

	tr, err := fft.NewRealFFT(p.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	arena := c.pool.Get(p.HistoryLen(numEars))
	history, err := conv.NewOverlapHistoryFrom(p, numEars, arena.Samples())
	if err != nil {
		c.pool.Put(arena)
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return &generation{
		bank:     bank,
		history:  history,
		arena:    arena,
		tr:       tr,
		spectrum: make([]complex128, p.Bins()),
		scratch:  make([]float64, p.FFTSize),
	}, nil
}

// reclaimLocked releases every generation on the engine's retired list.
func (c *Coordinator) reclaimLocked() {
	g := c.engine.retired.Swap(nil)
	for g != nil {
		next := g.nextRetired
		g.nextRetired = nil
		c.release(g)
		g = next
	}
}

func (c *Coordinator) release(g *generation) {
	c.pool.Put(g.arena)
	g.arena = nil
	g.history = nil
	c.released++
}
