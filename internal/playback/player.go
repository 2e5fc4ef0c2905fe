//go:build !headless

package playback

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays an interleaved stereo float32 stream on the default device.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mu      sync.Mutex
}

// NewPlayer opens the audio device. Only one Player may exist per process.
func NewPlayer(sampleRate int, bufferSize time.Duration, src io.Reader) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("playback: open device: %w", err)
	}
	<-ready

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
	}, nil
}

// Start begins pulling from the stream. Calls after the first are no-ops.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// IsPlaying reports whether the device is still consuming the stream.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// Err returns the device error, if any.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	return p.player.Err()
}

// Close stops playback and releases the player. The stream is not read
// again afterwards. Close is safe to call more than once.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	p.started = false
	return err
}
