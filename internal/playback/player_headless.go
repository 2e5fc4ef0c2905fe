//go:build headless

package playback

import (
	"io"
	"time"
)

// Player is a stand-in for builds without an audio device. It never plays.
type Player struct {
	started bool
}

// NewPlayer returns a Player that never reads src.
func NewPlayer(sampleRate int, bufferSize time.Duration, src io.Reader) (*Player, error) {
	return &Player{}, nil
}

// Start marks the player as started.
func (p *Player) Start() {
	p.started = true
}

// IsPlaying always reports false.
func (p *Player) IsPlaying() bool {
	return false
}

// Err always returns nil.
func (p *Player) Err() error {
	return nil
}

// Close resets the player.
func (p *Player) Close() error {
	p.started = false
	return nil
}
