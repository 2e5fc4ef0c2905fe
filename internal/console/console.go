package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by Open when stdin is redirected.
var ErrNotTerminal = errors.New("console: stdin is not a terminal")

// Help lists the key bindings.
const Help = "left/right or a/d: rotate  b: bypass  r: reload  i: info  q: quit"

// Decode reads r until it fails or ctx ends, sending each decoded key on out.
// out is closed on return.
func Decode(ctx context.Context, r io.Reader, out chan<- Key) error {
	defer close(out)

	var p Parser
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			k := p.Feed(b)
			if k == KeyNone {
				continue
			}
			select {
			case out <- k:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Console puts stdin into raw mode and decodes keys from it.
type Console struct {
	fd       int
	oldState *term.State
	keys     chan Key
	stopped  sync.Once
}

// Open switches stdin to raw mode. It fails when stdin is not a terminal.
func Open() (*Console, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("console: set raw mode: %w", err)
	}
	return &Console{fd: fd, oldState: oldState, keys: make(chan Key, 8)}, nil
}

// Keys starts decoding stdin. The returned channel closes when stdin ends.
func (c *Console) Keys(ctx context.Context) <-chan Key {
	go func() { _ = Decode(ctx, os.Stdin, c.keys) }()
	return c.keys
}

// Printf writes a status line. Raw mode needs explicit carriage returns.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\r"+format+"\r\n", args...)
}

// Close restores the terminal.
func (c *Console) Close() error {
	var err error
	c.stopped.Do(func() {
		err = term.Restore(c.fd, c.oldState)
	})
	return err
}
