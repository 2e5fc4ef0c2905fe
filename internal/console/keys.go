// Package console turns raw terminal input into listener controls.
package console

// Key is a decoded control key.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyBypass
	KeyReload
	KeyInfo
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyBypass:
		return "bypass"
	case KeyReload:
		return "reload"
	case KeyInfo:
		return "info"
	case KeyQuit:
		return "quit"
	default:
		return "none"
	}
}

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// Parser decodes a raw byte stream. Arrow keys arrive as ESC [ C/D.
type Parser struct {
	state int
}

// Feed consumes one byte and reports the key it completes, if any.
func (p *Parser) Feed(b byte) Key {
	switch p.state {
	case 1:
		if b == '[' || b == 'O' {
			p.state = 2
			return KeyNone
		}
		p.state = 0
	case 2:
		p.state = 0
		switch b {
		case 'C':
			return KeyRight
		case 'D':
			return KeyLeft
		}
		return KeyNone
	}

	switch b {
	case keyEsc:
		p.state = 1
	case 'a', 'A', ',':
		return KeyLeft
	case 'd', 'D', '.':
		return KeyRight
	case 'b', 'B', ' ':
		return KeyBypass
	case 'r', 'R':
		return KeyReload
	case 'i', 'I':
		return KeyInfo
	case 'q', 'Q', keyCtrlC:
		return KeyQuit
	}
	return KeyNone
}
