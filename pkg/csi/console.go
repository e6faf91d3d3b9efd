package csi

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// TTY is a Console backed by the process terminal.
type TTY struct {
	in  *os.File
	out *os.File
	own bool // in/out were opened by Open and must be closed

	mu     sync.Mutex
	reader *byteReader // lazily started on platforms without poll
}

// NewTTY wraps an existing input/output pair
func NewTTY(in, out *os.File) *TTY {
	return &TTY{in: in, out: out}
}

// Open opens the controlling terminal, falling back to stdin/stdout when
// /dev/tty is unavailable
func Open() *TTY {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return NewTTY(os.Stdin, os.Stdout)
	}
	return &TTY{in: tty, out: tty, own: true}
}

// Close releases the terminal if it was opened by Open
func (t *TTY) Close() error {
	if t.own {
		return t.in.Close()
	}
	return nil
}

// Write sends raw bytes to the terminal
func (t *TTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Size returns the window size in character cells
func (t *TTY) Size() (cols, rows int, err error) {
	cols, rows, err = term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return cols, rows, nil
}

// Redirected reports whether either direction is not a terminal
func (t *TTY) Redirected() bool {
	return !term.IsTerminal(int(t.in.Fd())) || !term.IsTerminal(int(t.out.Fd()))
}

// MakeRaw puts the input side into raw mode
func (t *TTY) MakeRaw() (func() error, error) {
	fd := int(t.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return func() error {
		return term.Restore(fd, oldState)
	}, nil
}
