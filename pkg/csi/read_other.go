//go:build !unix

package csi

import (
	"fmt"
	"io"
	"time"
)

// byteReader drains the terminal on a background goroutine because the input
// handle cannot be polled with a timeout
type byteReader struct {
	ch  chan byte
	err chan error
}

func startByteReader(r io.Reader) *byteReader {
	br := &byteReader{
		ch:  make(chan byte, 256),
		err: make(chan error, 1),
	}
	go func() {
		var buf [1]byte
		for {
			if _, err := r.Read(buf[:]); err != nil {
				br.err <- err
				return
			}
			br.ch <- buf[0]
		}
	}()
	return br
}

// ReadByte waits up to timeout for one byte of input
func (t *TTY) ReadByte(timeout time.Duration) (byte, error) {
	t.mu.Lock()
	if t.reader == nil {
		t.reader = startByteReader(t.in)
	}
	br := t.reader
	t.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case b := <-br.ch:
		return b, nil
	case err := <-br.err:
		return 0, fmt.Errorf("failed to read terminal: %w", err)
	case <-timer.C:
		return 0, ErrTimeout
	}
}
