//go:build unix

package csi

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// byteReader is unused on unix, input is polled directly
type byteReader struct{}

// ReadByte waits up to timeout for one byte of input
func (t *TTY) ReadByte(timeout time.Duration) (byte, error) {
	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	deadline := time.Now().Add(timeout)

	for {
		ms := int(time.Until(deadline) / time.Millisecond)
		if ms <= 0 {
			return 0, ErrTimeout
		}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, fmt.Errorf("failed to poll terminal: %w", err)
		}
		if n == 0 {
			return 0, ErrTimeout
		}
		break
	}

	var buf [1]byte
	if _, err := t.in.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read terminal: %w", err)
	}
	return buf[0], nil
}
