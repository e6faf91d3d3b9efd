/*
Package csi sends control sequences to the attached terminal and collects its replies.

Queries are written as ESC followed by the control sequence, and the reply is read
back byte by byte from the same terminal until a terminator is recognised or the
per-attempt timeout expires.
*/
package csi

import (
	"errors"
	"strings"
	"time"

	"github.com/apex/log"
)

const (
	// QueryTimeout bounds how long a single attempt waits for a reply
	QueryTimeout = 500 * time.Millisecond
	// MaxAttempts is the number of times a query is sent before giving up
	MaxAttempts = 2
)

// Control sequences, written after a leading ESC
const (
	// CellSizeQuery asks for the character cell size in pixels (CSI 16 t)
	CellSizeQuery = "[16t"
	// DeviceAttributesQuery asks for primary device attributes (DA1)
	DeviceAttributesQuery = "[c"
	// KittyGraphicsQuery transmits a 1x1 test image and then requests DA1 so both
	// replies arrive back to back
	KittyGraphicsQuery = "_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\\x1b[c"
)

const (
	esc = 0x1b
	bel = 0x07
)

// ErrTimeout is returned by Console.ReadByte when no input arrived in time
var ErrTimeout = errors.New("read timeout")

// Console is a bidirectional terminal channel.
type Console interface {
	// Write sends raw bytes to the terminal
	Write(p []byte) (int, error)
	// ReadByte waits up to timeout for one byte of input, returning ErrTimeout
	// when none arrived
	ReadByte(timeout time.Duration) (byte, error)
	// Size returns the window size in character cells
	Size() (cols, rows int, err error)
	// Redirected reports whether either direction is not attached to a terminal
	Redirected() bool
	// MakeRaw puts the input side into raw mode and returns a restore function
	MakeRaw() (restore func() error, err error)
}

// Query writes ESC+seq to the console and returns the terminal's reply.
//
// An empty string is returned when the console is redirected or nothing was
// received. When no attempt yields a complete reply the longest partial reply
// is returned instead.
func Query(c Console, seq string) string {
	if c == nil || c.Redirected() {
		return ""
	}

	restore, err := c.MakeRaw()
	if err != nil {
		log.WithError(err).Debug("csi: failed to enter raw mode")
		return ""
	}
	defer restore()

	var partial string
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		resp, complete := queryOnce(c, seq)
		if complete {
			log.WithFields(log.Fields{
				"query":   printable(seq),
				"reply":   printable(resp),
				"attempt": attempt,
			}).Debug("csi: reply")
			return resp
		}
		if len(resp) > len(partial) {
			partial = resp
		}
	}

	log.WithFields(log.Fields{
		"query":   printable(seq),
		"partial": printable(partial),
	}).Debug("csi: no complete reply")

	return partial
}

// queryOnce performs a single write/read round trip
func queryOnce(c Console, seq string) (string, bool) {
	if _, err := c.Write([]byte("\x1b" + seq)); err != nil {
		return "", false
	}
	return readReply(c)
}

// readReply collects one reply, giving up after QueryTimeout
func readReply(c Console) (string, bool) {
	var sc Scanner
	deadline := time.Now().Add(QueryTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		b, err := c.ReadByte(remaining)
		if err != nil {
			break
		}
		if sc.Feed(b) {
			return sc.String(), true
		}
	}

	return sc.String(), false
}

// QueryGraphics sends a graphics test transmission built like KittyGraphicsQuery,
// which is followed by a device attributes request.
//
// A graphics error reply ends at its own string terminator, so the device
// attributes reply behind it is read here too rather than being left on the
// terminal for the next query.
func QueryGraphics(c Console, seq string) string {
	resp := Query(c, seq)
	if !strings.HasPrefix(resp, "\x1b_") || HasGraphicsOK(resp) {
		return resp
	}

	restore, err := c.MakeRaw()
	if err != nil {
		return resp
	}
	defer restore()

	trailer, complete := readReply(c)
	if !complete {
		log.WithField("partial", printable(trailer)).Debug("csi: device attributes did not follow graphics reply")
	}
	return resp + trailer
}

// printable renders escape and control bytes visibly for debug logs
func printable(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == esc:
			out = append(out, '^', '[')
		case c < 0x20:
			out = append(out, '^', c+'@')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
