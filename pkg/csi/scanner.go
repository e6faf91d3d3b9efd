package csi

import "bytes"

// graphicsOK marks a successful graphics protocol acknowledgement
var graphicsOK = []byte(";OK")

// Scanner accumulates a terminal reply one byte at a time and reports when it is complete.
//
// Bytes received before the first ESC are dropped. The buffer is append-only and
// the scanner remembers where it found the markers it has already seen, so each
// Feed call inspects only the tail of the buffer.
//
// A reply containing ";OK" is the graphics acknowledgement juxtaposed with a
// device attributes reply: it is complete only once a string terminator follows
// the marker and a full CSI reply follows that terminator.
type Scanner struct {
	buf     []byte
	started bool
	okEnd   int // index just past ";OK", 0 until seen
	stEnd   int // index just past the ST following ";OK", 0 until seen
}

// Feed appends b and reports whether the reply is complete
func (s *Scanner) Feed(b byte) bool {
	if !s.started {
		if b != esc {
			return false
		}
		s.started = true
	}
	s.buf = append(s.buf, b)
	n := len(s.buf)

	if s.okEnd == 0 && bytes.HasSuffix(s.buf, graphicsOK) {
		s.okEnd = n
	}
	if s.okEnd > 0 {
		if s.stEnd == 0 {
			if n-2 >= s.okEnd && s.endsWithST() {
				s.stEnd = n
			}
			return false
		}
		return isCompleteCSI(s.buf[s.stEnd:])
	}

	switch {
	case b == bel:
		return true
	case s.endsWithST():
		return true
	case bytes.IndexByte([]byte("cRtny"), b) >= 0:
		return n > 2 && s.buf[0] == esc && s.buf[1] == '['
	}
	return false
}

// Len returns the number of bytes captured so far
func (s *Scanner) Len() int {
	return len(s.buf)
}

// String returns the captured reply
func (s *Scanner) String() string {
	return string(s.buf)
}

// Reset clears the scanner for reuse
func (s *Scanner) Reset() {
	s.buf = s.buf[:0]
	s.started = false
	s.okEnd = 0
	s.stEnd = 0
}

func (s *Scanner) endsWithST() bool {
	n := len(s.buf)
	return n >= 2 && s.buf[n-2] == esc && s.buf[n-1] == '\\'
}

// isCompleteCSI reports whether b is exactly one finished CSI sequence:
// ESC [ followed by parameter bytes and a final byte in 0x40-0x7E
func isCompleteCSI(b []byte) bool {
	if len(b) < 3 || b[0] != esc || b[1] != '[' {
		return false
	}
	last := b[len(b)-1]
	return last >= 0x40 && last <= 0x7e
}
