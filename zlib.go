package termpix

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/flate"
)

const (
	adlerMod = 65521
	// adlerNMax is the largest n such that 255n(n+1)/2 + (n+1)(adlerMod-1) fits in 32 bits
	adlerNMax = 5552
)

// zlibHeader is CMF=deflate/32K window, FLG=default compression with a valid FCHECK
var zlibHeader = []byte{0x78, 0x9c}

// Adler32 computes the Adler-32 checksum of data
func Adler32(data []byte) uint32 {
	a, b := uint32(1), uint32(0)
	for len(data) > 0 {
		n := min(len(data), adlerNMax)
		for _, c := range data[:n] {
			a += uint32(c)
			b += a
		}
		a %= adlerMod
		b %= adlerMod
		data = data[n:]
	}
	return b<<16 | a
}

// zlibWrap compresses data into a zlib stream: header, raw deflate body, then
// the big-endian Adler-32 of the uncompressed input
func zlibWrap(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 16)
	buf.Write(zlibHeader)

	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create deflate writer: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to deflate payload: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush deflate stream: %w", err)
	}

	return binary.BigEndian.AppendUint32(buf.Bytes(), Adler32(data)), nil
}
