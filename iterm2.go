package termpix

import (
	"image"
	"strconv"
	"strings"
)

// ITerm2Options controls the inline image envelope (OSC 1337 File).
type ITerm2Options struct {
	// Columns and Rows are size hints in cells, "auto" when zero
	Columns int
	Rows    int
	// PreserveAspectRatio lets the terminal letterbox instead of stretching
	PreserveAspectRatio bool
	// DoNotMoveCursor leaves the cursor where the image started
	DoNotMoveCursor bool
}

// EncodeITerm2 wraps the PNG encoding of img in a single inline file envelope.
// Terminals implementing the protocol accept arbitrarily long envelopes so the
// payload is never chunked.
func EncodeITerm2(im Imaging, img image.Image, opts ITerm2Options) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyOutput
	}
	if im == nil {
		im = NewImaging()
	}

	data, err := im.EncodeStill(img)
	if err != nil {
		return "", err
	}
	payload := Base64Encode(data)

	var sb strings.Builder
	sb.Grow(len(payload) + 128)
	sb.WriteString("\x1b]1337;File=inline=1")
	sb.WriteString(";size=" + strconv.Itoa(len(data)))
	sb.WriteString(";width=" + cellHint(opts.Columns))
	sb.WriteString(";height=" + cellHint(opts.Rows))
	sb.WriteString(";preserveAspectRatio=" + flag(opts.PreserveAspectRatio))
	sb.WriteString(";doNotMoveCursor=" + flag(opts.DoNotMoveCursor))
	sb.WriteByte(':')
	sb.WriteString(payload)
	sb.WriteByte('\a')
	return sb.String(), nil
}

func cellHint(n int) string {
	if n <= 0 {
		return "auto"
	}
	return strconv.Itoa(n)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
