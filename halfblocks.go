package termpix

import (
	"image"
	"image/color"
	"strings"
)

const (
	upperHalfBlock = "▀"
	lowerHalfBlock = "▄"
)

// glyphStyle is the color state of the text cursor
type glyphStyle struct {
	fg, bg *color.NRGBA
}

func (s glyphStyle) equal(o glyphStyle) bool {
	return sameColor(s.fg, o.fg) && sameColor(s.bg, o.bg)
}

func sameColor(a, b *color.NRGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// glyphWriter emits glyphs, only writing color escapes when the style changes
type glyphWriter struct {
	sb      strings.Builder
	opts    GlyphOptions
	current glyphStyle
	styled  bool
}

func (w *glyphWriter) write(style glyphStyle, glyph string) {
	if !w.styled || !w.current.equal(style) {
		if w.styled {
			w.sb.WriteString(sgrReset)
		}
		seq := sgr(w.opts.Profile, style.fg, style.bg)
		w.sb.WriteString(seq)
		w.current = style
		w.styled = seq != ""
	}
	w.sb.WriteString(glyph)
}

func (w *glyphWriter) endLine(last bool) {
	if w.styled {
		w.sb.WriteString(sgrReset)
		w.styled = false
		w.current = glyphStyle{}
	}
	if !last {
		w.sb.WriteByte('\n')
	}
}

// EncodeHalfblocks renders img with one character cell per 1x2 pixel block.
// The upper pixel becomes the foreground of '▀' and the lower one its background;
// transparent halves are left to the terminal background.
func EncodeHalfblocks(img image.Image, opts GlyphOptions) (EncodedFrame, error) {
	src := toNRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if width == 0 || height == 0 {
		return EncodedFrame{}, ErrEmptyOutput
	}

	rows := (height + 1) / 2
	w := &glyphWriter{opts: opts}
	w.sb.Grow(rows * width * 24)

	for row := range rows {
		for x := range width {
			top := inkAt(src, x, row*2)
			bottom := inkAt(src, x, row*2+1)
			switch {
			case top == nil && bottom == nil:
				w.write(glyphStyle{}, " ")
			case bottom == nil:
				w.write(glyphStyle{fg: top}, upperHalfBlock)
			case top == nil:
				w.write(glyphStyle{fg: bottom}, lowerHalfBlock)
			default:
				w.write(glyphStyle{fg: top, bg: bottom}, upperHalfBlock)
			}
		}
		w.endLine(row == rows-1)
	}

	return EncodedFrame{Text: w.sb.String(), Height: rows}, nil
}

// inkAt returns the pixel at x,y or nil when it is out of bounds or transparent
func inkAt(img *image.NRGBA, x, y int) *color.NRGBA {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil
	}
	c := img.NRGBAAt(x, y)
	if IsTransparent(c) {
		return nil
	}
	return &c
}
