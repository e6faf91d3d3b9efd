package termpix

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

const (
	// sixelIntro starts a DCS sixel string with a transparent background (P2=1)
	sixelIntro = "\x1bP0;1q"
	// sixelTransparent reserves color register 0 for fully transparent pixels
	sixelTransparent = "#0;2;0;0;0"
	sixelClose       = "\x1b\\"

	sixelEmpty    = '?' // sixel with no pixel set
	sixelCR       = '$' // back to the start of the current band
	sixelNewline  = '-' // down to the next band
	sixelRepeat   = '!'
	sixelRegister = '#'
)

// sixelPalette assigns color registers in first-use order. Register 0 is reserved
// for fully transparent pixels, which never get a register of their own.
type sixelPalette struct {
	registers map[color.NRGBA]int
	defined   []bool
	colors    []color.NRGBA
}

func newSixelPalette() *sixelPalette {
	return &sixelPalette{
		registers: make(map[color.NRGBA]int),
		defined:   []bool{true},
		colors:    []color.NRGBA{{}},
	}
}

// register returns the register of c, assigning the next free one on first sight
func (p *sixelPalette) register(c color.NRGBA) int {
	if c.A == 0 {
		return 0
	}
	if idx, ok := p.registers[c]; ok {
		return idx
	}
	idx := len(p.colors)
	p.registers[c] = idx
	p.colors = append(p.colors, c)
	p.defined = append(p.defined, false)
	return idx
}

// writeDefinition emits "#i;2;r;g;b" the first time register idx is used
func (p *sixelPalette) writeDefinition(sb *strings.Builder, idx int) {
	if p.defined[idx] {
		return
	}
	p.defined[idx] = true
	c := p.colors[idx]
	sb.WriteByte(sixelRegister)
	sb.WriteString(strconv.Itoa(idx))
	sb.WriteString(";2;")
	sb.WriteString(strconv.Itoa(sixelPercent(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(sixelPercent(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(sixelPercent(c.B)))
}

// sixelPercent scales an 8-bit channel to the 0-100 range sixel color definitions use
func sixelPercent(v uint8) int {
	return int(math.Round(float64(v) / 255 * 100))
}

// EncodeSixel encodes img as a sixel image occupying cellHeight terminal rows.
//
// Every pixel row is written as one pass over the current six-row band, setting
// only the bit for that row, so the palette is built in scan order. The caller is
// expected to have quantized img to at most MaxPaletteColors colors.
func EncodeSixel(img image.Image, cellHeight int) (EncodedFrame, error) {
	src := toNRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if width == 0 || height == 0 {
		return EncodedFrame{}, ErrEmptyOutput
	}

	var sb strings.Builder
	sb.Grow(64 + height*width/2)
	sb.WriteString(sixelIntro)
	sb.WriteString("\"1;1;")
	sb.WriteString(strconv.Itoa(width))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(height))
	sb.WriteString(sixelTransparent)

	palette := newSixelPalette()
	for y := range height {
		symbol := byte(sixelEmpty + 1<<(y%sixelBand))
		run, count := -1, 0
		for x := range width {
			idx := palette.register(src.NRGBAAt(x, y))
			if idx == run {
				count++
				continue
			}
			if count > 0 {
				writeSixelRun(&sb, palette, run, count, symbol)
			}
			run, count = idx, 1
		}
		writeSixelRun(&sb, palette, run, count, symbol)

		sb.WriteByte(sixelCR)
		if y%sixelBand == sixelBand-1 {
			sb.WriteByte(sixelNewline)
		}
	}
	sb.WriteString(sixelClose)

	if cellHeight <= 0 {
		cellHeight = (height + DefaultCellSize.Height - 1) / DefaultCellSize.Height
	}
	return EncodedFrame{Text: sb.String(), Height: cellHeight}, nil
}

// writeSixelRun emits "#i!n<symbol>", or "#i<symbol>" for a single pixel
func writeSixelRun(sb *strings.Builder, palette *sixelPalette, idx, count int, symbol byte) {
	palette.writeDefinition(sb, idx)
	sb.WriteByte(sixelRegister)
	sb.WriteString(strconv.Itoa(idx))
	if count > 1 {
		sb.WriteByte(sixelRepeat)
		sb.WriteString(strconv.Itoa(count))
	}
	sb.WriteByte(symbol)
}
