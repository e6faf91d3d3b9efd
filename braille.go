package termpix

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const brailleBlank = 0x2800

// brailleDots maps the position in a 2x4 block to its dot bit
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// EncodeBraille renders img with one braille character per 2x4 pixel block.
// Non-transparent pixels become raised dots colored with their average color.
func EncodeBraille(img image.Image, opts GlyphOptions) (EncodedFrame, error) {
	src := toNRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if width == 0 || height == 0 {
		return EncodedFrame{}, ErrEmptyOutput
	}

	cols := (width + 1) / 2
	rows := (height + 3) / 4
	w := &glyphWriter{opts: opts}
	w.sb.Grow(rows * cols * 24)

	for row := range rows {
		for col := range cols {
			var (
				dots    rune
				r, g, b float64
				n       int
			)
			for dy := range 4 {
				for dx := range 2 {
					c := inkAt(src, col*2+dx, row*4+dy)
					if c == nil {
						continue
					}
					dots |= brailleDots[dy][dx]
					lr, lg, lb := toColorful(*c).LinearRgb()
					r, g, b = r+lr, g+lg, b+lb
					n++
				}
			}
			if n == 0 {
				w.write(glyphStyle{}, " ")
				continue
			}
			fg := fromColorful(colorful.LinearRgb(r/float64(n), g/float64(n), b/float64(n)))
			w.write(glyphStyle{fg: &fg}, string(brailleBlank+dots))
		}
		w.endLine(row == rows-1)
	}

	return EncodedFrame{Text: w.sb.String(), Height: rows}, nil
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
