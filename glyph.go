package termpix

import (
	"image/color"
	"strings"

	"github.com/muesli/termenv"
)

// Luminance returns the Rec. 601 luma of c in the range 0-1
func Luminance(c color.NRGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// IsTransparent reports whether a pixel should be left as background by the
// glyph encoders. Faint, dark pixels are treated as transparent to avoid dark
// fringes around anti-aliased edges.
func IsTransparent(c color.NRGBA) bool {
	switch {
	case c.A < 8:
		return true
	case c.A < 32 && Luminance(c) < 0.15:
		return true
	case c.A < 64 && c.R < 12 && c.G < 12 && c.B < 12:
		return true
	case c.A < 128 && Luminance(c) < 0.05:
		return true
	case c.A < 240 && Luminance(c) < 0.01:
		return true
	}
	return false
}

// GlyphOptions controls the half-block and braille encoders.
type GlyphOptions struct {
	// Profile is the color profile used for escapes, TrueColor when unset
	Profile termenv.Profile
}

// sgrColor converts c to a termenv color in profile p
func sgrColor(p termenv.Profile, c color.NRGBA) termenv.Color {
	return p.FromColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
}

// sgr writes the select graphic rendition for fg/bg, either of which may be nil
func sgr(p termenv.Profile, fg, bg *color.NRGBA) string {
	var seqs []string
	if fg != nil {
		if s := sgrColor(p, *fg).Sequence(false); s != "" {
			seqs = append(seqs, s)
		}
	}
	if bg != nil {
		if s := sgrColor(p, *bg).Sequence(true); s != "" {
			seqs = append(seqs, s)
		}
	}
	if len(seqs) == 0 {
		return ""
	}
	return termenv.CSI + strings.Join(seqs, ";") + "m"
}

// sgrReset clears all attributes
const sgrReset = termenv.CSI + termenv.ResetSeq + "m"
