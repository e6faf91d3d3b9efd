package termpix

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var gifPalette = color.Palette{color.NRGBA{}, red, blue}

func palettedRect(r image.Rectangle, index uint8) *image.Paletted {
	p := image.NewPaletted(r, gifPalette)
	for i := range p.Pix {
		p.Pix[i] = index
	}
	return p
}

func encodeGIF(t *testing.T, g *gif.GIF) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

func TestParseFilter(t *testing.T) {
	for f, name := range filterNames {
		got, err := ParseFilter(name)
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.Equal(t, name, f.String())
	}
	_, err := ParseFilter("lanczos9")
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	im := NewImaging()
	src := noiseImage(37, 23)
	for f := range filterNames {
		t.Run(f.String(), func(t *testing.T) {
			out := im.Resize(src, 12, 9, f)
			assert.Equal(t, image.Rect(0, 0, 12, 9), out.Bounds())
		})
	}
}

func TestResizeSameSize(t *testing.T) {
	src := solidImage(5, 5, red)
	assert.Same(t, src, NewImaging().Resize(src, 5, 5, FilterBilinear))
}

func TestResizeOffsetBounds(t *testing.T) {
	src := solidImage(20, 20, red).SubImage(image.Rect(5, 5, 15, 15))
	out := NewImaging().Resize(src, 10, 10, FilterNearest)
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())
	assert.Equal(t, red, out.NRGBAAt(0, 0))
}

func TestResizeBicubicBlendsTransparentEdge(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x, c := range []color.NRGBA{red, red, transparent, transparent} {
		src.SetNRGBA(x, 0, c)
	}

	out := NewImaging().Resize(src, 2, 1, FilterBicubic)
	edge := out.NRGBAAt(1, 0)
	assert.Less(t, edge.R, uint8(255), "red blends toward the black of the transparent pixels")
	assert.Less(t, edge.A, uint8(255))
	assert.Greater(t, out.NRGBAAt(0, 0).A, edge.A)
}

func TestResizeBicubicKeepsUniformColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			src.SetNRGBA(x, y, color.NRGBA{B: 255, A: uint8(x*32 + y)})
		}
	}

	out := NewImaging().Resize(src, 3, 5, FilterBicubic)
	for y := range 5 {
		for x := range 3 {
			c := out.NRGBAAt(x, y)
			assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{c.R, c.G, c.B}, "pixel %d,%d", x, y)
		}
	}
}

func TestQuantize(t *testing.T) {
	im := NewImaging()
	src := noiseImage(32, 32)
	for y := range 4 {
		for x := range 32 {
			src.SetNRGBA(x, y, transparent)
		}
	}

	for _, dither := range []bool{false, true} {
		out := im.Quantize(src, 16, dither)
		require.Equal(t, src.Bounds(), out.Bounds())

		colors := map[color.NRGBA]bool{}
		for y := range 32 {
			for x := range 32 {
				c := out.NRGBAAt(x, y)
				if y < 4 {
					assert.Equal(t, transparent, c, "dither=%v (%d,%d)", dither, x, y)
					continue
				}
				colors[c] = true
			}
		}
		assert.LessOrEqual(t, len(colors), 16, "dither=%v", dither)
	}
}

func TestQuantizeKeepsFewColors(t *testing.T) {
	src := solidImage(8, 8, red)
	for x := range 4 {
		src.SetNRGBA(x, 0, blue)
	}
	out := NewImaging().Quantize(src, MaxPaletteColors, false)
	assert.Equal(t, red, out.NRGBAAt(7, 7))
	assert.Equal(t, blue, out.NRGBAAt(0, 0))
}

func TestDecode(t *testing.T) {
	im := NewImaging()
	img, err := im.Decode(encodePNG(t, solidImage(3, 2, red)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = im.Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestDecodeAllStill(t *testing.T) {
	anim, err := NewImaging().DecodeAll(encodePNG(t, solidImage(3, 2, red)))
	require.NoError(t, err)
	assert.Len(t, anim.Frames, 1)
	assert.Equal(t, 1, anim.LoopCount)
}

func TestDecodeAllComposites(t *testing.T) {
	bounds := image.Rect(0, 0, 4, 4)
	data := encodeGIF(t, &gif.GIF{
		Image:     []*image.Paletted{palettedRect(bounds, 1), palettedRect(image.Rect(0, 0, 2, 2), 2)},
		Delay:     []int{10, 20},
		Disposal:  []byte{gif.DisposalNone, gif.DisposalNone},
		LoopCount: 2,
	})

	anim, err := NewImaging().DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, anim.Frames, 2)
	assert.Equal(t, []int{10, 20}, anim.Delays)
	assert.Equal(t, 3, anim.LoopCount)

	second := toNRGBA(anim.Frames[1])
	assert.Equal(t, bounds, second.Bounds())
	assert.Equal(t, blue, second.NRGBAAt(0, 0))
	assert.Equal(t, red, second.NRGBAAt(3, 3), "previous frame shows through")
	assert.Equal(t, red, toNRGBA(anim.Frames[0]).NRGBAAt(0, 0), "frames are independent copies")
}

func TestDecodeAllDisposalBackground(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image:    []*image.Paletted{palettedRect(image.Rect(0, 0, 2, 2), 1), palettedRect(image.Rect(2, 2, 4, 4), 2)},
		Delay:    []int{0, 0},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{ColorModel: gifPalette, Width: 4, Height: 4},
	})

	anim, err := NewImaging().DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, anim.Frames, 2)

	first, second := toNRGBA(anim.Frames[0]), toNRGBA(anim.Frames[1])
	assert.Equal(t, red, first.NRGBAAt(0, 0))
	assert.Zero(t, second.NRGBAAt(0, 0).A, "disposed to background")
	assert.Equal(t, blue, second.NRGBAAt(3, 3))
}

func TestGIFLoopCount(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0},
		{-1, 1},
		{1, 2},
		{4, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gifLoopCount(tt.in), "loop count %d", tt.in)
	}
}

func TestEncodeStill(t *testing.T) {
	img := noiseImage(9, 7)
	data, err := NewImaging().EncodeStill(img)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
