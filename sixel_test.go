package termpix

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/mattn/go-sixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSixelSinglePixel(t *testing.T) {
	frame, err := EncodeSixel(solidImage(1, 1, red), 1)
	require.NoError(t, err)

	assert.Equal(t, "\x1bP0;1q\"1;1;1;1#0;2;0;0;0#1;2;100;0;0#1@$\x1b\\", frame.Text)
	assert.Contains(t, frame.Text, "#1;2;100;0;0")
	assert.Equal(t, 1, strings.Count(frame.Text, "#1@"))
	assert.NotContains(t, frame.Text, "#1!")
	assert.Equal(t, 1, frame.Height)
}

func TestEncodeSixelSolidColor(t *testing.T) {
	const width, height = 7, 13
	frame, err := EncodeSixel(solidImage(width, height, blue), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(frame.Text, "#1;2;0;0;100"), "one palette definition")
	assert.Equal(t, 2, strings.Count(frame.Text, ";2;"), "only the transparent and blue registers are defined")
	assert.Equal(t, height, strings.Count(frame.Text, "#1!7"), "one full-width run per pixel row")
	assert.Equal(t, height, strings.Count(frame.Text, "$"))
	assert.Equal(t, height/6, strings.Count(frame.Text, "-"))

	// the sixel symbol cycles through the six bits of each band
	body := frame.Text[strings.Index(frame.Text, "#1!7"):]
	for i, sym := range "@ACGO_@ACGO_@" {
		assert.Contains(t, body, "#1!7"+string(sym), "row %d", i)
	}
}

func TestEncodeSixelRuns(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	for x, c := range []color.NRGBA{red, red, blue, red, red} {
		img.SetNRGBA(x, 0, c)
	}

	frame, err := EncodeSixel(img, 1)
	require.NoError(t, err)
	assert.Contains(t, frame.Text, "#1;2;100;0;0#1!2@#2;2;0;0;100#2@#1!2@$")
}

func TestEncodeSixelTransparencyPrecedence(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 0})
	img.SetNRGBA(2, 0, red)

	frame, err := EncodeSixel(img, 1)
	require.NoError(t, err)

	assert.Contains(t, frame.Text, "#1@#0@#1@$")
	assert.Equal(t, 1, strings.Count(frame.Text, ";2;100;0;0"), "transparent red gets no register")
}

func TestEncodeSixelAlphaIsPartOfColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 128})

	frame, err := EncodeSixel(img, 1)
	require.NoError(t, err)
	assert.Contains(t, frame.Text, "#1;2;100;0;0#1@#2;2;100;0;0#2@")
}

func TestEncodeSixelIdempotent(t *testing.T) {
	img := noiseImage(16, 12)
	first, err := EncodeSixel(img, 1)
	require.NoError(t, err)
	second, err := EncodeSixel(img, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
}

func TestEncodeSixelEmpty(t *testing.T) {
	_, err := EncodeSixel(image.NewNRGBA(image.Rect(0, 0, 0, 4)), 1)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestEncodeSixelDefaultHeight(t *testing.T) {
	frame, err := EncodeSixel(solidImage(4, 41, red), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Height)
}

func TestSixelPercent(t *testing.T) {
	tests := []struct {
		in   uint8
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{128, 50},
		{254, 100},
		{255, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sixelPercent(tt.in), "channel %d", tt.in)
	}
}

func TestEncodeSixelDecodes(t *testing.T) {
	frame, err := EncodeSixel(solidImage(12, 12, red), 1)
	require.NoError(t, err)

	var img image.Image
	require.NoError(t, sixel.NewDecoder(bytes.NewReader([]byte(frame.Text))).Decode(&img))
	require.NotNil(t, img)
	assert.Equal(t, 12, img.Bounds().Dx())
}
