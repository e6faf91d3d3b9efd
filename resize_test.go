package termpix

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScaleMode(t *testing.T) {
	tests := []struct {
		name    string
		want    ScaleMode
		wantErr bool
	}{
		{"fit", ScaleFit, false},
		{"fill", ScaleFill, false},
		{"stretch", ScaleStretch, false},
		{"none", ScaleNone, false},
		{"zoom", ScaleFit, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScaleMode(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestScaleInto(t *testing.T) {
	im := NewImaging()
	wide := solidImage(100, 50, red)

	t.Run("fit pads the remainder", func(t *testing.T) {
		out := ScaleInto(im, wide, 20, 20, ScaleFit, FilterNearest)
		require.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
		assert.Equal(t, red, out.NRGBAAt(0, 0))
		assert.Equal(t, red, out.NRGBAAt(19, 9))
		assert.Zero(t, out.NRGBAAt(0, 10).A)
		assert.Zero(t, out.NRGBAAt(19, 19).A)
	})

	t.Run("fill covers the box", func(t *testing.T) {
		out := ScaleInto(im, wide, 20, 20, ScaleFill, FilterNearest)
		require.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
		for _, p := range []image.Point{{0, 0}, {19, 19}, {0, 19}, {19, 0}} {
			assert.Equal(t, red, out.NRGBAAt(p.X, p.Y), p.String())
		}
	})

	t.Run("stretch", func(t *testing.T) {
		out := ScaleInto(im, wide, 30, 7, ScaleStretch, FilterBilinear)
		assert.Equal(t, image.Rect(0, 0, 30, 7), out.Bounds())
	})

	t.Run("none crops and pads", func(t *testing.T) {
		src := solidImage(4, 4, blue)
		out := ScaleInto(im, src, 8, 2, ScaleNone, FilterBicubic)
		require.Equal(t, image.Rect(0, 0, 8, 2), out.Bounds())
		assert.Equal(t, blue, out.NRGBAAt(3, 1))
		assert.Zero(t, out.NRGBAAt(4, 0).A)
	})

	t.Run("empty box", func(t *testing.T) {
		out := ScaleInto(im, wide, 0, 10, ScaleFit, FilterBicubic)
		assert.True(t, out.Bounds().Empty())
	})
}

func TestCropCenter(t *testing.T) {
	src := solidImage(10, 10, red)
	src.SetNRGBA(5, 5, blue)

	out := CropCenter(src, 2, 2)
	require.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, blue, out.NRGBAAt(1, 1))

	assert.Same(t, src, CropCenter(src, 20, 20))
}
