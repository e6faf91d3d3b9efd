package termpix

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/nfnt/resize"
	"github.com/soniakeys/quant/median"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPaletteColors is the largest sixel palette; index 0 is reserved for transparency
const MaxPaletteColors = 255

// Filter is a resampling filter.
type Filter int

const (
	// FilterBicubic is the default filter
	FilterBicubic Filter = iota
	FilterCatmullRom
	FilterBilinear
	FilterNearest
)

var filterNames = map[Filter]string{
	FilterBicubic:    "bicubic",
	FilterCatmullRom: "catmullrom",
	FilterBilinear:   "bilinear",
	FilterNearest:    "nearest",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter parses a filter name
func ParseFilter(s string) (Filter, error) {
	for f, name := range filterNames {
		if name == s {
			return f, nil
		}
	}
	return FilterBicubic, fmt.Errorf("unknown filter %q", s)
}

// DecodedAnimation holds the fully composited frames of an animated image.
type DecodedAnimation struct {
	Frames []image.Image
	// Delays are per frame, in hundredths of a second
	Delays []int
	// LoopCount is the number of times to play, 0 meaning forever
	LoopCount int
}

// Imaging is the image library capability the encoders rely on.
type Imaging interface {
	// Decode decodes a still image (or the first frame of an animation)
	Decode(data []byte) (image.Image, error)
	// DecodeAll decodes every frame of an animated image
	DecodeAll(data []byte) (*DecodedAnimation, error)
	// Resize scales img to exactly width x height pixels
	Resize(img image.Image, width, height int, filter Filter) *image.NRGBA
	// Quantize reduces img to at most maxColors opaque colors, keeping fully
	// transparent pixels transparent
	Quantize(img image.Image, maxColors int, dither bool) *image.NRGBA
	// EncodeStill serializes img into a lossless still image container (PNG)
	EncodeStill(img image.Image) ([]byte, error)
}

// DefaultImaging implements Imaging with nfnt/resize, x/image and median cut quantization.
type DefaultImaging struct {
	pngEncoder png.Encoder
}

// NewImaging returns the default Imaging implementation
func NewImaging() *DefaultImaging {
	return &DefaultImaging{
		pngEncoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// Decode implements Imaging
func (d *DefaultImaging) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// DecodeAll implements Imaging. Non-GIF input yields a single frame that plays once.
func (d *DefaultImaging) DecodeAll(data []byte) (*DecodedAnimation, error) {
	if !bytes.HasPrefix(data, []byte("GIF8")) {
		img, err := d.Decode(data)
		if err != nil {
			return nil, err
		}
		return &DecodedAnimation{Frames: []image.Image{img}, Delays: []int{0}, LoopCount: 1}, nil
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoAnimation
	}

	return &DecodedAnimation{
		Frames:    compositeGIF(g),
		Delays:    g.Delay,
		LoopCount: gifLoopCount(g.LoopCount),
	}, nil
}

// gifLoopCount converts the GIF loop extension to a play count.
// GIF uses 0 for forever, -1 for a single play and n for n repeats after the first.
func gifLoopCount(n int) int {
	switch {
	case n == 0:
		return 0
	case n < 0:
		return 1
	default:
		return n + 1
	}
}

// compositeGIF renders each GIF frame onto the logical screen, honoring disposal
// methods, so every returned frame is a full picture
func compositeGIF(g *gif.GIF) []image.Image {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
		for _, frame := range g.Image[1:] {
			bounds = bounds.Union(frame.Bounds())
		}
	}

	canvas := image.NewNRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, cloneNRGBA(canvas))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames
}

// Resize implements Imaging. The source is converted to non-premultiplied
// NRGBA before scaling and every channel is filtered independently, so color at
// a transparent edge blends toward the RGB of the transparent pixels.
func (d *DefaultImaging) Resize(img image.Image, width, height int, filter Filter) *image.NRGBA {
	src := toNRGBA(img)
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	}
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}

	var scaler xdraw.Scaler
	switch filter {
	case FilterCatmullRom:
		scaler = xdraw.CatmullRom
	case FilterBilinear:
		scaler = xdraw.ApproxBiLinear
	case FilterNearest:
		scaler = xdraw.NearestNeighbor
	default:
		return bicubicNRGBA(src, width, height)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// bicubicNRGBA hands nfnt the NRGBA bytes labelled as RGBA. nfnt converts any
// other input to premultiplied color, while *image.RGBA is filtered as is.
func bicubicNRGBA(src *image.NRGBA, width, height int) *image.NRGBA {
	view := &image.RGBA{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect}
	out := resize.Resize(uint(width), uint(height), view, resize.Bicubic)
	if rgba, ok := out.(*image.RGBA); ok {
		return &image.NRGBA{Pix: rgba.Pix, Stride: rgba.Stride, Rect: rgba.Rect}
	}
	return toNRGBA(out)
}

// Quantize implements Imaging
func (d *DefaultImaging) Quantize(img image.Image, maxColors int, dither bool) *image.NRGBA {
	src := toNRGBA(img)
	if src.Bounds().Empty() {
		return src
	}
	maxColors = min(max(maxColors, 2), MaxPaletteColors)

	palette := median.Quantizer(maxColors).Palette(src).ColorPalette()
	if len(palette) == 0 {
		return src
	}

	var mapped image.Image
	if dither {
		mapped = ditherCopy(src, palette)
	} else {
		p := image.NewPaletted(src.Bounds(), palette)
		draw.Draw(p, p.Bounds(), src, src.Bounds().Min, draw.Src)
		mapped = p
	}

	out := toNRGBA(mapped)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.NRGBAAt(x, y).A == 0 {
				out.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{})
			}
		}
	}
	return out
}

// ditherCopy maps src onto palette with Floyd-Steinberg error diffusion
func ditherCopy(src image.Image, palette color.Palette) image.Image {
	d := dither.NewDitherer(palette)
	d.Matrix = dither.FloydSteinberg
	return d.DitherCopy(src)
}

// EncodeStill implements Imaging
func (d *DefaultImaging) EncodeStill(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pngEncoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// toNRGBA returns img as an NRGBA image whose bounds start at the origin
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	return dst
}
