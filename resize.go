package termpix

import (
	"fmt"
	"image"
	"image/draw"
)

// ScaleMode defines how an image is fitted into its target box.
type ScaleMode int

const (
	// ScaleFit fits the image within bounds while maintaining aspect ratio,
	// padding the remainder with transparent pixels
	ScaleFit ScaleMode = iota
	// ScaleFill fills the bounds, cropping the overflow around the center
	ScaleFill
	// ScaleStretch stretches the image to fill bounds exactly
	ScaleStretch
	// ScaleNone performs no scaling, cropping to the bounds
	ScaleNone
)

var scaleModeNames = map[ScaleMode]string{
	ScaleFit:     "fit",
	ScaleFill:    "fill",
	ScaleStretch: "stretch",
	ScaleNone:    "none",
}

func (m ScaleMode) String() string {
	if name, ok := scaleModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ScaleMode(%d)", int(m))
}

// ParseScaleMode parses a scale mode name
func ParseScaleMode(s string) (ScaleMode, error) {
	for m, name := range scaleModeNames {
		if name == s {
			return m, nil
		}
	}
	return ScaleFit, fmt.Errorf("unknown scale mode %q", s)
}

// ScaleInto resizes img into a width x height pixel box according to mode
func ScaleInto(im Imaging, img image.Image, width, height int, mode ScaleMode, filter Filter) *image.NRGBA {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 || srcW <= 0 || srcH <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	}

	switch mode {
	case ScaleStretch:
		return im.Resize(img, width, height, filter)

	case ScaleFill:
		ratio := max(float64(width)/float64(srcW), float64(height)/float64(srcH))
		scaledW := max(int(float64(srcW)*ratio+0.5), width)
		scaledH := max(int(float64(srcH)*ratio+0.5), height)
		return CropCenter(im.Resize(img, scaledW, scaledH, filter), width, height)

	case ScaleNone:
		return padTopLeft(toNRGBA(img), width, height)

	default:
		ratio := min(float64(width)/float64(srcW), float64(height)/float64(srcH))
		fitW := min(max(int(float64(srcW)*ratio+0.5), 1), width)
		fitH := min(max(int(float64(srcH)*ratio+0.5), 1), height)
		return padTopLeft(im.Resize(img, fitW, fitH, filter), width, height)
	}
}

// padTopLeft places img at the origin of a transparent width x height canvas,
// cropping whatever does not fit
func padTopLeft(img *image.NRGBA, width, height int) *image.NRGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// CropCenter crops an image to target dimensions from the center
func CropCenter(img *image.NRGBA, targetWidth, targetHeight int) *image.NRGBA {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	if targetWidth >= srcW && targetHeight >= srcH {
		return img
	}
	targetWidth = min(targetWidth, srcW)
	targetHeight = min(targetHeight, srcH)

	offsetX := (srcW - targetWidth) / 2
	offsetY := (srcH - targetHeight) / 2

	cropped := image.NewNRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(cropped, cropped.Bounds(), img, bounds.Min.Add(image.Pt(offsetX, offsetY)), draw.Src)
	return cropped
}
