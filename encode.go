package termpix

import (
	"fmt"
	"image"

	"github.com/apex/log"
)

// EncodeOptions controls Session.Encode.
type EncodeOptions struct {
	// Size is the requested size in cells; zero on an axis derives it
	Size   TargetCellSize
	Scale  ScaleMode
	Filter Filter
	// Force encodes with the requested protocol even if the terminal does not
	// advertise it
	Force bool
	// Colors caps the sixel palette, MaxPaletteColors when zero
	Colors int
	// Dither applies error diffusion when reducing colors
	Dither bool
	// Passthrough wraps graphics sequences for tmux
	Passthrough bool

	Kitty  KittyOptions
	ITerm2 ITerm2Options
	Glyph  GlyphOptions
}

// ResolveProtocol picks the protocol to encode with. Auto selects the best one
// the terminal supports; any other protocol must be supported unless force is set.
func (s *Session) ResolveProtocol(p Protocol, force bool) (Protocol, error) {
	if p != Auto && force {
		return p, nil
	}
	caps := s.Capabilities()
	if p == Auto {
		return caps.Best(), nil
	}
	if !caps.Contains(p) {
		terminal, _ := s.Identify()
		return p, fmt.Errorf("%w: %s is not supported by %s (supports %s)", ErrUnsupportedProtocol, p, terminal, caps)
	}
	return p, nil
}

// Encode converts img into escape sequence text for protocol p
func (s *Session) Encode(p Protocol, img image.Image, opts EncodeOptions) (EncodedFrame, error) {
	if img == nil {
		return EncodedFrame{}, ErrEmptyOutput
	}
	p, err := s.ResolveProtocol(p, opts.Force)
	if err != nil {
		return EncodedFrame{}, err
	}

	b := img.Bounds()
	size := s.ResolveSize(b.Dx(), b.Dy(), opts.Size)
	if size.IsZero() {
		return EncodedFrame{}, ErrEmptyOutput
	}

	log.WithFields(log.Fields{
		"protocol": p.String(),
		"source":   fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"cells":    size.String(),
	}).Debug("encoding image")

	return s.encodeFrame(p, img, size, opts)
}

// EncodeAnimation encodes every frame of anim with the sixel encoder, the only
// protocol animations are played with
func (s *Session) EncodeAnimation(anim *DecodedAnimation, opts EncodeOptions) (AnimationSequence, error) {
	if anim == nil || len(anim.Frames) == 0 {
		return AnimationSequence{}, ErrNoAnimation
	}
	if _, err := s.ResolveProtocol(Sixel, opts.Force); err != nil {
		return AnimationSequence{}, err
	}

	b := anim.Frames[0].Bounds()
	size := s.ResolveSize(b.Dx(), b.Dy(), opts.Size)
	if size.IsZero() {
		return AnimationSequence{}, ErrEmptyOutput
	}

	log.WithFields(log.Fields{
		"frames": len(anim.Frames),
		"loops":  anim.LoopCount,
		"cells":  size.String(),
	}).Debug("encoding animation")

	return BuildSequence(anim.Frames, anim.Delays, anim.LoopCount, func(frame image.Image) (EncodedFrame, error) {
		return s.encodeFrame(Sixel, frame, size, opts)
	})
}

// encodeFrame scales img into the pixel box of size and runs the encoder for p
func (s *Session) encodeFrame(p Protocol, img image.Image, size TargetCellSize, opts EncodeOptions) (EncodedFrame, error) {
	im := s.imaging
	cell := s.CellSize()
	width, height := size.Pixels(cell)

	var (
		frame EncodedFrame
		err   error
	)
	switch p {
	case Sixel:
		colors := opts.Colors
		if colors <= 0 {
			colors = MaxPaletteColors
		}
		scaled := ScaleInto(im, img, width, alignBand(height), opts.Scale, opts.Filter)
		frame, err = EncodeSixel(im.Quantize(scaled, colors, opts.Dither), size.Height)

	case Kitty:
		ko := opts.Kitty
		if ko.Columns == 0 && ko.Rows == 0 {
			ko.Columns, ko.Rows = size.Width, size.Height
		}
		frame.Height = size.Height
		frame.Text, err = EncodeKitty(im, ScaleInto(im, img, width, height, opts.Scale, opts.Filter), ko)

	case ITerm2:
		io2 := opts.ITerm2
		if io2.Columns == 0 && io2.Rows == 0 {
			io2.Columns, io2.Rows = size.Width, size.Height
		}
		frame.Height = size.Height
		frame.Text, err = EncodeITerm2(im, ScaleInto(im, img, width, height, opts.Scale, opts.Filter), io2)

	case Halfblocks:
		frame, err = EncodeHalfblocks(ScaleInto(im, img, size.Width, size.Height*2, opts.Scale, opts.Filter), opts.Glyph)

	case Braille:
		frame, err = EncodeBraille(ScaleInto(im, img, size.Width*2, size.Height*4, opts.Scale, opts.Filter), opts.Glyph)

	default:
		return EncodedFrame{}, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, p)
	}
	if err != nil {
		return EncodedFrame{}, err
	}
	if frame.Text == "" {
		return EncodedFrame{}, ErrEmptyOutput
	}

	if opts.Passthrough && !p.IsGlyph() {
		frame.Text = WrapPassthrough(frame.Text)
	}
	return frame, nil
}
