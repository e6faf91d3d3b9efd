package termpix

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
)

// Image represents a terminal image with a fluent API for configuration
type Image struct {
	source image.Image
	data   []byte
	reader io.Reader
	path   string

	session  *Session
	protocol Protocol
	opts     EncodeOptions
}

// New creates a new Image from an image.Image
func New(img image.Image) *Image {
	if img == nil {
		return nil
	}
	return &Image{source: img}
}

// Open creates a new Image from a file path. The file is read on first render.
func Open(path string) (*Image, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	return &Image{path: path}, nil
}

// From creates a new Image from an io.Reader
func From(r io.Reader) *Image {
	if r == nil {
		return nil
	}
	return &Image{reader: r}
}

// FromBytes creates a new Image from encoded image bytes
func FromBytes(data []byte) *Image {
	return &Image{data: data}
}

// Session sets the terminal session, DefaultSession when unset
func (i *Image) Session(s *Session) *Image {
	i.session = s
	return i
}

// Width sets the target width in character cells
func (i *Image) Width(w int) *Image {
	i.opts.Size.Width = max(w, 0)
	return i
}

// Height sets the target height in character cells
func (i *Image) Height(h int) *Image {
	i.opts.Size.Height = max(h, 0)
	return i
}

// Size sets both width and height in character cells
func (i *Image) Size(w, h int) *Image {
	return i.Width(w).Height(h)
}

// Protocol sets the rendering protocol to use
func (i *Image) Protocol(p Protocol) *Image {
	i.protocol = p
	return i
}

// Scale sets the scaling mode
func (i *Image) Scale(mode ScaleMode) *Image {
	i.opts.Scale = mode
	return i
}

// Filter sets the resampling filter
func (i *Image) Filter(f Filter) *Image {
	i.opts.Filter = f
	return i
}

// Dither enables error diffusion when reducing colors
func (i *Image) Dither(d bool) *Image {
	i.opts.Dither = d
	return i
}

// Colors caps the sixel palette size
func (i *Image) Colors(n int) *Image {
	i.opts.Colors = n
	return i
}

// Force encodes with the configured protocol even if the terminal does not support it
func (i *Image) Force(f bool) *Image {
	i.opts.Force = f
	return i
}

// Passthrough wraps graphics output for tmux
func (i *Image) Passthrough(p bool) *Image {
	i.opts.Passthrough = p
	return i
}

// Options replaces every encode option at once
func (i *Image) Options(opts EncodeOptions) *Image {
	i.opts = opts
	return i
}

// Render generates the escape sequence string for the image
func (i *Image) Render() (string, error) {
	frame, err := i.Encode()
	if err != nil {
		return "", err
	}
	return frame.Text, nil
}

// Encode generates the escape sequence and the number of rows it occupies
func (i *Image) Encode() (EncodedFrame, error) {
	img, err := i.load()
	if err != nil {
		return EncodedFrame{}, err
	}
	return i.getSession().Encode(i.protocol, img, i.opts)
}

// Print writes the image to stdout
func (i *Image) Print() error {
	return i.Write(os.Stdout)
}

// Write writes the image to w
func (i *Image) Write(w io.Writer) error {
	out, err := i.Render()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Animate plays an animated image on w until it finishes or ctx is cancelled.
// The image must come from encoded bytes, a file or a reader.
func (i *Image) Animate(ctx context.Context, w io.Writer) error {
	if err := i.readData(); err != nil {
		return err
	}
	if i.data == nil {
		return ErrNoAnimation
	}
	s := i.getSession()
	anim, err := s.Imaging().DecodeAll(i.data)
	if err != nil {
		return err
	}
	seq, err := s.EncodeAnimation(anim, i.opts)
	if err != nil {
		return err
	}
	return Play(ctx, w, seq)
}

func (i *Image) getSession() *Session {
	if i.session == nil {
		i.session = DefaultSession()
	}
	return i.session
}

// readData loads the raw bytes of file and reader sources
func (i *Image) readData() error {
	if i.data != nil {
		return nil
	}
	switch {
	case i.path != "":
		data, err := os.ReadFile(i.path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		i.data = data
	case i.reader != nil:
		data, err := io.ReadAll(i.reader)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		i.data = data
	}
	return nil
}

// load decodes the image from the configured source
func (i *Image) load() (image.Image, error) {
	if i.source != nil {
		return i.source, nil
	}
	if err := i.readData(); err != nil {
		return nil, err
	}
	if i.data == nil {
		return nil, errors.New("no image source configured")
	}

	img, err := i.getSession().Imaging().Decode(i.data)
	if err != nil {
		return nil, err
	}
	i.source = img
	return img, nil
}

// Render renders an image with default settings
func Render(img image.Image) (string, error) {
	if img == nil {
		return "", errors.New("image cannot be nil")
	}
	return New(img).Render()
}

// RenderFile renders an image file with default settings
func RenderFile(path string) (string, error) {
	img, err := Open(path)
	if err != nil {
		return "", err
	}
	return img.Render()
}

// Print prints an image with default settings
func Print(img image.Image) error {
	if img == nil {
		return errors.New("image cannot be nil")
	}
	return New(img).Print()
}
