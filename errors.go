package termpix

import "errors"

var (
	// ErrUnsupportedProtocol is returned when the requested protocol is not in the
	// terminal's capability set and the caller did not force it
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
	// ErrEmptyOutput is returned when encoding produced nothing to draw
	ErrEmptyOutput = errors.New("encoding produced empty output")
	// ErrNoAnimation is returned when an animation has no frames
	ErrNoAnimation = errors.New("animation has no frames")
)
