package termpix

import "fmt"

// DefaultCellSize is used whenever the terminal does not report its cell geometry
var DefaultCellSize = CellSize{Width: 10, Height: 20}

// CellSize is the size of one terminal character cell in pixels.
type CellSize struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive
func (c CellSize) Valid() bool {
	return c.Width > 0 && c.Height > 0
}

// AspectRatio returns Width/Height
func (c CellSize) AspectRatio() float64 {
	if c.Height == 0 {
		return 0
	}
	return float64(c.Width) / float64(c.Height)
}

func (c CellSize) String() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}

// TargetCellSize is an image size in character cells. Zero on both axes means natural size.
type TargetCellSize struct {
	Width  int
	Height int
}

// IsZero reports whether no size was requested
func (t TargetCellSize) IsZero() bool {
	return t.Width == 0 && t.Height == 0
}

// Pixels converts the cell box to pixels for the given cell geometry
func (t TargetCellSize) Pixels(cell CellSize) (width, height int) {
	return t.Width * cell.Width, t.Height * cell.Height
}

func (t TargetCellSize) String() string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}

// EncodedFrame is escape sequence text ready to be written to the terminal.
type EncodedFrame struct {
	Text string
	// Height is the number of character rows the frame occupies
	Height int
}
