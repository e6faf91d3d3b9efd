package termpix

import (
	"image"
	"strconv"
	"strings"
)

const (
	kittyStart = "\x1b_G"
	kittyEnd   = "\x1b\\"
)

// KittyOptions controls a kitty graphics transmission.
type KittyOptions struct {
	// ImageID and PlacementID identify the image; 0 leaves them unassigned
	ImageID     int
	PlacementID int
	// Compress wraps the PNG payload in a zlib stream (o=z)
	Compress bool
	// Quiet suppresses terminal responses: 1 hides OK replies, 2 hides errors too
	Quiet int
	ZIndex int
	// XOffset and YOffset are pixel offsets within the first cell
	XOffset int
	YOffset int
	// Columns and Rows size the placement in cells
	Columns int
	Rows    int
	// PreserveAspect sends only the column count when both are set so the
	// terminal derives rows from the image
	PreserveAspect bool
	// DoNotMoveCursor asks the caller to restore the cursor after writing the
	// image; the transmission itself is unaffected
	DoNotMoveCursor bool
}

// EncodeKitty transmits img as PNG over one or more kitty graphics frames.
// Every frame carries at most KittyChunkSize base64 characters; the first one
// carries all control keys and each carries m=1 except the last.
func EncodeKitty(im Imaging, img image.Image, opts KittyOptions) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyOutput
	}
	if im == nil {
		im = NewImaging()
	}

	payload, err := im.EncodeStill(img)
	if err != nil {
		return "", err
	}
	if opts.Compress {
		if payload, err = zlibWrap(payload); err != nil {
			return "", err
		}
	}

	chunks := ParallelBase64Encode(payload)
	if len(chunks) == 0 {
		return "", ErrEmptyOutput
	}

	var sb strings.Builder
	sb.Grow(len(chunks) * (KittyChunkSize + 16))
	for i, chunk := range chunks {
		sb.WriteString(kittyStart)
		if i == 0 {
			sb.WriteString(opts.controlKeys())
			sb.WriteByte(',')
		}
		if i < len(chunks)-1 {
			sb.WriteString("m=1;")
		} else {
			sb.WriteString("m=0;")
		}
		sb.WriteString(chunk)
		sb.WriteString(kittyEnd)
	}
	return sb.String(), nil
}

// controlKeys renders the first frame's keys in a fixed order
func (o KittyOptions) controlKeys() string {
	keys := []string{"a=T", "f=100"}
	if o.Compress {
		keys = append(keys, "o=z")
	}
	if o.ImageID > 0 {
		keys = append(keys, "i="+strconv.Itoa(o.ImageID))
	}
	if o.PlacementID > 0 {
		keys = append(keys, "p="+strconv.Itoa(o.PlacementID))
	}
	keys = append(keys, "q="+strconv.Itoa(min(max(o.Quiet, 0), 2)))
	if o.ZIndex != 0 {
		keys = append(keys, "z="+strconv.Itoa(o.ZIndex))
	}
	if o.XOffset > 0 {
		keys = append(keys, "X="+strconv.Itoa(o.XOffset))
	}
	if o.YOffset > 0 {
		keys = append(keys, "Y="+strconv.Itoa(o.YOffset))
	}
	if o.Columns > 0 {
		keys = append(keys, "c="+strconv.Itoa(o.Columns))
	}
	if o.Rows > 0 && !(o.PreserveAspect && o.Columns > 0) {
		keys = append(keys, "r="+strconv.Itoa(o.Rows))
	}
	return strings.Join(keys, ",")
}

// Delete modes for DeleteOptions.Mode
const (
	DeleteAll       = 'a' // all placements visible on screen
	DeleteByID      = 'i' // by image id, optionally one placement
	DeleteAtCursor  = 'c' // placements intersecting the cursor
	DeleteByZIndex  = 'z' // placements with a given z-index
	DeleteAnimation = 'f' // animation frames
)

// DeleteOptions selects kitty graphics to remove.
type DeleteOptions struct {
	// Mode is one of the Delete* constants, DeleteAll when zero or DeleteByID
	// when zero and ImageID is set
	Mode        byte
	ImageID     int
	PlacementID int
	// Free also releases the image data held by the terminal (upper-case mode)
	Free  bool
	Quiet int
}

// DeleteGraphics returns the kitty command removing the selected images
func DeleteGraphics(opts DeleteOptions) string {
	mode := opts.Mode
	if mode == 0 {
		mode = DeleteAll
		if opts.ImageID > 0 {
			mode = DeleteByID
		}
	}
	mode = toLower(mode)
	if opts.Free {
		mode -= 'a' - 'A'
	}

	var sb strings.Builder
	sb.WriteString(kittyStart)
	sb.WriteString("a=d,d=")
	sb.WriteByte(mode)
	if opts.ImageID > 0 {
		sb.WriteString(",i=")
		sb.WriteString(strconv.Itoa(opts.ImageID))
	}
	if opts.PlacementID > 0 {
		sb.WriteString(",p=")
		sb.WriteString(strconv.Itoa(opts.PlacementID))
	}
	sb.WriteString(",q=")
	sb.WriteString(strconv.Itoa(min(max(opts.Quiet, 0), 2)))
	sb.WriteString(kittyEnd)
	return sb.String()
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
