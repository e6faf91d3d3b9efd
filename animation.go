package termpix

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/x/ansi"
)

// DefaultFrameDelay is used when the source reports no frame delay
const DefaultFrameDelay = time.Second

// AnimationSequence is a list of encoded frames played in place.
type AnimationSequence struct {
	Frames []EncodedFrame
	// Delay is the pause after each frame
	Delay time.Duration
	// LoopCount is the number of times to play, 0 meaning forever
	LoopCount int
	// Height is the tallest frame in character rows
	Height int
}

// FrameDelay converts a delay in hundredths of a second to a duration
func FrameDelay(centiseconds int) time.Duration {
	if centiseconds <= 0 {
		return DefaultFrameDelay
	}
	return time.Duration(centiseconds*10) * time.Millisecond
}

// BuildSequence encodes every frame with encode. The sequence uses the first
// frame's delay for all frames.
func BuildSequence(frames []image.Image, delays []int, loopCount int, encode func(image.Image) (EncodedFrame, error)) (AnimationSequence, error) {
	if len(frames) == 0 {
		return AnimationSequence{}, ErrNoAnimation
	}

	seq := AnimationSequence{
		Frames:    make([]EncodedFrame, 0, len(frames)),
		Delay:     DefaultFrameDelay,
		LoopCount: max(loopCount, 0),
	}
	if len(delays) > 0 {
		seq.Delay = FrameDelay(delays[0])
	}

	for i, frame := range frames {
		encoded, err := encode(frame)
		if err != nil {
			return AnimationSequence{}, fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
		seq.Frames = append(seq.Frames, encoded)
		seq.Height = max(seq.Height, encoded.Height)
	}
	return seq, nil
}

// Play draws the frames of seq over each other at the current cursor position.
//
// The cursor is hidden while playing. ctx is checked between frames; on
// cancellation Play returns ctx.Err() with the cursor shown again and moved
// below the image.
func Play(ctx context.Context, w io.Writer, seq AnimationSequence) (err error) {
	if len(seq.Frames) == 0 {
		return ErrNoAnimation
	}
	delay := seq.Delay
	if delay <= 0 {
		delay = DefaultFrameDelay
	}

	if _, err := io.WriteString(w, ansi.HideCursor+ansi.SaveCursor); err != nil {
		return fmt.Errorf("failed to prepare cursor: %w", err)
	}
	defer func() {
		tail := ansi.RestoreCursor
		if seq.Height > 0 {
			tail += ansi.CursorDown(seq.Height)
		}
		tail += "\r" + ansi.ShowCursor
		if _, werr := io.WriteString(w, tail); werr != nil && err == nil {
			err = fmt.Errorf("failed to restore cursor: %w", werr)
		}
	}()

	for loop := 0; seq.LoopCount == 0 || loop < seq.LoopCount; loop++ {
		for i, frame := range seq.Frames {
			if err := ctx.Err(); err != nil {
				log.WithFields(log.Fields{"loop": loop, "frame": i}).Debug("animation cancelled")
				return err
			}
			if _, err := io.WriteString(w, ansi.RestoreCursor+frame.Text); err != nil {
				return fmt.Errorf("failed to write frame %d: %w", i, err)
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil
}
