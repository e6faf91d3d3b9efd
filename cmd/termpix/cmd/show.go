/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blacktop/go-termpix"
)

// showFlags are the command line overrides of Config
type showFlags struct {
	width           int
	height          int
	protocol        string
	scale           string
	filter          string
	colors          int
	dither          bool
	force           bool
	compress        bool
	imageID         int
	zIndex          int
	doNotMoveCursor bool
	animate         bool
}

var show showFlags

func init() {
	rootCmd.AddCommand(showCmd)
	f := showCmd.Flags()
	f.IntVarP(&show.width, "width", "W", 0, "Width in character cells")
	f.IntVarP(&show.height, "height", "H", 0, "Height in character cells")
	f.StringVarP(&show.protocol, "protocol", "p", "auto", "Protocol (auto, sixel, kitty, iterm2, halfblocks, braille)")
	f.StringVarP(&show.scale, "scale", "s", "fit", "Scale mode (fit, fill, stretch, none)")
	f.StringVar(&show.filter, "filter", "bicubic", "Resampling filter (bicubic, catmullrom, bilinear, nearest)")
	f.IntVar(&show.colors, "colors", termpix.MaxPaletteColors, "Sixel palette size")
	f.BoolVarP(&show.dither, "dither", "d", false, "Dither when reducing colors")
	f.BoolVarP(&show.force, "force", "f", false, "Use the protocol even if the terminal does not advertise it")
	f.BoolVarP(&show.compress, "compress", "z", false, "Compress kitty transmissions")
	f.IntVar(&show.imageID, "id", 0, "Kitty image id")
	f.IntVar(&show.zIndex, "z-index", 0, "Kitty z-index")
	f.BoolVar(&show.doNotMoveCursor, "no-move", false, "Leave the cursor where the image starts")
	f.BoolVarP(&show.animate, "animate", "a", false, "Play animated GIFs (sixel only, Ctrl-C to stop)")
}

var showCmd = &cobra.Command{
	Use:   "show <image>",
	Short: "Display an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		protocol, opts, err := resolveOptions(cfg, show, cmd.Flags().Changed)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		log.WithFields(log.Fields{
			"path": args[0],
			"size": humanize.Bytes(uint64(len(data))),
		}).Debug("loaded image")

		if termpix.InTmux() {
			termpix.EnableTmuxPassthrough()
			opts.Passthrough = true
		}

		s := termpix.DefaultSession()
		if show.animate {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return animate(ctx, s, data, opts, os.Stdout)
		}

		img, err := s.Imaging().Decode(data)
		if err != nil {
			return err
		}

		start := time.Now()
		frame, err := s.Encode(protocol, img, opts)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"rows":    frame.Height,
			"output":  humanize.Bytes(uint64(len(frame.Text))),
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Debug("encoded image")

		return writeFrame(os.Stdout, frame, opts.Kitty.DoNotMoveCursor)
	},
}

// resolveOptions layers changed command line flags over the config
func resolveOptions(cfg *Config, f showFlags, changed func(string) bool) (termpix.Protocol, termpix.EncodeOptions, error) {
	protocolName, scaleName, filterName := cfg.Protocol, cfg.Scale, cfg.Filter
	colors, dither, force, compress := cfg.Colors, cfg.Dither, cfg.Force, cfg.Kitty.Compress
	zIndex := cfg.Kitty.ZIndex

	if changed("protocol") {
		protocolName = f.protocol
	}
	if changed("scale") {
		scaleName = f.scale
	}
	if changed("filter") {
		filterName = f.filter
	}
	if changed("colors") {
		colors = f.colors
	}
	if changed("dither") {
		dither = f.dither
	}
	if changed("force") {
		force = f.force
	}
	if changed("compress") {
		compress = f.compress
	}
	if changed("z-index") {
		zIndex = f.zIndex
	}

	protocol, err := termpix.ParseProtocol(protocolName)
	if err != nil {
		return termpix.Auto, termpix.EncodeOptions{}, err
	}
	scale, err := termpix.ParseScaleMode(scaleName)
	if err != nil {
		return termpix.Auto, termpix.EncodeOptions{}, err
	}
	filter, err := termpix.ParseFilter(filterName)
	if err != nil {
		return termpix.Auto, termpix.EncodeOptions{}, err
	}
	if f.width < 0 || f.height < 0 {
		return termpix.Auto, termpix.EncodeOptions{}, fmt.Errorf("invalid size %dx%d", f.width, f.height)
	}

	return protocol, termpix.EncodeOptions{
		Size:   termpix.TargetCellSize{Width: f.width, Height: f.height},
		Scale:  scale,
		Filter: filter,
		Force:  force,
		Colors: colors,
		Dither: dither,
		Kitty: termpix.KittyOptions{
			ImageID:         f.imageID,
			Compress:        compress,
			Quiet:           cfg.Kitty.Quiet,
			ZIndex:          zIndex,
			DoNotMoveCursor: f.doNotMoveCursor,
		},
		ITerm2: termpix.ITerm2Options{
			PreserveAspectRatio: scale == termpix.ScaleFit,
			DoNotMoveCursor:     f.doNotMoveCursor,
		},
	}, nil
}

// writeFrame writes the frame, either leaving the cursor below the image or
// restoring it to where the image starts
func writeFrame(w io.Writer, frame termpix.EncodedFrame, doNotMoveCursor bool) error {
	out := frame.Text + "\n"
	if doNotMoveCursor {
		out = ansi.SaveCursor + frame.Text + ansi.RestoreCursor
	}
	_, err := io.WriteString(w, out)
	return err
}

func animate(ctx context.Context, s *termpix.Session, data []byte, opts termpix.EncodeOptions, w io.Writer) error {
	anim, err := s.Imaging().DecodeAll(data)
	if err != nil {
		return err
	}
	seq, err := s.EncodeAnimation(anim, opts)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"frames": len(seq.Frames),
		"delay":  seq.Delay,
		"loops":  seq.LoopCount,
	}).Debug("playing animation")

	if err := termpix.Play(ctx, w, seq); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
