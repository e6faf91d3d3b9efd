/*
Package termpix converts raster images into terminal escape sequences so they can
be displayed inline in a text terminal.

Supported encodings are sixel, the kitty graphics protocol, iTerm2 inline images,
and two glyph approximations (half blocks and braille) that work everywhere.

A Session owns the connection to one terminal. It identifies the terminal from the
environment, probes it for its cell size in pixels and for sixel and kitty support,
and memoizes the answers until the window is resized.

Basic Usage:

	// Simple one-liner
	out, err := termpix.RenderFile("image.png")

	// With configuration
	img, err := termpix.Open("image.png")
	if err != nil {
	    log.Fatal(err)
	}
	err = img.Width(40).Protocol(termpix.Sixel).Print()

Sessions:

	s := termpix.NewSession()
	fmt.Println(s.Capabilities()) // e.g. "sixel,halfblocks,braille"

	frame, err := s.Encode(termpix.Auto, img, termpix.EncodeOptions{
	    Size: termpix.TargetCellSize{Width: 40},
	})
	os.Stdout.WriteString(frame.Text)

Animations:

	anim, _ := s.Imaging().DecodeAll(gifBytes)
	seq, _ := s.EncodeAnimation(anim, termpix.EncodeOptions{})
	termpix.Play(ctx, os.Stdout, seq)

Set TERMPIX_PROTOCOL to add a protocol the terminal is not known to support.
*/
package termpix
