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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blacktop/go-termpix"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show detected terminal capabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printInfo(os.Stdout, termpix.DefaultSession())
	},
}

func printInfo(w io.Writer, s *termpix.Session) error {
	terminal, known := s.Identify()
	cols, rows := s.WindowSize()
	caps := s.Capabilities()

	fmt.Fprintln(w, "Terminal:")
	fmt.Fprintf(w, "  Identity:     %s\n", terminal)
	fmt.Fprintf(w, "  Known:        %s\n", known)
	fmt.Fprintf(w, "  In tmux:      %v\n", termpix.InTmux())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Geometry:")
	fmt.Fprintf(w, "  Window:       %dx%d cells\n", cols, rows)
	fmt.Fprintf(w, "  Cell:         %s pixels\n", s.CellSize())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Probes:")
	fmt.Fprintf(w, "  Sixel:        %v\n", s.SixelSupported())
	fmt.Fprintf(w, "  Kitty:        %v\n", s.KittySupported())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Capabilities:   %s\n", caps)
	_, err := fmt.Fprintf(w, "Best protocol:  %s\n", caps.Best())
	return err
}
