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
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blacktop/go-termpix"
)

var (
	clearImageID     int
	clearPlacementID int
	clearFree        bool
)

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().IntVar(&clearImageID, "id", 0, "Only delete this image id")
	clearCmd.Flags().IntVar(&clearPlacementID, "placement", 0, "Only delete this placement of --id")
	clearCmd.Flags().BoolVar(&clearFree, "free", false, "Also free the image data held by the terminal")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete kitty graphics from the screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if clearPlacementID > 0 && clearImageID == 0 {
			return errors.New("--placement requires --id")
		}
		out := termpix.DeleteGraphics(termpix.DeleteOptions{
			ImageID:     clearImageID,
			PlacementID: clearPlacementID,
			Free:        clearFree,
			Quiet:       cfg.Kitty.Quiet,
		})
		if termpix.InTmux() {
			termpix.EnableTmuxPassthrough()
			out = termpix.WrapPassthrough(out)
		}
		_, err := io.WriteString(os.Stdout, out)
		return err
	},
}
