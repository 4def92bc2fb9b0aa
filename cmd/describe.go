// Copyright © 2020 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.


package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/will-rowe/sigsub/src/misc"
	"github.com/will-rowe/sigsub/src/signature"
)

// the describe command (used by cobra)
var describeCmd = &cobra.Command{
	Use:   "describe <sig>...",
	Short: "Print the sketches held in one or more signature files",
	Long:  `Print the sketches held in one or more signature files, one line per sketch.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDescribe(cmd.OutOrStdout(), args)
	},
}

func init() {
	RootCmd.AddCommand(describeCmd)
}

// runDescribe writes a table of sketches to w
func runDescribe(w io.Writer, files []string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "file\tname\tmolecule\tksize\tscaled\tnum\tsize\tabund\tmd5")
	for _, file := range files {
		if err := misc.CheckFile(file); err != nil {
			return err
		}
		sigs, err := signature.LoadFile(file)
		if err != nil {
			return err
		}
		for _, sig := range sigs {
			for _, mh := range sig.Sketches {
				fmt.Fprintf(tw, "%v\t%v\t%v\t%d\t%d\t%d\t%d\t%v\t%v\n", file, sig.DisplayName(), mh.HashFunction, mh.Ksize, mh.Scaled(), mh.Num, mh.Size(), mh.TrackAbundance(), mh.MD5Sum())
			}
		}
	}
	return tw.Flush()
}
