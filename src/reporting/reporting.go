// Package reporting summarises a subtract run and plots how much of each target survived.
package reporting

import (
	"fmt"
	"io"

	"github.com/will-rowe/sigsub/src/minhash"
	"github.com/will-rowe/sigsub/src/pipeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// defaultBins is the number of histogram bins used for the retained fraction plot
const defaultBins = 20

// Summary holds the totals for a batch
type Summary struct {
	Targets      int
	HashesBefore int
	HashesAfter  int
	Emptied      int // targets with no hashes left
	Untouched    int // targets that shared nothing with the query
	Downsampled  int
}

// Summarise tallies the batch results
func Summarise(results []*pipeline.UnitResult) Summary {
	s := Summary{Targets: len(results)}
	for _, r := range results {
		s.HashesBefore += r.SizeBefore
		s.HashesAfter += r.SizeAfter
		if r.SizeAfter == 0 {
			s.Emptied++
		}
		if r.Removed() == 0 {
			s.Untouched++
		}
		if r.Resolution == minhash.Downsampled {
			s.Downsampled++
		}
	}
	return s
}

// Removed is the total number of hashes taken out across the batch
func (s Summary) Removed() int {
	return s.HashesBefore - s.HashesAfter
}

// WriteTSV prints one line per target: name, input, output, hashes before, hashes after, retained fraction
func WriteTSV(w io.Writer, results []*pipeline.UnitResult) error {
	if _, err := fmt.Fprintln(w, "name\tinput\toutput\tbefore\tafter\tretained"); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%v\t%v\t%v\t%d\t%d\t%.4f\n", r.Name, r.Input, r.Output, r.SizeBefore, r.SizeAfter, r.RetainedFraction()); err != nil {
			return err
		}
	}
	return nil
}

// PlotRetained saves a histogram of the retained fraction for each target. The image format is taken from the file extension.
func PlotRetained(results []*pipeline.UnitResult, fileName string) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to plot")
	}
	values := make(plotter.Values, len(results))
	for i, r := range results {
		values[i] = r.RetainedFraction()
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = "hashes retained after subtraction"
	p.X.Label.Text = "fraction of target hashes retained"
	p.Y.Label.Text = "number of targets"
	hist, err := plotter.NewHist(values, defaultBins)
	if err != nil {
		return err
	}
	p.Add(hist)
	return p.Save(8*vg.Inch, 6*vg.Inch, fileName)
}
