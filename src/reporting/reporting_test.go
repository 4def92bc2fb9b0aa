package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/will-rowe/sigsub/src/minhash"
	"github.com/will-rowe/sigsub/src/pipeline"
)

var results = []*pipeline.UnitResult{
	{Name: "query", Input: "query.sig", Output: "out/57/query.sig", Resolution: minhash.Exact, SizeBefore: 5, SizeAfter: 0},
	{Name: "sample-b", Input: "sample-b.sig", Output: "out/57/sample-b.sig", Resolution: minhash.Downsampled, SizeBefore: 3, SizeAfter: 3},
	{Name: "sample-d", Input: "sample-d.sig", Output: "out/57/sample-d.sig", Resolution: minhash.Exact, SizeBefore: 10, SizeAfter: 5},
}

func TestSummarise(t *testing.T) {
	s := Summarise(results)
	if s.Targets != 3 || s.HashesBefore != 18 || s.HashesAfter != 8 || s.Removed() != 10 {
		t.Fatalf("wrong totals: %+v", s)
	}
	if s.Emptied != 1 || s.Untouched != 1 || s.Downsampled != 1 {
		t.Fatalf("wrong target counts: %+v", s)
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, results); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected a header and 3 lines, got %d", len(lines))
	}
	if lines[3] != "sample-d\tsample-d.sig\tout/57/sample-d.sig\t10\t5\t0.5000" {
		t.Fatalf("unexpected line: %q", lines[3])
	}
}

func TestPlotRetained(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "retained.png")
	if err := PlotRetained(results, fileName); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(fileName)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("plot is empty")
	}
	if err := PlotRetained(nil, fileName); err == nil {
		t.Fatal("should fault when there is nothing to plot")
	}
}
