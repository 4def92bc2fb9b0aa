package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/will-rowe/sigsub/src/minhash"
	"github.com/will-rowe/sigsub/src/signature"
)

// UnitResult describes the signature written by one batch unit
type UnitResult struct {
	Input      string
	Output     string
	Name       string
	MD5Sum     string
	Resolution minhash.Resolution
	Abundance  bool
	SizeBefore int
	SizeAfter  int
}

// Removed is the number of query hashes taken out of the target
func (r *UnitResult) Removed() int {
	return r.SizeBefore - r.SizeAfter
}

// RetainedFraction is the proportion of the target hashes (at template resolution) left after subtraction
func (r *UnitResult) RetainedFraction() float64 {
	if r.SizeBefore == 0 {
		return 1.0
	}
	return float64(r.SizeAfter) / float64(r.SizeBefore)
}

// PrepareOutDir creates the ksize scoped output directory and returns its path
func PrepareOutDir(base string, ksize uint32) (string, error) {
	outDir := filepath.Join(base, strconv.FormatUint(uint64(ksize), 10))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("can't create output directory %v: %w", outDir, err)
	}
	return outDir, nil
}

// OutputPath is where the subtracted signature for a target is written
func OutputPath(outDir, target string) string {
	return filepath.Join(outDir, filepath.Base(target))
}

// composeOutput swaps all the sketches in the signature for the subtracted one
func composeOutput(sig *signature.Signature, mh *minhash.KmerMinHash) *signature.Signature {
	sig.ResetSketches()
	sig.Push(mh)
	return sig
}

// subtractOne loads a target, brings it to the template resolution, removes the query hashes and writes it out.
// Only the first signature in the target file is used.
func subtractOne(cfg *Config, query minhash.HashSet, target string) (*UnitResult, error) {
	sigs, err := signature.LoadFile(target)
	if err != nil {
		return nil, &UnitError{Path: target, Stage: Loading, Err: err}
	}
	sig := sigs[0]

	mh, resolution, err := minhash.SelectAndDownsample(sig.Sketches, cfg.Template)
	if err != nil {
		return nil, &UnitError{Path: target, Stage: Resolving, Err: err}
	}

	before := mh.Size()
	mh.RemoveMany(query)

	result := &UnitResult{
		Input:      target,
		Output:     OutputPath(cfg.OutDir, target),
		Name:       sig.DisplayName(),
		MD5Sum:     mh.MD5Sum(),
		Resolution: resolution,
		Abundance:  mh.TrackAbundance(),
		SizeBefore: before,
		SizeAfter:  mh.Size(),
	}
	if err := signature.SaveFile(result.Output, []*signature.Signature{composeOutput(sig, mh)}); err != nil {
		return nil, &UnitError{Path: target, Stage: Writing, Err: err}
	}
	return result, nil
}
