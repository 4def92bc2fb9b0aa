package pipeline

import (
	"fmt"

	"github.com/will-rowe/sigsub/src/minhash"
	"github.com/will-rowe/sigsub/src/signature"
)

// Query holds the sketch that is subtracted from every target, along with its hash set
type Query struct {
	Path   string
	Name   string
	Sketch *minhash.KmerMinHash
	Hashes minhash.HashSet
}

// ExtractQuery loads every signature in the query file and keeps the last sketch that exactly matches the template.
// The query is never downsampled.
func ExtractQuery(path string, t minhash.Template) (*Query, error) {
	sigs, err := signature.LoadFile(path)
	if err != nil {
		return nil, &QueryError{Path: path, Err: err}
	}
	var (
		selected *minhash.KmerMinHash
		name     string
	)
	for _, sig := range sigs {
		if mh, err := minhash.SelectExact(sig.Sketches, t); err == nil {
			selected, name = mh, sig.DisplayName()
		}
	}
	if selected == nil {
		return nil, &QueryError{Path: path, Err: fmt.Errorf("%w: %v", minhash.ErrNoCompatibleSketch, t)}
	}
	return &Query{
		Path:   path,
		Name:   name,
		Sketch: selected,
		Hashes: minhash.NewHashSet(selected.Mins),
	}, nil
}
