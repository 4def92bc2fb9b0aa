package minhash

import (
	"fmt"
	"math"
	"strings"
)

// DefaultSeed is the murmur seed used by sourmash sketches
const DefaultSeed uint64 = 42

// HashFunction is the canonicalisation scheme used when a sketch was built
type HashFunction int

const (
	DNA HashFunction = iota
	Protein
	Dayhoff
	HP
)

// String returns the molecule name used in signature files
func (hf HashFunction) String() string {
	switch hf {
	case DNA:
		return "DNA"
	case Protein:
		return "protein"
	case Dayhoff:
		return "dayhoff"
	case HP:
		return "hp"
	}
	return fmt.Sprintf("HashFunction(%d)", int(hf))
}

// ParseHashFunction converts a molecule name (case-insensitive) to a HashFunction
func ParseHashFunction(molecule string) (HashFunction, error) {
	switch strings.ToLower(molecule) {
	case "dna":
		return DNA, nil
	case "protein":
		return Protein, nil
	case "dayhoff":
		return Dayhoff, nil
	case "hp":
		return HP, nil
	}
	return 0, fmt.Errorf("unrecognised molecule type: %q", molecule)
}

// ParseEncoding is like ParseHashFunction but only accepts the amino acid encodings that can be used for a template
func ParseEncoding(encoding string) (HashFunction, error) {
	hf, err := ParseHashFunction(encoding)
	if err != nil || hf == DNA {
		return 0, fmt.Errorf("unsupported encoding: %q (please choose: protein/hp/dayhoff)", encoding)
	}
	return hf, nil
}

// MaxHashForScaled returns the hash threshold for a scaled value, 0 meaning unbounded.
// Float division keeps the thresholds identical to those stored in sourmash signature files.
func MaxHashForScaled(scaled uint64) uint64 {
	switch scaled {
	case 0:
		return 0
	case 1:
		return math.MaxUint64
	}
	return uint64(float64(math.MaxUint64) / float64(scaled))
}

// ScaledForMaxHash is the inverse of MaxHashForScaled
func ScaledForMaxHash(maxHash uint64) uint64 {
	switch maxHash {
	case 0:
		return 0
	case math.MaxUint64:
		return 1
	}
	return uint64(float64(math.MaxUint64) / float64(maxHash))
}

// Template describes the comparison space for a run. It never holds any hashes.
type Template struct {
	Ksize        uint32
	HashFunction HashFunction
	Seed         uint64
	Scaled       uint64
	MaxHash      uint64
}

// NewTemplate is the constructor for a Template
func NewTemplate(ksize uint32, scaled uint64, hf HashFunction) Template {
	return Template{
		Ksize:        ksize,
		HashFunction: hf,
		Seed:         DefaultSeed,
		Scaled:       scaled,
		MaxHash:      MaxHashForScaled(scaled),
	}
}

// String is used in error messages that need to name the template
func (t Template) String() string {
	return fmt.Sprintf("{ksize: %d, molecule: %v, seed: %d, scaled: %d, max_hash: %d}", t.Ksize, t.HashFunction, t.Seed, t.Scaled, t.MaxHash)
}
