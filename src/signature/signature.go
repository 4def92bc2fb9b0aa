/*
	the signature package contains the sourmash signature type and the JSON codec used to read and write signature files
*/
package signature

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/will-rowe/sigsub/src/minhash"
)

const (
	// Class is the class string carried by every sourmash signature
	Class = "sourmash_signature"

	// HashFunction is the hash function string carried by every sourmash signature
	HashFunction = "0.murmur64"

	// License is the license used for new signatures
	License = "CC0"

	// Version is the signature format version written by sigsub
	Version = 0.4
)

// ErrEmptySignatureFile is returned when a signature file holds no signatures
var ErrEmptySignatureFile = errors.New("no signatures found in file")

// ErrMalformedSignature is returned when an entry in a signature file is not a signature object
var ErrMalformedSignature = errors.New("malformed signature")

// Signature is a named collection of sketches for a single sample
type Signature struct {
	Class        string
	Email        string
	HashFunction string
	Filename     string
	Name         string
	License      string
	Version      float64
	Sketches     []*minhash.KmerMinHash
}

// NewSignature creates an empty signature
func NewSignature(name, filename string) *Signature {
	return &Signature{
		Class:        Class,
		HashFunction: HashFunction,
		Filename:     filename,
		Name:         name,
		License:      License,
		Version:      Version,
	}
}

// ResetSketches removes every sketch from the signature
func (sig *Signature) ResetSketches() {
	sig.Sketches = nil
}

// Push adds a sketch to the signature
func (sig *Signature) Push(mh *minhash.KmerMinHash) {
	sig.Sketches = append(sig.Sketches, mh)
}

// DisplayName returns the name of the signature, falling back to the filename
func (sig *Signature) DisplayName() string {
	if sig.Name != "" {
		return sig.Name
	}
	return sig.Filename
}

// jsonSignature is the on-disk layout of a signature
type jsonSignature struct {
	Class        string       `json:"class"`
	Email        string       `json:"email"`
	HashFunction string       `json:"hash_function"`
	Filename     string       `json:"filename"`
	Name         string       `json:"name,omitempty"`
	License      string       `json:"license"`
	Signatures   []jsonSketch `json:"signatures"`
	Version      float64      `json:"version"`
}

// jsonSketch is the on-disk layout of a MinHash sketch
type jsonSketch struct {
	Num        uint32   `json:"num"`
	Ksize      uint32   `json:"ksize"`
	Seed       uint64   `json:"seed"`
	MaxHash    uint64   `json:"max_hash"`
	Mins       []uint64 `json:"mins"`
	MD5Sum     string   `json:"md5sum"`
	Abundances []uint64 `json:"abundances,omitempty"`
	Molecule   string   `json:"molecule"`
}

// MarshalJSON satisfies the json.Marshaler interface
func (sig *Signature) MarshalJSON() ([]byte, error) {
	js := jsonSignature{
		Class:        sig.Class,
		Email:        sig.Email,
		HashFunction: sig.HashFunction,
		Filename:     sig.Filename,
		Name:         sig.Name,
		License:      sig.License,
		Version:      sig.Version,
		Signatures:   make([]jsonSketch, len(sig.Sketches)),
	}
	for i, mh := range sig.Sketches {
		mins := mh.Mins
		if mins == nil {
			mins = []uint64{}
		}
		js.Signatures[i] = jsonSketch{
			Num:        mh.Num,
			Ksize:      mh.Ksize,
			Seed:       mh.Seed,
			MaxHash:    mh.MaxHash,
			Mins:       mins,
			MD5Sum:     mh.MD5Sum(),
			Abundances: mh.Abunds,
			Molecule:   mh.HashFunction.String(),
		}
	}
	return json.Marshal(js)
}

// UnmarshalJSON satisfies the json.Unmarshaler interface, checking each sketch as it is loaded
func (sig *Signature) UnmarshalJSON(data []byte) error {
	var js jsonSignature
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	*sig = Signature{
		Class:        js.Class,
		Email:        js.Email,
		HashFunction: js.HashFunction,
		Filename:     js.Filename,
		Name:         js.Name,
		License:      js.License,
		Version:      js.Version,
		Sketches:     make([]*minhash.KmerMinHash, 0, len(js.Signatures)),
	}
	for i, s := range js.Signatures {

		// signatures written before the molecule field was added are all DNA
		hf := minhash.DNA
		if s.Molecule != "" {
			var err error
			if hf, err = minhash.ParseHashFunction(s.Molecule); err != nil {
				return fmt.Errorf("sketch %d: %w", i, err)
			}
		}
		mh := &minhash.KmerMinHash{
			Num:          s.Num,
			Ksize:        s.Ksize,
			Seed:         s.Seed,
			MaxHash:      s.MaxHash,
			HashFunction: hf,
			Mins:         s.Mins,
			Abunds:       s.Abundances,
		}
		if err := mh.Normalise(); err != nil {
			return fmt.Errorf("sketch %d: %w", i, err)
		}
		sig.Sketches = append(sig.Sketches, mh)
	}
	return nil
}
