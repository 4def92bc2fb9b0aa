package minhash

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatible is returned when a sketch can't be brought to the resolution of a template
	ErrIncompatible = errors.New("incompatible sketch")

	// ErrNoCompatibleSketch is returned when none of the sketches on offer match a template
	ErrNoCompatibleSketch = errors.New("no sketch matching the provided template")
)

// Resolution records how a sketch was made to fit a template
type Resolution int

const (
	Exact Resolution = iota
	Downsampled
)

func (r Resolution) String() string {
	if r == Downsampled {
		return "downsampled"
	}
	return "exact"
}

// CheckCompatible returns nil if the sketch can be compared to the template without modification
func (mh *KmerMinHash) CheckCompatible(t Template) error {
	switch {
	case mh.Ksize != t.Ksize:
		return fmt.Errorf("%w: ksize %d != %d", ErrIncompatible, mh.Ksize, t.Ksize)
	case mh.HashFunction != t.HashFunction:
		return fmt.Errorf("%w: molecule %v != %v", ErrIncompatible, mh.HashFunction, t.HashFunction)
	case mh.Seed != t.Seed:
		return fmt.Errorf("%w: seed %d != %d", ErrIncompatible, mh.Seed, t.Seed)
	case mh.MaxHash != t.MaxHash:
		return fmt.Errorf("%w: max_hash %d != %d", ErrIncompatible, mh.MaxHash, t.MaxHash)
	case mh.Num != 0:
		return fmt.Errorf("%w: num %d != 0", ErrIncompatible, mh.Num)
	}
	return nil
}

// canDownsample reports whether the sketch shares the template's parameters and is strictly finer than it.
// An unbounded sketch (max_hash 0) is the finest of all.
func (mh *KmerMinHash) canDownsample(t Template) bool {
	if mh.Ksize != t.Ksize || mh.HashFunction != t.HashFunction || mh.Seed != t.Seed || mh.Num != 0 {
		return false
	}
	return mh.Scaled() < t.Scaled
}

// Resolve brings a sketch to the template resolution, returning a new sketch which can be modified freely
func Resolve(mh *KmerMinHash, t Template) (*KmerMinHash, Resolution, error) {
	err := mh.CheckCompatible(t)
	if err == nil {
		return mh.Clone(), Exact, nil
	}
	if mh.canDownsample(t) {
		return mh.Downsample(t.MaxHash), Downsampled, nil
	}
	return nil, 0, err
}

// SelectAndDownsample checks every sketch against the template and returns the last one that matches exactly or can be downsampled
func SelectAndDownsample(sketches []*KmerMinHash, t Template) (*KmerMinHash, Resolution, error) {
	var selected *KmerMinHash
	for _, mh := range sketches {
		if mh.CheckCompatible(t) == nil || mh.canDownsample(t) {
			selected = mh
		}
	}
	if selected == nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNoCompatibleSketch, t)
	}
	return Resolve(selected, t)
}

// SelectExact returns a copy of the last sketch that matches the template exactly
func SelectExact(sketches []*KmerMinHash, t Template) (*KmerMinHash, error) {
	var selected *KmerMinHash
	for _, mh := range sketches {
		if mh.CheckCompatible(t) == nil {
			selected = mh
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCompatibleSketch, t)
	}
	return selected.Clone(), nil
}
