// Package minhash contains the scaled MinHash sketch used by sigsub, along with the logic for deciding if a sketch can be compared against a template.
package minhash

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrMalformedSketch is returned when a sketch breaks the sorted/unique/bounded invariants
var ErrMalformedSketch = errors.New("malformed sketch")

// HashSet is a read-only set of hash values
type HashSet map[uint64]struct{}

// NewHashSet builds a HashSet from a slice of hashes
func NewHashSet(hashes []uint64) HashSet {
	hs := make(HashSet, len(hashes))
	for _, h := range hashes {
		hs[h] = struct{}{}
	}
	return hs
}

// Contains reports whether the hash is in the set
func (hs HashSet) Contains(h uint64) bool {
	_, ok := hs[h]
	return ok
}

// KmerMinHash is a MinHash sketch of a set of k-mers.
// With Num == 0 it is a scaled sketch, holding every hash <= MaxHash (MaxHash == 0 means unbounded).
type KmerMinHash struct {
	Num          uint32
	Ksize        uint32
	Seed         uint64
	MaxHash      uint64
	HashFunction HashFunction
	Mins         []uint64
	Abunds       []uint64 // nil unless abundances are tracked
}

// NewKmerMinHash creates an empty sketch with the same parameters as the template
func NewKmerMinHash(t Template) *KmerMinHash {
	return &KmerMinHash{
		Ksize:        t.Ksize,
		Seed:         t.Seed,
		MaxHash:      t.MaxHash,
		HashFunction: t.HashFunction,
		Mins:         []uint64{},
	}
}

// Scaled returns the scaled value derived from the max hash
func (mh *KmerMinHash) Scaled() uint64 {
	return ScaledForMaxHash(mh.MaxHash)
}

// Size is the number of hashes retained by the sketch
func (mh *KmerMinHash) Size() int {
	return len(mh.Mins)
}

// TrackAbundance reports whether abundances are held alongside the hashes
func (mh *KmerMinHash) TrackAbundance() bool {
	return mh.Abunds != nil
}

// Clone returns a deep copy of the sketch
func (mh *KmerMinHash) Clone() *KmerMinHash {
	clone := *mh
	clone.Mins = append([]uint64(nil), mh.Mins...)
	if mh.Abunds != nil {
		clone.Abunds = append([]uint64(nil), mh.Abunds...)
	}
	return &clone
}

// Normalise sorts the hashes (carrying abundances with them) and then checks the sketch invariants
func (mh *KmerMinHash) Normalise() error {
	if mh.Abunds != nil && len(mh.Abunds) != len(mh.Mins) {
		return fmt.Errorf("%w: %d hashes but %d abundances", ErrMalformedSketch, len(mh.Mins), len(mh.Abunds))
	}
	if mh.Mins == nil {
		mh.Mins = []uint64{}
	}
	if !sort.SliceIsSorted(mh.Mins, func(i, j int) bool { return mh.Mins[i] < mh.Mins[j] }) {
		sort.Sort(byHash{mh})
	}
	for i, h := range mh.Mins {
		if i > 0 && h == mh.Mins[i-1] {
			return fmt.Errorf("%w: duplicate hash %d", ErrMalformedSketch, h)
		}
		if mh.MaxHash != 0 && h > mh.MaxHash {
			return fmt.Errorf("%w: hash %d exceeds max_hash %d", ErrMalformedSketch, h, mh.MaxHash)
		}
	}
	return nil
}

// byHash sorts the hashes of a sketch, keeping any abundances aligned
type byHash struct{ mh *KmerMinHash }

func (b byHash) Len() int           { return len(b.mh.Mins) }
func (b byHash) Less(i, j int) bool { return b.mh.Mins[i] < b.mh.Mins[j] }
func (b byHash) Swap(i, j int) {
	b.mh.Mins[i], b.mh.Mins[j] = b.mh.Mins[j], b.mh.Mins[i]
	if b.mh.Abunds != nil {
		b.mh.Abunds[i], b.mh.Abunds[j] = b.mh.Abunds[j], b.mh.Abunds[i]
	}
}

// retain keeps the hashes for which keep returns true, in their current order
func (mh *KmerMinHash) retain(keep func(uint64) bool) int {
	n := 0
	for i, h := range mh.Mins {
		if !keep(h) {
			continue
		}
		mh.Mins[n] = h
		if mh.Abunds != nil {
			mh.Abunds[n] = mh.Abunds[i]
		}
		n++
	}
	removed := len(mh.Mins) - n
	mh.Mins = mh.Mins[:n]
	if mh.Abunds != nil {
		mh.Abunds = mh.Abunds[:n]
	}
	return removed
}

// Downsample returns a copy of the sketch with every hash above maxHash discarded
func (mh *KmerMinHash) Downsample(maxHash uint64) *KmerMinHash {
	ds := mh.Clone()
	ds.MaxHash = maxHash
	if maxHash != 0 {
		ds.retain(func(h uint64) bool { return h <= maxHash })
	}
	return ds
}

// RemoveMany deletes every hash in the set from the sketch, returning the number removed.
// Hashes which are not in the sketch are ignored.
func (mh *KmerMinHash) RemoveMany(hashes HashSet) int {
	if len(hashes) == 0 {
		return 0
	}
	return mh.retain(func(h uint64) bool { return !hashes.Contains(h) })
}

// MD5Sum returns the sourmash checksum for the sketch (ksize then each hash, as decimal strings)
func (mh *KmerMinHash) MD5Sum() string {
	hash := md5.New()
	hash.Write([]byte(strconv.FormatUint(uint64(mh.Ksize), 10)))
	buf := make([]byte, 0, 20)
	for _, h := range mh.Mins {
		buf = strconv.AppendUint(buf[:0], h, 10)
		hash.Write(buf)
	}
	return hex.EncodeToString(hash.Sum(nil))
}
