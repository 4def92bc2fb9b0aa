package minhash

import (
	"errors"
	"math"
	"testing"
)

var (
	hashvalues = []uint64{12345, 54321, 9999999, 98765}
	kmerSize   = uint32(57)
	scaled     = uint64(100)
	template   = NewTemplate(kmerSize, scaled, Protein)
)

// newTestSketch is a helper function to build a normalised sketch matching the template, with the given hashes
func newTestSketch(t *testing.T, tmpl Template, hashes ...uint64) *KmerMinHash {
	mh := NewKmerMinHash(tmpl)
	mh.Mins = append(mh.Mins, hashes...)
	if err := mh.Normalise(); err != nil {
		t.Fatal(err)
	}
	return mh
}

func TestMaxHashForScaled(t *testing.T) {
	if MaxHashForScaled(0) != 0 {
		t.Fatal("scaled of 0 should give an unbounded max hash")
	}
	if MaxHashForScaled(1) != math.MaxUint64 {
		t.Fatal("scaled of 1 should keep every hash")
	}
	if mh := MaxHashForScaled(1000); mh != 18446744073709552 {
		t.Fatalf("max hash for scaled 1000 should match sourmash, not: %d", mh)
	}
	for _, s := range []uint64{0, 1, 10, 100, 1000} {
		if got := ScaledForMaxHash(MaxHashForScaled(s)); got != s {
			t.Fatalf("scaled did not survive a round trip: %d vs. %d", s, got)
		}
	}
	if MaxHashForScaled(10) <= MaxHashForScaled(100) {
		t.Fatal("a smaller scaled should give a larger max hash")
	}
}

func TestTemplate(t *testing.T) {
	if template.Ksize != kmerSize || template.Scaled != scaled || template.Seed != DefaultSeed || template.HashFunction != Protein {
		t.Fatalf("NewTemplate did not initiate the template correctly: %v", template)
	}
	if template.MaxHash != MaxHashForScaled(scaled) {
		t.Fatal("template max hash not derived from scaled")
	}
}

func TestParseEncoding(t *testing.T) {
	for encoding, hf := range map[string]HashFunction{"protein": Protein, "Dayhoff": Dayhoff, "HP": HP} {
		got, err := ParseEncoding(encoding)
		if err != nil {
			t.Fatal(err)
		}
		if got != hf {
			t.Fatalf("%v parsed as %v", encoding, got)
		}
	}
	if _, err := ParseEncoding("dna"); err == nil {
		t.Fatal("DNA should not be accepted as a template encoding")
	}
	if _, err := ParseHashFunction("rna"); err == nil {
		t.Fatal("should fault on an unknown molecule")
	}
}

func TestNormalise(t *testing.T) {
	mh := NewKmerMinHash(template)
	mh.Mins = []uint64{30, 10, 20}
	mh.Abunds = []uint64{3, 1, 2}
	if err := mh.Normalise(); err != nil {
		t.Fatal(err)
	}
	for i := range mh.Mins {
		if mh.Mins[i] != uint64(i+1)*10 || mh.Abunds[i] != uint64(i+1) {
			t.Fatalf("hashes and abundances not sorted together: %v %v", mh.Mins, mh.Abunds)
		}
	}
	mh.Mins = []uint64{10, 10}
	mh.Abunds = nil
	if err := mh.Normalise(); !errors.Is(err, ErrMalformedSketch) {
		t.Fatal("should fault on duplicate hashes")
	}
	mh.Mins = []uint64{template.MaxHash + 1}
	if err := mh.Normalise(); !errors.Is(err, ErrMalformedSketch) {
		t.Fatal("should fault on hashes above max_hash")
	}
}

func TestRemoveMany(t *testing.T) {
	mh := newTestSketch(t, template, hashvalues...)
	mh.Abunds = []uint64{1, 2, 3, 4}
	query := NewHashSet([]uint64{54321, 11111})

	if removed := mh.RemoveMany(query); removed != 1 {
		t.Fatalf("should have removed 1 hash, not %d", removed)
	}

	// disjointness and conservation
	for _, h := range mh.Mins {
		if query.Contains(h) {
			t.Fatalf("hash %d should have been removed", h)
		}
	}
	expected := []uint64{12345, 98765, 9999999}
	if len(mh.Mins) != len(expected) {
		t.Fatalf("wrong number of hashes retained: %v", mh.Mins)
	}
	for i, h := range expected {
		if mh.Mins[i] != h {
			t.Fatalf("hash order not preserved: %v", mh.Mins)
		}
	}
	if mh.Abunds[0] != 1 || mh.Abunds[1] != 3 || mh.Abunds[2] != 4 {
		t.Fatalf("abundances not kept in line with hashes: %v", mh.Abunds)
	}

	// idempotence
	if removed := mh.RemoveMany(query); removed != 0 || mh.Size() != 3 {
		t.Fatal("removing the same hashes twice should be a no-op")
	}
}

func TestDownsample(t *testing.T) {
	fine := NewTemplate(kmerSize, 10, Protein)
	mh := newTestSketch(t, fine, 1, template.MaxHash, template.MaxHash+1, fine.MaxHash)
	ds := mh.Downsample(template.MaxHash)
	if ds.MaxHash != template.MaxHash {
		t.Fatal("downsampled sketch should take the new max hash")
	}
	if ds.Size() != 2 || mh.Size() != 4 {
		t.Fatalf("downsampling kept the wrong hashes: %v (original now %v)", ds.Mins, mh.Mins)
	}
	before := NewHashSet(mh.Mins)
	for _, h := range ds.Mins {
		if h > template.MaxHash || !before.Contains(h) {
			t.Fatalf("hash %d should not have survived downsampling", h)
		}
	}
}

func TestMD5Sum(t *testing.T) {
	a := newTestSketch(t, template, hashvalues...)
	b := a.Clone()
	if a.MD5Sum() != b.MD5Sum() {
		t.Fatal("identical sketches should have identical checksums")
	}
	b.RemoveMany(NewHashSet(hashvalues[:1]))
	if a.MD5Sum() == b.MD5Sum() {
		t.Fatal("checksum should change when hashes are removed")
	}
	if len(a.MD5Sum()) != 32 {
		t.Fatal("checksum should be a hex encoded md5")
	}
}

func BenchmarkRemoveMany(b *testing.B) {
	hashes := make([]uint64, 100000)
	for i := range hashes {
		hashes[i] = uint64(i) * 3
	}
	query := NewHashSet(hashes[:50000])
	for n := 0; n < b.N; n++ {
		mh := &KmerMinHash{Mins: append([]uint64(nil), hashes...)}
		mh.RemoveMany(query)
	}
}
