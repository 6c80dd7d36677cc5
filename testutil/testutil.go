package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/fmgo/dna"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Base returns a uniformly random base.
func (r *RNG) Base() dna.Base {
	r.mu.Lock()
	defer r.mu.Unlock()
	return dna.Base(r.rand.Intn(4))
}

// Bases returns n uniformly random bases.
func (r *RNG) Bases(n int) []dna.Base {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]dna.Base, n)
	for i := range out {
		out[i] = dna.Base(r.rand.Intn(4))
	}
	return out
}

// Sequence returns a random DNA text of length n over the upper-case
// ACGT alphabet.
func (r *RNG) Sequence(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	const alphabet = "ACGT"
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.rand.Intn(4)]
	}
	return out
}

// Substring returns a random substring of text with the given length,
// along with its starting offset. Length must be at most len(text).
func (r *RNG) Substring(text []byte, length int) ([]byte, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.rand.Intn(len(text) - length + 1)
	return text[start : start+length], start
}

// BruteForceSearch returns the sorted start offsets of every occurrence of
// pattern in text, including overlapping ones. It is the exact reference
// the index answers are checked against.
func BruteForceSearch(text, pattern []byte) []uint64 {
	if len(pattern) == 0 || len(pattern) > len(text) {
		return nil
	}

	var offsets []uint64
	for i := 0; i+len(pattern) <= len(text); i++ {
		match := true
		for j := 0; j < len(pattern); j++ {
			if text[i+j] != pattern[j] {
				match = false
				break
			}
		}
		if match {
			offsets = append(offsets, uint64(i))
		}
	}
	return offsets
}

// SortOffsets sorts offsets ascending in place and returns the slice,
// normalizing index output for comparison against BruteForceSearch.
func SortOffsets(offsets []uint64) []uint64 {
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}
