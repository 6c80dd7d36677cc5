// Package lookup precomputes the suffix-array interval of every k-mer of a
// fixed length, short-circuiting the first k steps of backward search.
//
// Intervals are built cumulatively: the level-j table is derived from the
// level-(j-1) table by one backward-search step per base, so no k-mer is
// searched from scratch. Memory is 16 bytes per entry and 4^k entries; the
// engine guards that trade-off before construction starts.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/fmgo/dna"
)

const alphabetSize = 4

var (
	// ErrInvalidLen is returned for a non-positive k-mer length.
	ErrInvalidLen = errors.New("lookup: k-mer length must be positive")
	// ErrMalformed is returned when a deserialized table violates the
	// ordered-partition invariant.
	ErrMalformed = errors.New("lookup: intervals are not an ordered partition")
)

// StepFunc narrows a suffix-array interval by one leading base; it is the
// single backward-search step provided by the engine.
type StepFunc func(c dna.Base, begin, end uint64) (uint64, uint64)

// Table maps each k-mer's integer encoding to its suffix-array interval.
type Table struct {
	k      int
	rows   uint64   // total suffix-array rows (N+1)
	ranges []uint64 // begin/end pairs indexed by 2*kmer
}

// EstimateBytes returns the resident size of a table for k-mer length k.
// Saturates instead of overflowing for k >= 30.
func EstimateBytes(k int) uint64 {
	if k >= 30 {
		return math.MaxUint64
	}
	return 2 * 8 * dna.KmerCount(k)
}

// Build enumerates all k-mers in lexicographic order, extending the
// previous level's intervals one base at a time. Levels are computed on a
// bounded worker pool over disjoint leading-base slices.
func Build(ctx context.Context, k int, rows uint64, step StepFunc, workers int) (*Table, error) {
	if k <= 0 || k > dna.MaxKmerLen {
		return nil, ErrInvalidLen
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Level 0: the single empty k-mer covering every row.
	prev := []uint64{0, rows}
	for level := 1; level <= k; level++ {
		next := make([]uint64, 2*int(dna.KmerCount(level)))
		stride := len(prev) / 2 // k-mers in the previous level

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for c := 0; c < alphabetSize; c++ {
			base := dna.Base(c)
			out := next[2*c*stride : 2*(c+1)*stride]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for w := 0; w < stride; w++ {
					// An empty parent maps to an empty child; stepping the
					// equal bounds keeps the boundaries monotone.
					out[2*w], out[2*w+1] = step(base, prev[2*w], prev[2*w+1])
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		prev = next
	}

	return &Table{k: k, rows: rows, ranges: prev}, nil
}

// FromParts reassembles a table from its serialized interval section and
// re-validates the ordered-partition invariant.
func FromParts(k int, rows uint64, ranges []uint64) (*Table, error) {
	if k <= 0 || k > dna.MaxKmerLen {
		return nil, ErrInvalidLen
	}
	if uint64(len(ranges)) != 2*dna.KmerCount(k) {
		return nil, fmt.Errorf("lookup: %w: got %d boundaries for k=%d", ErrMalformed, len(ranges), k)
	}
	var prevEnd uint64
	for i := 0; i < len(ranges); i += 2 {
		begin, end := ranges[i], ranges[i+1]
		if begin > end || begin < prevEnd || end > rows {
			return nil, ErrMalformed
		}
		prevEnd = end
	}
	return &Table{k: k, rows: rows, ranges: ranges}, nil
}

// Range returns the suffix-array interval [begin, end) of suffixes whose
// first k bases equal the k-mer.
func (t *Table) Range(kmer dna.Kmer) (uint64, uint64) {
	return t.ranges[2*kmer], t.ranges[2*kmer+1]
}

// K returns the configured k-mer length.
func (t *Table) K() int { return t.k }

// Ranges exposes the interval boundaries for serialization.
func (t *Table) Ranges() []uint64 { return t.ranges }
