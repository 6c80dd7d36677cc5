// Package occtable implements the two-level rank structure over the BWT that
// drives backward search. A coarse checkpoint every L1 positions stores exact
// cumulative per-base counts; a fine checkpoint every L2 positions (L2
// divides L1) stores counts relative to the enclosing coarse checkpoint.
// Rank queries finish with a residual scan of fewer than L2 BWT symbols, so
// L1/L2 trade table memory against scan cost.
package occtable

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/fmgo/dna"
)

const alphabetSize = 4

var (
	// ErrInvalidInterval is returned when L1/L2 violate the layout rules.
	ErrInvalidInterval = errors.New("occtable: L2 must be positive, no larger than L1, and divide L1")
	// ErrIntervalOverflow is returned when a fine count could overflow uint16.
	ErrIntervalOverflow = errors.New("occtable: L1 exceeds fine-checkpoint capacity")
)

// Table answers rank queries over a packed BWT. The row holding the sentinel
// carries a placeholder base that is excluded from every count.
type Table struct {
	bwt         *dna.PackedSeq
	sentinelRow uint64
	l1, l2      int
	coarse      []uint64 // alphabetSize entries per checkpoint, counts in BWT[0:k*L1)
	fine        []uint16 // alphabetSize entries per checkpoint, relative to coarse
}

// ValidateIntervals checks the L1/L2 layout rules shared by build and load.
func ValidateIntervals(l1, l2 int) error {
	if l2 <= 0 || l1 < l2 || l1%l2 != 0 {
		return ErrInvalidInterval
	}
	if l1 > math.MaxUint16 {
		return ErrIntervalOverflow
	}
	return nil
}

// New builds the table with a single linear pass over the BWT.
func New(bwt *dna.PackedSeq, sentinelRow uint64, l1, l2 int) (*Table, error) {
	if err := ValidateIntervals(l1, l2); err != nil {
		return nil, err
	}

	n := bwt.Len()
	numCoarse := n/l1 + 1
	numFine := n/l2 + 1

	t := &Table{
		bwt:         bwt,
		sentinelRow: sentinelRow,
		l1:          l1,
		l2:          l2,
		coarse:      make([]uint64, numCoarse*alphabetSize),
		fine:        make([]uint16, numFine*alphabetSize),
	}

	var running [alphabetSize]uint64
	var coarseBase [alphabetSize]uint64
	for i := 0; i <= n; i++ {
		if i%l1 == 0 && i/l1 < numCoarse {
			copy(t.coarse[i/l1*alphabetSize:], running[:])
			coarseBase = running
		}
		if i%l2 == 0 && i/l2 < numFine {
			for c := 0; c < alphabetSize; c++ {
				t.fine[i/l2*alphabetSize+c] = uint16(running[c] - coarseBase[c])
			}
		}
		if i < n && uint64(i) != sentinelRow {
			running[bwt.Get(i)]++
		}
	}
	return t, nil
}

// FromParts reassembles a table from deserialized checkpoints, validating
// the section lengths against the BWT.
func FromParts(bwt *dna.PackedSeq, sentinelRow uint64, l1, l2 int, coarse []uint64, fine []uint16) (*Table, error) {
	if err := ValidateIntervals(l1, l2); err != nil {
		return nil, err
	}
	n := bwt.Len()
	if len(coarse) != (n/l1+1)*alphabetSize {
		return nil, fmt.Errorf("occtable: coarse checkpoint count %d does not match BWT length %d", len(coarse), n)
	}
	if len(fine) != (n/l2+1)*alphabetSize {
		return nil, fmt.Errorf("occtable: fine checkpoint count %d does not match BWT length %d", len(fine), n)
	}
	return &Table{
		bwt:         bwt,
		sentinelRow: sentinelRow,
		l1:          l1,
		l2:          l2,
		coarse:      coarse,
		fine:        fine,
	}, nil
}

// Rank counts occurrences of base c in BWT[0:i). The sentinel row never
// contributes. i may be at most the BWT length.
func (t *Table) Rank(c dna.Base, i uint64) uint64 {
	fi := i / uint64(t.l2)
	count := t.coarse[fi*uint64(t.l2)/uint64(t.l1)*alphabetSize+uint64(c)] +
		uint64(t.fine[fi*alphabetSize+uint64(c)])
	for j := fi * uint64(t.l2); j < i; j++ {
		if j != t.sentinelRow && t.bwt.Get(int(j)) == c {
			count++
		}
	}
	return count
}

// Intervals returns the configured (L1, L2).
func (t *Table) Intervals() (int, int) { return t.l1, t.l2 }

// Coarse exposes the coarse checkpoints for serialization.
func (t *Table) Coarse() []uint64 { return t.coarse }

// Fine exposes the fine checkpoints for serialization.
func (t *Table) Fine() []uint16 { return t.fine }
