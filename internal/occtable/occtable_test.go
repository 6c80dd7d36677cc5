package occtable

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fmgo/dna"
	"github.com/hupe1980/fmgo/testutil"
)

// makeBWT derives the BWT of text (plus sentinel) by sorting suffixes
// directly. The row whose suffix starts at 0 holds the sentinel; it carries
// base A as a placeholder and its row index is returned.
func makeBWT(t *testing.T, text []byte) (*dna.PackedSeq, uint64) {
	t.Helper()

	bases, err := dna.ParseBases(text)
	require.NoError(t, err)

	n := len(bases)
	sa := make([]int, n+1)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(a, b int) bool {
		return string(text[sa[a]:]) < string(text[sa[b]:])
	})

	bwt := dna.NewPackedSeq(n + 1)
	sentinelRow := uint64(0)
	for i, pos := range sa {
		if pos == 0 {
			sentinelRow = uint64(i)
			bwt.Append(dna.A)
			continue
		}
		bwt.Append(bases[pos-1])
	}
	return bwt, sentinelRow
}

// naiveRank counts c in bwt[0:i) skipping the sentinel row.
func naiveRank(bwt *dna.PackedSeq, sentinelRow uint64, c dna.Base, i uint64) uint64 {
	var count uint64
	for j := uint64(0); j < i; j++ {
		if j != sentinelRow && bwt.Get(int(j)) == c {
			count++
		}
	}
	return count
}

func TestValidateIntervals(t *testing.T) {
	assert.NoError(t, ValidateIntervals(256, 32))
	assert.NoError(t, ValidateIntervals(64, 64))
	assert.ErrorIs(t, ValidateIntervals(256, 0), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateIntervals(32, 256), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateIntervals(100, 32), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateIntervals(1<<17, 1<<10), ErrIntervalOverflow)
}

func TestRankSmall(t *testing.T) {
	bwt, sentinelRow := makeBWT(t, []byte("GATTACA"))

	tbl, err := New(bwt, sentinelRow, 4, 2)
	require.NoError(t, err)

	rows := uint64(bwt.Len())
	for c := dna.Base(0); c < 4; c++ {
		for i := uint64(0); i <= rows; i++ {
			assert.Equal(t, naiveRank(bwt, sentinelRow, c, i), tbl.Rank(c, i), "c=%v i=%d", c, i)
		}
	}
}

func TestRankRandom(t *testing.T) {
	rng := testutil.NewRNG(4711)
	bwt, sentinelRow := makeBWT(t, rng.Sequence(1500))

	// Checkpoint spacings small enough that all code paths (coarse, fine,
	// residual) are hit many times.
	tbl, err := New(bwt, sentinelRow, 64, 16)
	require.NoError(t, err)

	rows := uint64(bwt.Len())
	for c := dna.Base(0); c < 4; c++ {
		for i := uint64(0); i <= rows; i += 7 {
			assert.Equal(t, naiveRank(bwt, sentinelRow, c, i), tbl.Rank(c, i), "c=%v i=%d", c, i)
		}
		assert.Equal(t, naiveRank(bwt, sentinelRow, c, rows), tbl.Rank(c, rows))
	}
}

func TestFromPartsRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(42)
	bwt, sentinelRow := makeBWT(t, rng.Sequence(300))

	built, err := New(bwt, sentinelRow, 32, 8)
	require.NoError(t, err)

	loaded, err := FromParts(bwt, sentinelRow, 32, 8, built.Coarse(), built.Fine())
	require.NoError(t, err)

	rows := uint64(bwt.Len())
	for c := dna.Base(0); c < 4; c++ {
		for i := uint64(0); i <= rows; i++ {
			assert.Equal(t, built.Rank(c, i), loaded.Rank(c, i))
		}
	}
}

func TestFromPartsLengthMismatch(t *testing.T) {
	bwt, sentinelRow := makeBWT(t, []byte("GATTACA"))

	built, err := New(bwt, sentinelRow, 4, 2)
	require.NoError(t, err)

	_, err = FromParts(bwt, sentinelRow, 4, 2, built.Coarse()[:4], built.Fine())
	assert.Error(t, err)

	_, err = FromParts(bwt, sentinelRow, 4, 2, built.Coarse(), built.Fine()[:4])
	assert.Error(t, err)

	_, err = FromParts(bwt, sentinelRow, 100, 32, built.Coarse(), built.Fine())
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
