package dna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashUnhashKmer(t *testing.T) {
	bases, err := ParseBases([]byte("GATTACA"))
	require.NoError(t, err)

	k := HashKmer(bases)
	assert.Equal(t, bases, UnhashKmer(k, len(bases)))
}

func TestHashKmerOrder(t *testing.T) {
	// Hashes preserve lexicographic order for equal-length k-mers.
	aa := HashKmer([]Base{A, A})
	ac := HashKmer([]Base{A, C})
	ta := HashKmer([]Base{T, A})

	assert.Less(t, uint64(aa), uint64(ac))
	assert.Less(t, uint64(ac), uint64(ta))

	assert.Equal(t, Kmer(0), aa)
	assert.Equal(t, Kmer(KmerCount(2)-1), HashKmer([]Base{T, T}))
}

func TestKmerCount(t *testing.T) {
	assert.Equal(t, uint64(4), KmerCount(1))
	assert.Equal(t, uint64(16), KmerCount(2))
	assert.Equal(t, uint64(65536), KmerCount(8))
}

func TestKmerReverseComplement(t *testing.T) {
	bases, err := ParseBases([]byte("ACGGT"))
	require.NoError(t, err)

	rc := HashKmer(bases).ReverseComplement(len(bases))
	assert.Equal(t, ReverseComplement(bases), UnhashKmer(rc, len(bases)))

	// Involution.
	assert.Equal(t, HashKmer(bases), rc.ReverseComplement(len(bases)))
}
