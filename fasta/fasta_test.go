package fasta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	input := `>chr1 test chromosome
GATTACA
GATTACA

>chr2
ACGT
`
	records, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "chr1", records[0].ID)
	assert.Equal(t, "test chromosome", records[0].Description)
	assert.Equal(t, []byte("GATTACAGATTACA"), records[0].Seq)

	assert.Equal(t, "chr2", records[1].ID)
	assert.Empty(t, records[1].Description)
	assert.Equal(t, []byte("ACGT"), records[1].Seq)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("ACGT\n"))
	assert.Error(t, err, "sequence before header")

	_, err = Read(strings.NewReader(""))
	assert.Error(t, err, "no records")
}

func TestReadHeaderOnly(t *testing.T) {
	records, err := Read(strings.NewReader(">empty\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "empty", records[0].ID)
	assert.Empty(t, records[0].Seq)
}

func TestFoldAmbiguous(t *testing.T) {
	folded, err := FoldAmbiguous([]byte("acgtACGTU"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ACGTACGTT"), folded)

	// Every ambiguity code folds to a member of its own set.
	folded, err = FoldAmbiguous([]byte("RYSWKMBDHVN"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ACCAGACAAAA"), folded)

	// Deterministic: folding twice gives the same result.
	again, err := FoldAmbiguous([]byte("RYSWKMBDHVN"))
	require.NoError(t, err)
	assert.Equal(t, folded, again)

	_, err = FoldAmbiguous([]byte("ACG-T"))
	assert.Error(t, err)
}
