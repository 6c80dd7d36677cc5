package dna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBase(t *testing.T) {
	for i, c := range []byte{'A', 'C', 'G', 'T'} {
		b, err := ParseBase(c)
		require.NoError(t, err)
		assert.Equal(t, Base(i), b)
		assert.Equal(t, c, b.Byte())
	}

	// Lower case is accepted.
	b, err := ParseBase('g')
	require.NoError(t, err)
	assert.Equal(t, G, b)

	_, err = ParseBase('N')
	var invErr *InvalidSymbolError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, byte('N'), invErr.Byte)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	text := []byte("GATTACAGATTACACCGGT")

	seq, err := Encode(text)
	require.NoError(t, err)
	require.Equal(t, len(text), seq.Len())

	assert.Equal(t, text, Decode(seq.Bases()))
}

func TestEncodeInvalidSymbol(t *testing.T) {
	_, err := Encode([]byte("ACGTNACGT"))

	var invErr *InvalidSymbolError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, byte('N'), invErr.Byte)
	assert.Equal(t, 4, invErr.Pos)
}

func TestParseBases(t *testing.T) {
	bases, err := ParseBases([]byte("acgt"))
	require.NoError(t, err)
	assert.Equal(t, []Base{A, C, G, T}, bases)

	_, err = ParseBases([]byte("AC-GT"))
	assert.Error(t, err)
}

func TestComplement(t *testing.T) {
	assert.Equal(t, T, A.Complement())
	assert.Equal(t, G, C.Complement())
	assert.Equal(t, C, G.Complement())
	assert.Equal(t, A, T.Complement())
}

func TestReverseComplement(t *testing.T) {
	bases, err := ParseBases([]byte("GATTACA"))
	require.NoError(t, err)

	rc := ReverseComplement(bases)
	assert.Equal(t, []byte("TGTAATC"), Decode(rc))

	// Involution: reverse complement twice is identity.
	assert.Equal(t, bases, ReverseComplement(rc))

	// The input must not be modified.
	assert.Equal(t, []byte("GATTACA"), Decode(bases))
}

func TestEncodeEmpty(t *testing.T) {
	seq, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Len())
}
