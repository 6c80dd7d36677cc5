package fmgo

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fmgo/dna"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}

	seq, err := dna.Encode([]byte("GATTACAGATTACA"))
	require.NoError(t, err)

	idx, err := Build(context.Background(), seq, WithMetricsCollector(mc))
	require.NoError(t, err)

	q, err := dna.ParseBases([]byte("ATT"))
	require.NoError(t, err)

	r, err := idx.Range(q, 0)
	require.NoError(t, err)
	_, err = idx.Offsets(r)
	require.NoError(t, err)

	// A rejected query still counts, as an error.
	_, err = idx.Range(q, 2)
	require.ErrorIs(t, err, ErrUnsupportedMismatchCount)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))
	_, err = Load(&buf, WithMetricsCollector(mc))
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(0), stats.BuildErrors)
	assert.Equal(t, int64(2), stats.RangeCount)
	assert.Equal(t, int64(1), stats.RangeErrors)
	assert.Equal(t, int64(1), stats.OffsetsCount)
	assert.Equal(t, int64(2), stats.OffsetsRows) // ATT occurs twice
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(0), stats.LoadErrors)
}

func TestBuildErrorIsCounted(t *testing.T) {
	mc := &BasicMetricsCollector{}

	seq, err := dna.Encode([]byte("GATTACA"))
	require.NoError(t, err)

	_, err = Build(context.Background(), seq, WithMetricsCollector(mc), WithLookupLen(16))
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(1), stats.BuildErrors)
}
