package blobstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreTests exercises the Store contract shared by all implementations.
func runStoreTests(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("open missing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing.fmi")
		assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
	})

	t.Run("put open read", func(t *testing.T) {
		data := []byte("GATTACAGATTACA")
		require.NoError(t, store.Put(ctx, "genome/chr1.fmi", data))

		blob, err := store.Open(ctx, "genome/chr1.fmi")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(len(data)), blob.Size())

		got := make([]byte, len(data))
		n, err := blob.ReadAt(got, 0)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
		assert.Equal(t, data, got)

		// Partial read at an offset.
		part := make([]byte, 4)
		n, err = blob.ReadAt(part, 8)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, data[8:12], part)

		// Reading past the end reports EOF.
		_, err = blob.ReadAt(part, int64(len(data)))
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("create streams on close", func(t *testing.T) {
		w, err := store.Create(ctx, "genome/chr2.fmi")
		require.NoError(t, err)

		_, err = w.Write([]byte("ACGT"))
		require.NoError(t, err)
		_, err = w.Write([]byte("ACGT"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		blob, err := store.Open(ctx, "genome/chr2.fmi")
		require.NoError(t, err)
		defer blob.Close()
		assert.Equal(t, int64(8), blob.Size())
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "genome/chr3.fmi", []byte("old")))
		require.NoError(t, store.Put(ctx, "genome/chr3.fmi", []byte("newer")))

		blob, err := store.Open(ctx, "genome/chr3.fmi")
		require.NoError(t, err)
		defer blob.Close()
		assert.Equal(t, int64(5), blob.Size())
	})

	t.Run("list by prefix", func(t *testing.T) {
		names, err := store.List(ctx, "genome/")
		require.NoError(t, err)
		assert.Equal(t, []string{"genome/chr1.fmi", "genome/chr2.fmi", "genome/chr3.fmi"}, names)

		names, err = store.List(ctx, "nosuchprefix/")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "genome/chr3.fmi"))

		_, err := store.Open(ctx, "genome/chr3.fmi")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	runStoreTests(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("ACGT")
	require.NoError(t, store.Put(ctx, "a", data))

	// Mutating the caller's slice must not change the stored blob.
	data[0] = 'T'

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer blob.Close()

	got := make([]byte, 4)
	_, err = blob.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("ACGT"), got)
}

func TestLocalStoreMappable(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	data := []byte("GATTACA")
	require.NoError(t, store.Put(ctx, "idx.fmi", data))

	blob, err := store.Open(ctx, "idx.fmi")
	require.NoError(t, err)
	defer blob.Close()

	m, ok := blob.(Mappable)
	require.True(t, ok, "local blobs should support zero-copy access")

	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)
}
