// Package fmgo provides an embedded FM-index for DNA sequences in Go.
//
// Fmgo builds a compressed full-text index (Burrows-Wheeler transform plus a
// two-level rank structure) over 2-bit packed nucleotide sequences and
// answers exact substring ("seed") queries in time proportional to the query
// length, independent of genome size. It is the indexing core of a sequence
// aligner: seed candidates found here are handed to an extension step that
// fmgo deliberately does not contain.
//
// Features:
//
//   - 2-bit symbol codec with k-mer hashing and reverse complements
//   - Parallel suffix-array construction over prefix buckets
//   - Configurable occurrence-table checkpoints (L1/L2) and suffix-array
//     sampling; different parameters never change query results
//   - K-mer lookup table short-circuiting the first k search steps
//   - Versioned, checksummed, optionally compressed (zstd/LZ4) index files
//   - Blob store persistence: local disk (mmap), memory, S3, MinIO, and an
//     S3+DynamoDB commit store for atomic index publishes
//   - Resource-controlled builds with fail-fast memory reservations
//
// # Quick start
//
// Build an index and locate a seed:
//
//	seq, err := dna.Encode([]byte("GATTACA"))
//	if err != nil {
//	    panic(err)
//	}
//
//	idx, err := fmgo.Build(ctx, seq, fmgo.WithLookupLen(4))
//	if err != nil {
//	    panic(err)
//	}
//
//	query, _ := dna.ParseBases([]byte("ATT"))
//	r, err := idx.Range(query, 0)
//	if err != nil {
//	    panic(err)
//	}
//	if r.MatchedLen == len(query) {
//	    offsets, _ := idx.Offsets(r) // [1]
//	    fmt.Println(offsets)
//	}
//
// A partial match is a value, not an error: when the search collapses,
// Range returns the interval of the longest matched query suffix together
// with MatchedLen, and an empty interval simply means "no occurrence".
//
// # Persistence
//
// Indexes are immutable once built. Save and Load round-trip the full
// structure; a loaded index answers every query identically to the one that
// was saved:
//
//	err = idx.SaveFile("genome.fmi", fmgo.WithCompression(persistence.CompressionZstd))
//	idx2, err := fmgo.LoadFile("genome.fmi")
//
// For shared storage, any blobstore.Store works:
//
//	store := blobstore.NewLocalStore("/data/indexes")
//	err = idx.SaveToStore(ctx, store, "grch38.fmi")
//
// # Concurrency
//
// Construction parallelizes suffix sorting and lookup-table filling across a
// bounded worker pool. A built index is never mutated, so queries need no
// locking and may run concurrently without limit.
package fmgo
