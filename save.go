package fmgo

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/hupe1980/fmgo/blobstore"
	"github.com/hupe1980/fmgo/dna"
	"github.com/hupe1980/fmgo/internal/lookup"
	"github.com/hupe1980/fmgo/internal/occtable"
	"github.com/hupe1980/fmgo/internal/sasample"
	"github.com/hupe1980/fmgo/persistence"
	"github.com/hupe1980/fmgo/resource"
)

type saveOptions struct {
	compression persistence.Compression
}

// SaveOption configures serialization.
type SaveOption func(*saveOptions)

// WithCompression selects the section compression codec. The codec is
// recorded in the file header; Load never needs to be told.
func WithCompression(c persistence.Compression) SaveOption {
	return func(o *saveOptions) {
		o.compression = c
	}
}

// Save serializes the index: a validated header, then the BWT, occurrence
// table, sampled suffix array and lookup table in that fixed order, then a
// checksum trailer.
func (idx *Index) Save(w io.Writer, optFns ...SaveOption) error {
	if idx == nil {
		return ErrNotBuilt
	}
	start := time.Now()
	err := idx.save(w, optFns)
	idx.metrics.RecordSave(time.Since(start), err)
	return err
}

func (idx *Index) save(w io.Writer, optFns []SaveOption) error {
	var so saveOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&so)
		}
	}

	sw := persistence.NewSectionWriter(w, so.compression)

	if err := sw.WriteHeader(&persistence.FileHeader{
		SeqLen:      idx.n,
		SentinelRow: idx.sentinelRow,
		LookupLen:   uint32(idx.config.LookupLen),
		L1:          uint32(idx.config.L1),
		L2:          uint32(idx.config.L2),
		SAInterval:  uint32(idx.config.SAInterval),
	}); err != nil {
		return err
	}

	if err := sw.WriteUint64Section(idx.bwt.Words()); err != nil {
		return err
	}
	if err := sw.WriteUint64Section(idx.occ.Coarse()); err != nil {
		return err
	}
	if err := sw.WriteUint16Section(idx.occ.Fine()); err != nil {
		return err
	}
	bitmap, err := idx.samples.BitmapBytes()
	if err != nil {
		return err
	}
	if err := sw.WriteSection(bitmap); err != nil {
		return err
	}
	if err := sw.WriteUint64Section(idx.samples.Values()); err != nil {
		return err
	}
	if err := sw.WriteUint64Section(idx.lookup.Ranges()); err != nil {
		return err
	}
	return sw.WriteChecksum()
}

// Load deserializes an index written by Save, re-validating the structural
// invariants of every section before the index becomes visible. Violations
// are reported as *CorruptIndexError.
func Load(r io.Reader, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)
	start := time.Now()

	idx, err := load(r, o)

	o.metrics.RecordLoad(time.Since(start), err)
	if idx != nil {
		o.logger.LogLoad(context.Background(), "", idx.n, err)
	}
	return idx, err
}

func load(r io.Reader, o options) (*Index, error) {
	sr := persistence.NewSectionReader(r)

	header, err := sr.ReadHeader()
	if err != nil {
		return nil, corrupt("header", err)
	}

	cfg := Config{
		LookupLen:  int(header.LookupLen),
		L1:         int(header.L1),
		L2:         int(header.L2),
		SAInterval: int(header.SAInterval),
	}
	// The ceiling only guards builds; a loaded table already paid its memory.
	if err := validateConfig(cfg, ^uint64(0)); err != nil {
		return nil, corrupt("header", err)
	}
	n := header.SeqLen
	if header.SentinelRow > n {
		return nil, corrupt("header", errSentinelRow(header.SentinelRow, n))
	}

	idx := &Index{
		n:           n,
		sentinelRow: header.SentinelRow,
		config:      cfg,
		logger:      o.logger,
		metrics:     o.metrics,
		controller:  o.controller,
	}

	bwtWords, err := sr.ReadUint64Section()
	if err != nil {
		return nil, corrupt("bwt", err)
	}
	idx.bwt = dna.PackedSeqFromWords(bwtWords, int(n)+1)
	if idx.bwt == nil {
		return nil, corrupt("bwt", errSectionLen("bwt", len(bwtWords)))
	}

	coarse, err := sr.ReadUint64Section()
	if err != nil {
		return nil, corrupt("occurrence", err)
	}
	fine, err := sr.ReadUint16Section()
	if err != nil {
		return nil, corrupt("occurrence", err)
	}
	idx.occ, err = occtable.FromParts(idx.bwt, idx.sentinelRow, cfg.L1, cfg.L2, coarse, fine)
	if err != nil {
		return nil, corrupt("occurrence", err)
	}

	// Rebuild the C array from ranks; sum mismatch catches an occurrence
	// table that disagrees with the recorded sequence length.
	idx.counts[0] = 1
	for c := 0; c < 4; c++ {
		idx.counts[c+1] = idx.counts[c] + idx.occ.Rank(dna.Base(c), n+1)
	}
	if idx.counts[4] != n+1 {
		return nil, corrupt("occurrence", errBaseCount(idx.counts[4], n+1))
	}

	bitmap, err := sr.ReadSection()
	if err != nil {
		return nil, corrupt("samples", err)
	}
	values, err := sr.ReadUint64Section()
	if err != nil {
		return nil, corrupt("samples", err)
	}
	idx.samples, err = sasample.FromParts(bitmap, values, cfg.SAInterval)
	if err != nil {
		return nil, corrupt("samples", err)
	}
	for _, v := range values {
		if v > n || v%uint64(cfg.SAInterval) != 0 {
			return nil, corrupt("samples", errSampleValue(v, n, cfg.SAInterval))
		}
	}

	ranges, err := sr.ReadUint64Section()
	if err != nil {
		return nil, corrupt("lookup", err)
	}
	idx.lookup, err = lookup.FromParts(cfg.LookupLen, n+1, ranges)
	if err != nil {
		return nil, corrupt("lookup", err)
	}

	if err := sr.VerifyChecksum(); err != nil {
		return nil, corrupt("checksum", err)
	}
	return idx, nil
}

// SaveFile writes the index to a file atomically (temp file + rename).
func (idx *Index) SaveFile(filename string, optFns ...SaveOption) error {
	if idx == nil {
		return ErrNotBuilt
	}
	start := time.Now()
	err := persistence.SaveToFile(filename, func(w io.Writer) error {
		return idx.save(w, optFns)
	})
	idx.metrics.RecordSave(time.Since(start), err)
	idx.logger.LogSave(context.Background(), filename, time.Since(start), err)
	return err
}

// LoadFile reads an index from a file.
func LoadFile(filename string, optFns ...Option) (*Index, error) {
	var idx *Index
	err := persistence.LoadFromFile(filename, func(r io.Reader) error {
		var loadErr error
		idx, loadErr = Load(r, optFns...)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// SaveToStore serializes the index and writes it to a blob store under the
// given name. If the index was built with a resource controller carrying an
// IO limit, the upload is throttled to it.
func (idx *Index) SaveToStore(ctx context.Context, store blobstore.Store, name string, optFns ...SaveOption) error {
	if idx == nil {
		return ErrNotBuilt
	}
	start := time.Now()

	var buf bytes.Buffer
	var w io.Writer = &buf
	if idx.controller != nil {
		w = resource.NewRateLimitedWriter(ctx, w, idx.controller)
	}
	if err := idx.save(w, optFns); err != nil {
		idx.metrics.RecordSave(time.Since(start), err)
		return err
	}
	err := store.Put(ctx, name, buf.Bytes())

	idx.metrics.RecordSave(time.Since(start), err)
	idx.logger.LogSave(ctx, name, time.Since(start), err)
	return err
}

// LoadFromStore reads an index from a blob store. Mappable blobs (local
// files) are decoded straight from the mapping. A resource controller passed
// via WithResourceController throttles the download to its IO limit.
func LoadFromStore(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	var data []byte
	if m, ok := blob.(blobstore.Mappable); ok {
		data, err = m.Bytes()
		if err != nil {
			return nil, err
		}
	} else {
		data = make([]byte, blob.Size())
		if _, err := io.ReadFull(io.NewSectionReader(blob, 0, blob.Size()), data); err != nil {
			return nil, err
		}
	}

	var r io.Reader = bytes.NewReader(data)
	if o.controller != nil {
		r = resource.NewRateLimitedReader(ctx, r, o.controller)
	}
	return Load(r, optFns...)
}
