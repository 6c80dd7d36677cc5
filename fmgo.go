package fmgo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/fmgo/dna"
	"github.com/hupe1980/fmgo/internal/lookup"
	"github.com/hupe1980/fmgo/internal/occtable"
	"github.com/hupe1980/fmgo/internal/sasample"
	"github.com/hupe1980/fmgo/internal/suffix"
	"github.com/hupe1980/fmgo/resource"
)

// Index is an immutable FM-index over a packed DNA sequence. It is created
// by Build or Load and never mutated afterwards, so any number of queries
// may run concurrently against one instance without locking.
type Index struct {
	n           uint64 // indexed bases; the suffix array has n+1 rows
	bwt         *dna.PackedSeq
	sentinelRow uint64
	counts      [5]uint64 // counts[c] = first row of base c; counts[4] = n+1
	occ         *occtable.Table
	samples     *sasample.Sampled
	lookup      *lookup.Table
	config      Config

	logger  *Logger
	metrics MetricsCollector

	controller *resource.Controller
	reserved   int64
	closed     atomic.Bool
}

// Range is a suffix-array interval [Begin, End) together with the number of
// trailing query bases that produced it. MatchedLen < query length means the
// search collapsed early; the interval then locates the matched suffix of
// the query, not the query itself. Begin == End is a valid "no match".
type Range struct {
	Begin      uint64
	End        uint64
	MatchedLen int
}

// Count returns the number of suffix-array rows in the interval.
func (r Range) Count() uint64 {
	return r.End - r.Begin
}

func validateConfig(cfg Config, maxLookupBytes uint64) error {
	if err := occtable.ValidateIntervals(cfg.L1, cfg.L2); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.SAInterval <= 0 {
		return fmt.Errorf("%w: SA sampling interval must be positive, got %d", ErrInvalidConfig, cfg.SAInterval)
	}
	if cfg.LookupLen <= 0 || cfg.LookupLen > dna.MaxKmerLen {
		return fmt.Errorf("%w: lookup length must be in [1, %d], got %d", ErrInvalidConfig, dna.MaxKmerLen, cfg.LookupLen)
	}
	if est := lookup.EstimateBytes(cfg.LookupLen); est > maxLookupBytes {
		return &LookupTableTooLargeError{
			LookupLen:      cfg.LookupLen,
			EstimatedBytes: est,
			MaxBytes:       maxLookupBytes,
		}
	}
	return nil
}

// buildEstimate approximates the peak managed memory of a build: transient
// suffix-array scaffolding plus the resident index structures.
func buildEstimate(n int, cfg Config) int64 {
	rows := int64(n) + 1
	transient := 20 * rows                  // prefix keys + bucket position lists
	resident := rows + 8*rows/int64(cfg.SAInterval) // BWT words + SA samples
	resident += (rows/int64(cfg.L1)+1)*32 + (rows/int64(cfg.L2)+1)*8
	resident += int64(lookup.EstimateBytes(cfg.LookupLen))
	return transient + resident
}

// Build constructs the index: suffix array, BWT derivation, occurrence
// table, suffix-array samples, and the k-mer lookup table, in that order.
// The input sequence may be discarded once Build returns; the index owns
// all of its substructures. On error no partial index is observable.
func Build(ctx context.Context, seq *dna.PackedSeq, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)
	start := time.Now()

	idx, err := build(ctx, seq, o)

	o.metrics.RecordBuild(seq.Len(), time.Since(start), err)
	o.logger.LogBuild(ctx, seq.Len(), o.workers, time.Since(start), err)
	return idx, err
}

func build(ctx context.Context, seq *dna.PackedSeq, o options) (*Index, error) {
	// The lookup ceiling is checked before any suffix-array work.
	if err := validateConfig(o.config, o.maxLookupTableBytes); err != nil {
		return nil, err
	}

	if o.controller != nil {
		if err := o.controller.AcquireBuild(ctx); err != nil {
			return nil, err
		}
		defer o.controller.ReleaseBuild()
	}

	estimate := buildEstimate(seq.Len(), o.config)
	if err := o.controller.ReserveMemory(estimate); err != nil {
		return nil, err
	}
	released := false
	defer func() {
		if !released {
			o.controller.ReleaseMemory(estimate)
		}
	}()

	sa, err := suffix.Build(ctx, seq, o.workers)
	if err != nil {
		return nil, err
	}

	n := seq.Len()
	idx := &Index{
		n:          uint64(n),
		config:     o.config,
		logger:     o.logger,
		metrics:    o.metrics,
		controller: o.controller,
		reserved:   estimate,
	}

	// BWT[i] is the base preceding suffix sa[i]; the row where sa[i] == 0
	// conceptually holds the sentinel and carries a placeholder that every
	// rank query skips.
	idx.bwt = dna.NewPackedSeq(n + 1)
	for row, pos := range sa {
		if pos == 0 {
			idx.sentinelRow = uint64(row)
			idx.bwt.Append(0)
			continue
		}
		idx.bwt.Append(seq.Get(int(pos) - 1))
	}

	// counts[c]: first suffix-array row whose suffix starts with base c.
	// Row 0 is the sentinel's, hence the leading 1.
	var freq [4]uint64
	for i := 0; i < n; i++ {
		freq[seq.Get(i)]++
	}
	idx.counts[0] = 1
	for c := 1; c <= 4; c++ {
		idx.counts[c] = idx.counts[c-1] + freq[c-1]
	}

	idx.occ, err = occtable.New(idx.bwt, idx.sentinelRow, o.config.L1, o.config.L2)
	if err != nil {
		return nil, err
	}

	idx.samples, err = sasample.New(sa, o.config.SAInterval)
	if err != nil {
		return nil, err
	}
	sa = nil // construction scaffolding is no longer needed

	idx.lookup, err = lookup.Build(ctx, o.config.LookupLen, idx.n+1, idx.step, o.workers)
	if err != nil {
		return nil, err
	}

	released = true // ownership of the reservation moves to the index
	return idx, nil
}

// step performs one backward-search step: it narrows the interval of rows
// to those whose suffix starts with base c followed by the current match.
func (idx *Index) step(c dna.Base, begin, end uint64) (uint64, uint64) {
	return idx.counts[c] + idx.occ.Rank(c, begin),
		idx.counts[c] + idx.occ.Rank(c, end)
}

// Range performs backward search for query, scanning right to left. When the
// interval collapses, the interval from the step before the collapse is
// returned together with the number of bases matched so far, so callers can
// recognize partial (suffix) matches. allowedMismatches must be 0; other
// values return ErrUnsupportedMismatchCount.
func (idx *Index) Range(query []dna.Base, allowedMismatches int) (Range, error) {
	start := time.Now()
	r, err := idx.searchRange(query, allowedMismatches)
	idx.recordRange(len(query), start, r, err)
	return r, err
}

func (idx *Index) recordRange(queryLen int, start time.Time, r Range, err error) {
	if idx == nil {
		return
	}
	idx.metrics.RecordRange(queryLen, time.Since(start), err)
	idx.logger.LogRange(context.Background(), queryLen, r.MatchedLen, r.Count(), err)
}

func (idx *Index) searchRange(query []dna.Base, allowedMismatches int) (Range, error) {
	if idx == nil {
		return Range{}, ErrNotBuilt
	}
	if allowedMismatches != 0 {
		return Range{}, ErrUnsupportedMismatchCount
	}

	cur := Range{Begin: 0, End: idx.n + 1}
	i := len(query) - 1

	// Fast start: the lookup table already holds the interval of the
	// query's trailing k-mer. An empty table entry falls back to stepping
	// so the pre-collapse interval and matched length stay exact.
	if k := idx.lookup.K(); len(query) >= k {
		begin, end := idx.lookup.Range(dna.HashKmer(query[len(query)-k:]))
		if begin < end {
			cur = Range{Begin: begin, End: end, MatchedLen: k}
			i = len(query) - 1 - k
		}
	}

	for ; i >= 0; i-- {
		begin, end := idx.step(query[i], cur.Begin, cur.End)
		if begin >= end {
			return cur, nil
		}
		cur = Range{Begin: begin, End: end, MatchedLen: cur.MatchedLen + 1}
	}
	return cur, nil
}

// Offsets resolves every suffix-array row in the interval to its position in
// the original sequence, preserving row order. Unsampled rows walk backwards
// via LF-mapping until a sampled row is reached.
func (idx *Index) Offsets(r Range) ([]uint64, error) {
	if idx == nil {
		return nil, ErrNotBuilt
	}
	if r.Begin > r.End || r.End > idx.n+1 {
		return nil, fmt.Errorf("interval [%d, %d) is outside the suffix array of %d rows", r.Begin, r.End, idx.n+1)
	}
	start := time.Now()

	out := make([]uint64, 0, r.Count())
	for row := r.Begin; row < r.End; row++ {
		out = append(out, idx.resolve(row))
	}

	idx.metrics.RecordOffsets(len(out), time.Since(start), nil)
	return out, nil
}

// resolve returns the suffix-array value of row. Position 0 is always
// sampled, so the walk terminates within SAInterval steps.
func (idx *Index) resolve(row uint64) uint64 {
	var steps uint64
	for {
		if pos, ok := idx.samples.Lookup(row); ok {
			return pos + steps
		}
		row = idx.lf(row)
		steps++
	}
}

// lf maps a BWT row to the row of the preceding sequence position. It is
// never called on the sentinel row: that row's suffix-array value is 0,
// which is sampled under every interval.
func (idx *Index) lf(row uint64) uint64 {
	c := idx.bwt.Get(int(row))
	return idx.counts[c] + idx.occ.Rank(c, row)
}

// Len returns the number of indexed bases.
func (idx *Index) Len() uint64 {
	if idx == nil {
		return 0
	}
	return idx.n
}

// Config returns the layout parameters the index was built with.
func (idx *Index) Config() Config {
	if idx == nil {
		return Config{}
	}
	return idx.config
}

// Close releases the index's memory reservation from its resource
// controller, if any. The index itself stays queryable; Close is about
// accounting, not teardown. It is safe to call multiple times.
func (idx *Index) Close() error {
	if idx == nil {
		return nil
	}
	if idx.closed.CompareAndSwap(false, true) {
		idx.controller.ReleaseMemory(idx.reserved)
	}
	return nil
}
