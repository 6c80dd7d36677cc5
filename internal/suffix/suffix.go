// Package suffix constructs the suffix array of a packed DNA sequence.
//
// Construction partitions suffixes into buckets keyed by a fixed-length
// prefix, sorts the buckets independently on a bounded worker pool, and
// concatenates them in key order. Two suffixes that share a bucket agree on
// the whole prefix, so bucket-local sorting by direct suffix comparison
// yields the global order; the concatenation is the only synchronization
// point. The conceptual sentinel at position N sorts before every base, so
// the order is always total and tie-free.
package suffix

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/fmgo/dna"
)

// prefixLen is the bucket key length in bases. Keys are base-5 digits
// (sentinel plus four bases), so 5^prefixLen must fit a uint32.
const prefixLen = 8

// Build returns the suffix array of seq: a permutation of [0, N] ordered by
// the lexicographic order of the suffixes, with position N standing for the
// empty (sentinel) suffix. workers <= 0 means GOMAXPROCS.
func Build(ctx context.Context, seq *dna.PackedSeq, workers int) ([]uint64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := seq.Len()
	if n == 0 {
		return []uint64{0}, nil
	}

	keys := prefixKeys(seq)

	// Group suffix starts by prefix key. Equal keys either share the full
	// prefix or denote the same sentinel-truncated suffix, so buckets are
	// disjoint and internally sortable without looking at neighbors.
	buckets := make(map[uint32][]uint64)
	for i := 0; i <= n; i++ {
		k := keys[i]
		buckets[k] = append(buckets[k], uint64(i))
	}
	order := make([]uint32, 0, len(buckets))
	for k := range buckets {
		order = append(order, k)
	}
	sort.Slice(order, func(a, b int) bool { return order[a] < order[b] })

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, k := range order {
		b := buckets[k]
		if len(b) < 2 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// All members share the first prefixLen bases; compare the rest.
			sort.Slice(b, func(x, y int) bool {
				return less(seq, int(b[x])+prefixLen, int(b[y])+prefixLen)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sa := make([]uint64, 0, n+1)
	for _, k := range order {
		sa = append(sa, buckets[k]...)
	}
	return sa, nil
}

// prefixKeys computes, for every suffix start, the base-5 encoding of its
// first prefixLen symbols with the sentinel as digit zero. Computed right to
// left with a rolling update, O(N).
func prefixKeys(seq *dna.PackedSeq) []uint32 {
	n := seq.Len()
	high := uint32(1)
	for i := 0; i < prefixLen-1; i++ {
		high *= 5
	}

	keys := make([]uint32, n+1)
	keys[n] = 0 // empty suffix: all sentinel digits
	for i := n - 1; i >= 0; i-- {
		keys[i] = high*uint32(seq.Get(i)+1) + keys[i+1]/5
	}
	return keys
}

// less compares the suffixes starting at i and j symbol by symbol.
// Running off the end (the sentinel) compares smaller than any base.
func less(seq *dna.PackedSeq, i, j int) bool {
	n := seq.Len()
	for {
		if i >= n {
			return true
		}
		if j >= n {
			return false
		}
		ci, cj := seq.Get(i), seq.Get(j)
		if ci != cj {
			return ci < cj
		}
		i++
		j++
	}
}
