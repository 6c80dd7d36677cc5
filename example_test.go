package fmgo_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/hupe1980/fmgo"
	"github.com/hupe1980/fmgo/dna"
	"github.com/hupe1980/fmgo/persistence"
)

func Example() {
	seq, err := dna.Encode([]byte("GATTACAGATTACA"))
	if err != nil {
		log.Fatal(err)
	}

	idx, err := fmgo.Build(context.Background(), seq)
	if err != nil {
		log.Fatal(err)
	}

	query, err := dna.ParseBases([]byte("ATT"))
	if err != nil {
		log.Fatal(err)
	}

	r, err := idx.Range(query, 0)
	if err != nil {
		log.Fatal(err)
	}

	offsets, err := idx.Offsets(r)
	if err != nil {
		log.Fatal(err)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	fmt.Printf("occurrences: %d\n", r.Count())
	fmt.Printf("offsets: %v\n", offsets)
	// Output:
	// occurrences: 2
	// offsets: [1 8]
}

func Example_partialMatch() {
	seq, err := dna.Encode([]byte("ACGACGACG"))
	if err != nil {
		log.Fatal(err)
	}

	idx, err := fmgo.Build(context.Background(), seq)
	if err != nil {
		log.Fatal(err)
	}

	// T never occurs, so only the trailing "ACG" of the query matches.
	query, err := dna.ParseBases([]byte("TACG"))
	if err != nil {
		log.Fatal(err)
	}

	r, err := idx.Range(query, 0)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("matched %d of %d bases\n", r.MatchedLen, len(query))
	fmt.Printf("occurrences of the matched suffix: %d\n", r.Count())
	// Output:
	// matched 3 of 4 bases
	// occurrences of the matched suffix: 3
}

func Example_persistence() {
	seq, err := dna.Encode([]byte("GATTACAGATTACA"))
	if err != nil {
		log.Fatal(err)
	}

	idx, err := fmgo.Build(context.Background(), seq, fmgo.WithLookupLen(4))
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := idx.Save(&buf, fmgo.WithCompression(persistence.CompressionZstd)); err != nil {
		log.Fatal(err)
	}

	loaded, err := fmgo.Load(&buf)
	if err != nil {
		log.Fatal(err)
	}

	query, err := dna.ParseBases([]byte("GATTACA"))
	if err != nil {
		log.Fatal(err)
	}

	r, err := loaded.Range(query, 0)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("occurrences after reload: %d\n", r.Count())
	// Output:
	// occurrences after reload: 2
}
