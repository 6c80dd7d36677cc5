package benchmark_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/fmgo"
	"github.com/hupe1980/fmgo/dna"
	"github.com/hupe1980/fmgo/persistence"
	"github.com/hupe1980/fmgo/testutil"
)

func buildFixture(b *testing.B, n int, optFns ...fmgo.Option) (*fmgo.Index, []byte) {
	b.Helper()

	rng := testutil.NewRNG(4711)
	text := rng.Sequence(n)

	seq, err := dna.Encode(text)
	if err != nil {
		b.Fatalf("encode: %v", err)
	}
	idx, err := fmgo.Build(context.Background(), seq, optFns...)
	if err != nil {
		b.Fatalf("build: %v", err)
	}
	return idx, text
}

func BenchmarkBuild(b *testing.B) {
	for _, n := range []int{10_000, 100_000, 1_000_000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := testutil.NewRNG(4711)
			seq, err := dna.Encode(rng.Sequence(n))
			if err != nil {
				b.Fatalf("encode: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				idx, err := fmgo.Build(context.Background(), seq)
				if err != nil {
					b.Fatalf("build: %v", err)
				}
				_ = idx.Close()
			}
		})
	}
}

func BenchmarkRange(b *testing.B) {
	idx, text := buildFixture(b, 1_000_000)
	rng := testutil.NewRNG(42)

	for _, length := range []int{4, 8, 20, 50} {
		b.Run(fmt.Sprintf("len=%d", length), func(b *testing.B) {
			queries := make([][]dna.Base, 64)
			for i := range queries {
				pattern, _ := rng.Substring(text, length)
				q, err := dna.ParseBases(pattern)
				if err != nil {
					b.Fatalf("parse: %v", err)
				}
				queries[i] = q
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := idx.Range(queries[i%len(queries)], 0); err != nil {
					b.Fatalf("range: %v", err)
				}
			}
		})
	}
}

func BenchmarkOffsets(b *testing.B) {
	// Sparser suffix-array samples shrink the index but pay LF walk-back
	// steps per offset; this shows the trade-off.
	for _, interval := range []int{1, 8, 32} {
		b.Run(fmt.Sprintf("sa_interval=%d", interval), func(b *testing.B) {
			idx, text := buildFixture(b, 500_000, fmgo.WithSAInterval(interval))
			rng := testutil.NewRNG(7)

			pattern, _ := rng.Substring(text, 10)
			q, err := dna.ParseBases(pattern)
			if err != nil {
				b.Fatalf("parse: %v", err)
			}
			r, err := idx.Range(q, 0)
			if err != nil {
				b.Fatalf("range: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := idx.Offsets(r); err != nil {
					b.Fatalf("offsets: %v", err)
				}
			}
		})
	}
}

func BenchmarkSave(b *testing.B) {
	idx, _ := buildFixture(b, 500_000)

	compressions := []persistence.Compression{
		persistence.CompressionNone,
		persistence.CompressionZstd,
		persistence.CompressionLZ4,
	}
	for _, comp := range compressions {
		b.Run(comp.String(), func(b *testing.B) {
			var buf bytes.Buffer
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := idx.Save(&buf, fmgo.WithCompression(comp)); err != nil {
					b.Fatalf("save: %v", err)
				}
			}
			b.ReportMetric(float64(buf.Len()), "bytes/index")
		})
	}
}

func BenchmarkLoad(b *testing.B) {
	idx, _ := buildFixture(b, 500_000)

	var buf bytes.Buffer
	if err := idx.Save(&buf, fmgo.WithCompression(persistence.CompressionZstd)); err != nil {
		b.Fatalf("save: %v", err)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fmgo.Load(bytes.NewReader(data)); err != nil {
			b.Fatalf("load: %v", err)
		}
	}
}
