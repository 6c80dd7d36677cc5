// Package testutil provides testing utilities for fmgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random DNA sequences and an exact
// brute-force substring search used as ground truth when verifying
// index answers.
//
// # Random Sequence Generation
//
//	rng := testutil.NewRNG(seed)
//	seq := rng.Bases(10_000)      // random []dna.Base
//	text := rng.Sequence(10_000)  // random ASCII "ACGT..." text
//
// # Exact Search (Ground Truth)
//
//	offsets := testutil.BruteForceSearch(text, pattern)
package testutil
