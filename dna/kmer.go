package dna

// Kmer is the integer encoding of a short base sequence: the base-4
// positional value with the first base in the most significant digits.
// A uint64 holds k-mers up to MaxKmerLen bases.
type Kmer uint64

// MaxKmerLen is the longest k-mer representable in a Kmer.
const MaxKmerLen = 31

// HashKmer packs bases into their integer encoding. The caller must keep
// len(bases) <= MaxKmerLen; longer inputs silently overflow.
func HashKmer(bases []Base) Kmer {
	var k Kmer
	for _, b := range bases {
		k = k<<2 | Kmer(b&3)
	}
	return k
}

// UnhashKmer is the exact inverse of HashKmer for a k-mer of length n:
// UnhashKmer(HashKmer(s), len(s)) == s.
func UnhashKmer(k Kmer, n int) []Base {
	out := make([]Base, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = Base(k & 3)
		k >>= 2
	}
	return out
}

// KmerCount returns the number of distinct k-mers of length k, i.e. 4^k.
func KmerCount(k int) uint64 {
	return 1 << (2 * uint(k))
}

// ReverseComplement returns the reverse complement of a k-mer of length n.
func (k Kmer) ReverseComplement(n int) Kmer {
	var rc Kmer
	for i := 0; i < n; i++ {
		rc = rc<<2 | (3 - k&3)
		k >>= 2
	}
	return rc
}
