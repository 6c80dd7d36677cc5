package dna

// PackedSeq is a dense array of 2-bit bases packed into uint64 words,
// 32 bases per word. It backs both raw sequence buffers and the BWT string.
// Get and Append are O(1); the zero value is an empty sequence.
type PackedSeq struct {
	words []uint64
	n     int
}

const basesPerWord = 32

// NewPackedSeq returns an empty sequence with capacity for n bases.
func NewPackedSeq(n int) *PackedSeq {
	return &PackedSeq{
		words: make([]uint64, 0, (n+basesPerWord-1)/basesPerWord),
	}
}

// PackedSeqFromBases packs a base slice.
func PackedSeqFromBases(bases []Base) *PackedSeq {
	s := NewPackedSeq(len(bases))
	for _, b := range bases {
		s.Append(b)
	}
	return s
}

// PackedSeqFromWords reconstructs a sequence from its raw words, e.g. after
// deserialization. The word slice is owned by the sequence afterwards.
// Returns nil if the word count does not match n.
func PackedSeqFromWords(words []uint64, n int) *PackedSeq {
	if len(words) != (n+basesPerWord-1)/basesPerWord {
		return nil
	}
	return &PackedSeq{words: words, n: n}
}

// Len returns the number of bases.
func (s *PackedSeq) Len() int { return s.n }

// Get returns the base at position i. i must be in [0, Len()).
func (s *PackedSeq) Get(i int) Base {
	return Base(s.words[i/basesPerWord] >> (uint(i%basesPerWord) * 2) & 3)
}

// Append adds a base at the end.
func (s *PackedSeq) Append(b Base) {
	if s.n%basesPerWord == 0 {
		s.words = append(s.words, 0)
	}
	s.words[s.n/basesPerWord] |= uint64(b&3) << (uint(s.n%basesPerWord) * 2)
	s.n++
}

// Words exposes the backing words for zero-copy serialization.
// The slice must not be modified.
func (s *PackedSeq) Words() []uint64 { return s.words }

// Bases unpacks the whole sequence.
func (s *PackedSeq) Bases() []Base {
	out := make([]Base, s.n)
	for i := range out {
		out[i] = s.Get(i)
	}
	return out
}

// Slice unpacks bases in [from, to).
func (s *PackedSeq) Slice(from, to int) []Base {
	out := make([]Base, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, s.Get(i))
	}
	return out
}

// ReverseComplement returns a new packed sequence holding the reverse
// complement of s.
func (s *PackedSeq) ReverseComplement() *PackedSeq {
	out := NewPackedSeq(s.n)
	for i := s.n - 1; i >= 0; i-- {
		out.Append(s.Get(i).Complement())
	}
	return out
}

// Kmer packs the k bases starting at position i into their integer encoding.
// The caller must keep i+k <= Len() and k <= MaxKmerLen.
func (s *PackedSeq) Kmer(i, k int) Kmer {
	var v Kmer
	for j := i; j < i+k; j++ {
		v = v<<2 | Kmer(s.Get(j))
	}
	return v
}
