// Package dna provides the 2-bit nucleotide encoding used throughout fmgo.
//
// Every other component of the library (suffix array construction, the BWT,
// rank structures, k-mer lookup) operates on the packed representation
// produced here. The accepted alphabet is exactly {A, C, G, T} (case
// insensitive); ambiguity codes must be folded by the caller before encoding
// (see package fasta for a helper).
package dna

import "fmt"

// Base is a single nucleotide encoded in 2 bits.
type Base uint8

// The four nucleotide codes. The numeric order is the lexicographic order
// used by the index.
const (
	A Base = 0
	C Base = 1
	G Base = 2
	T Base = 3
)

const alphabetSize = 4

var baseToASCII = [alphabetSize]byte{'A', 'C', 'G', 'T'}

const invalidBase = Base(255)

var asciiToBase [256]Base

func init() {
	for i := range asciiToBase {
		asciiToBase[i] = invalidBase
	}
	asciiToBase['A'], asciiToBase['a'] = A, A
	asciiToBase['C'], asciiToBase['c'] = C, C
	asciiToBase['G'], asciiToBase['g'] = G, G
	asciiToBase['T'], asciiToBase['t'] = T, T
}

// InvalidSymbolError reports an input byte outside the accepted alphabet.
type InvalidSymbolError struct {
	Byte byte
	Pos  int
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("dna: invalid symbol %q at position %d", e.Byte, e.Pos)
}

// ParseBase converts a single ASCII nucleotide to its 2-bit code.
func ParseBase(b byte) (Base, error) {
	v := asciiToBase[b]
	if v == invalidBase {
		return 0, &InvalidSymbolError{Byte: b}
	}
	return v, nil
}

// Byte returns the upper-case ASCII letter for b.
func (b Base) Byte() byte {
	return baseToASCII[b&3]
}

func (b Base) String() string {
	return string(baseToASCII[b&3])
}

// Complement returns the Watson-Crick complement (A<->T, C<->G).
func (b Base) Complement() Base {
	return 3 - b
}

// Encode packs an ASCII nucleotide string into a PackedSeq.
// The first byte outside {A,C,G,T} (case insensitive) aborts the encode
// with an *InvalidSymbolError carrying the byte and its position.
func Encode(text []byte) (*PackedSeq, error) {
	s := NewPackedSeq(len(text))
	for i, ch := range text {
		v := asciiToBase[ch]
		if v == invalidBase {
			return nil, &InvalidSymbolError{Byte: ch, Pos: i}
		}
		s.Append(v)
	}
	return s, nil
}

// Decode renders a base slice back to ASCII.
func Decode(bases []Base) []byte {
	out := make([]byte, len(bases))
	for i, b := range bases {
		out[i] = b.Byte()
	}
	return out
}

// ParseBases converts an ASCII nucleotide string to a base slice.
func ParseBases(text []byte) ([]Base, error) {
	out := make([]Base, len(text))
	for i, ch := range text {
		v := asciiToBase[ch]
		if v == invalidBase {
			return nil, &InvalidSymbolError{Byte: ch, Pos: i}
		}
		out[i] = v
	}
	return out, nil
}

// ReverseComplement returns a new slice holding the reverse complement of s.
// The input is not modified.
func ReverseComplement(s []Base) []Base {
	out := make([]Base, len(s))
	for i, b := range s {
		out[len(s)-1-i] = b.Complement()
	}
	return out
}
