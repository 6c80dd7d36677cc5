// Package fasta reads FASTA-formatted sequence records and folds IUPAC
// ambiguity codes onto the four-letter alphabet the index accepts. It is the
// minimal sequence-source collaborator of the engine: records read here are
// folded, encoded with dna.Encode, and handed to fmgo.Build.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Record is one FASTA sequence with its header line split into the ID
// (first word) and the remaining description.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// Read parses all records from r. Sequence lines are concatenated verbatim;
// no alphabet validation happens here (see FoldAmbiguous and dna.Encode).
func Read(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var records []Record
	var cur *Record
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		if text[0] == '>' {
			records = append(records, Record{})
			cur = &records[len(records)-1]
			header := bytes.TrimSpace(text[1:])
			if i := bytes.IndexByte(header, ' '); i >= 0 {
				cur.ID = string(header[:i])
				cur.Description = string(bytes.TrimSpace(header[i+1:]))
			} else {
				cur.ID = string(header)
			}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("fasta: line %d: sequence data before first header", line)
		}
		cur.Seq = append(cur.Seq, text...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("fasta: no records found")
	}
	return records, nil
}

// ReadFile parses all records from the named file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReaderSize(f, 256*1024))
}

// foldTable maps every IUPAC nucleotide code (and U) to a fixed member of
// its constituent set, so folding is deterministic and reproducible across
// runs. Everything else maps to zero and is rejected.
var foldTable [256]byte

func init() {
	assign := func(code byte, base byte) {
		foldTable[code] = base
		foldTable[code|0x20] = base // lower case
	}
	assign('A', 'A')
	assign('C', 'C')
	assign('G', 'G')
	assign('T', 'T')
	assign('U', 'T')
	assign('R', 'A') // A/G
	assign('Y', 'C') // C/T
	assign('S', 'C') // C/G
	assign('W', 'A') // A/T
	assign('K', 'G') // G/T
	assign('M', 'A') // A/C
	assign('B', 'C') // C/G/T
	assign('D', 'A') // A/G/T
	assign('H', 'A') // A/C/T
	assign('V', 'A') // A/C/G
	assign('N', 'A')
}

// FoldAmbiguous maps IUPAC ambiguity codes deterministically onto ACGT,
// returning a new upper-case slice. Bytes outside the IUPAC alphabet are
// reported, not folded.
func FoldAmbiguous(seq []byte) ([]byte, error) {
	out := make([]byte, len(seq))
	for i, b := range seq {
		f := foldTable[b]
		if f == 0 {
			return nil, fmt.Errorf("fasta: byte %q at position %d is not an IUPAC nucleotide code", b, i)
		}
		out[i] = f
	}
	return out, nil
}
