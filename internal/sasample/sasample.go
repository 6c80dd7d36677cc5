// Package sasample stores the sampled suffix array. Rows whose suffix-array
// value is a multiple of the sampling interval keep their value; every other
// row is reconstructed at query time by the engine's LF walk-back. Row
// membership is a Roaring bitmap whose rank maps a sampled row to its slot in
// the dense value array.
package sasample

import (
	"bytes"
	"errors"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

var (
	// ErrSampleMismatch is returned when the deserialized bitmap and value
	// array disagree.
	ErrSampleMismatch = errors.New("sasample: sampled row count does not match value count")
	// ErrInvalidInterval is returned for a non-positive sampling interval.
	ErrInvalidInterval = errors.New("sasample: sampling interval must be positive")
)

// Sampled holds the retained suffix-array values. Interval 1 keeps the whole
// array, trading memory for zero walk-back cost; this is the library default.
type Sampled struct {
	interval int
	rows     *roaring64.Bitmap
	values   []uint64 // indexed by bitmap rank, ascending row order
}

// New retains sa values at rows where sa[row] % interval == 0. Position 0 is
// always a multiple, so every LF walk terminates within interval steps.
func New(sa []uint64, interval int) (*Sampled, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	s := &Sampled{
		interval: interval,
		rows:     roaring64.New(),
	}
	for row, pos := range sa {
		if pos%uint64(interval) == 0 {
			s.rows.Add(uint64(row))
			s.values = append(s.values, pos)
		}
	}
	return s, nil
}

// FromParts reassembles a sampled array from its serialized bitmap and
// value section.
func FromParts(bitmap []byte, values []uint64, interval int) (*Sampled, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	rows := roaring64.New()
	if _, err := rows.ReadFrom(bytes.NewReader(bitmap)); err != nil {
		return nil, err
	}
	if rows.GetCardinality() != uint64(len(values)) {
		return nil, ErrSampleMismatch
	}
	return &Sampled{interval: interval, rows: rows, values: values}, nil
}

// Lookup returns the suffix-array value at row if it was sampled.
func (s *Sampled) Lookup(row uint64) (uint64, bool) {
	if !s.rows.Contains(row) {
		return 0, false
	}
	return s.values[s.rows.Rank(row)-1], true
}

// Interval returns the sampling interval.
func (s *Sampled) Interval() int { return s.interval }

// Count returns the number of retained values.
func (s *Sampled) Count() int { return len(s.values) }

// Values exposes the dense value array for serialization.
func (s *Sampled) Values() []uint64 { return s.values }

// BitmapBytes serializes the row-membership bitmap.
func (s *Sampled) BitmapBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.rows.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
