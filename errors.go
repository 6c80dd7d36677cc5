package fmgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBuilt is returned when a query is issued against a nil index.
	// An *Index only ever exists in built form (it is returned exclusively
	// by Build and Load), so this guards API misuse, not a state machine.
	ErrNotBuilt = errors.New("index not built")

	// ErrUnsupportedMismatchCount is returned when a non-zero mismatch
	// tolerance is requested. Branching search is reserved for a future
	// version; silently degrading to exact search would be a wrong answer.
	ErrUnsupportedMismatchCount = errors.New("non-zero mismatch tolerance is not implemented")

	// ErrInvalidConfig is returned when build-time configuration violates
	// the layout rules (interval divisibility, k-mer length bounds, ...).
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CorruptIndexError indicates that a loaded index violated a structural
// invariant. The failing section and underlying cause are retained.
type CorruptIndexError struct {
	Section string
	cause   error
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("corrupt index: section %q: %v", e.Section, e.cause)
}

func (e *CorruptIndexError) Unwrap() error { return e.cause }

func corrupt(section string, cause error) error {
	return &CorruptIndexError{Section: section, cause: cause}
}

func errSentinelRow(row, n uint64) error {
	return fmt.Errorf("sentinel row %d is outside the suffix array of %d rows", row, n+1)
}

func errSectionLen(section string, got int) error {
	return fmt.Errorf("%s section has unexpected length %d", section, got)
}

func errBaseCount(got, want uint64) error {
	return fmt.Errorf("per-base counts sum to %d rows, header says %d", got, want)
}

func errSampleValue(v, n uint64, interval int) error {
	return fmt.Errorf("sampled value %d violates interval %d over %d bases", v, interval, n)
}

// LookupTableTooLargeError indicates that the configured k-mer lookup length
// would exceed the memory ceiling. It is returned before any suffix-array
// work begins.
type LookupTableTooLargeError struct {
	LookupLen      int
	EstimatedBytes uint64
	MaxBytes       uint64
}

func (e *LookupTableTooLargeError) Error() string {
	return fmt.Sprintf("lookup table for k=%d needs %d bytes, exceeding the %d byte ceiling",
		e.LookupLen, e.EstimatedBytes, e.MaxBytes)
}
