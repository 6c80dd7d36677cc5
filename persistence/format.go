package persistence

import "errors"

const (
	// MagicNumber identifies fmgo index files (ASCII: "FMI0").
	MagicNumber = 0x464D4930
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000
)

// Compression selects the codec applied to section payloads. The choice is
// recorded in the file header, so readers never need to be told.
type Compression uint8

const (
	// CompressionNone stores sections raw.
	CompressionNone Compression = 0
	// CompressionZstd compresses sections with zstandard.
	CompressionZstd Compression = 1
	// CompressionLZ4 compresses sections with LZ4 block encoding.
	CompressionLZ4 Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("unknown compression codec")
)

// FileHeader is the fixed-size header at the start of every index file.
// It is validated before any section is interpreted.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	Padding1    [3]byte
	SeqLen      uint64 // number of indexed bases (N)
	SentinelRow uint64 // BWT row holding the sentinel
	LookupLen   uint32 // k-mer lookup prefix length
	L1          uint32 // coarse occurrence checkpoint interval
	L2          uint32 // fine occurrence checkpoint interval
	SAInterval  uint32 // suffix-array sampling interval
	Reserved    [16]byte
}
