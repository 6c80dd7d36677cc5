// Package persistence implements the binary on-disk format for fmgo indexes:
// a validated fixed-size header followed by length-prefixed, optionally
// compressed sections and a CRC32 trailer computed over the raw section
// payloads. Sections are written and read in the fixed order chosen by the
// engine; this package only provides the order-preserving byte codec.
package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"unsafe"
)

var byteOrder = binary.LittleEndian

// SectionWriter writes the header, a series of sections, and the checksum
// trailer. The checksum covers the uncompressed section payloads, so it is
// stable across compression codecs.
type SectionWriter struct {
	w    io.Writer
	comp Compression
	crc  hash.Hash32
}

// NewSectionWriter creates a writer emitting sections with the given codec.
func NewSectionWriter(w io.Writer, comp Compression) *SectionWriter {
	return &SectionWriter{
		w:    w,
		comp: comp,
		crc:  crc32.NewIEEE(),
	}
}

// WriteHeader writes the file header. Magic, version and compression are
// filled in by the writer.
func (sw *SectionWriter) WriteHeader(header *FileHeader) error {
	header.Magic = MagicNumber
	header.Version = Version
	header.Compression = uint8(sw.comp)
	return binary.Write(sw.w, byteOrder, header)
}

// WriteSection writes one length-prefixed section. A section whose encoded
// form would not shrink is stored raw; readers detect that from the equal
// length prefixes.
func (sw *SectionWriter) WriteSection(data []byte) error {
	if _, err := sw.crc.Write(data); err != nil {
		return err
	}

	enc, err := compress(sw.comp, data)
	if err != nil {
		return err
	}
	if len(enc) >= len(data) {
		enc = data
	}

	var prefix [16]byte
	byteOrder.PutUint64(prefix[0:], uint64(len(data)))
	byteOrder.PutUint64(prefix[8:], uint64(len(enc)))
	if _, err := sw.w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = sw.w.Write(enc)
	return err
}

// WriteUint64Section writes a uint64 slice as one section (zero-copy view).
func (sw *SectionWriter) WriteUint64Section(s []uint64) error {
	return sw.WriteSection(uint64Bytes(s))
}

// WriteUint16Section writes a uint16 slice as one section (zero-copy view).
func (sw *SectionWriter) WriteUint16Section(s []uint16) error {
	return sw.WriteSection(uint16Bytes(s))
}

// WriteChecksum terminates the file with the CRC32 trailer.
func (sw *SectionWriter) WriteChecksum() error {
	var trailer [4]byte
	byteOrder.PutUint32(trailer[:], sw.crc.Sum32())
	_, err := sw.w.Write(trailer[:])
	return err
}

// SectionReader reads files produced by SectionWriter.
type SectionReader struct {
	r    io.Reader
	comp Compression
	crc  hash.Hash32
}

// NewSectionReader creates a reader. The compression codec is taken from the
// header, not from the caller.
func NewSectionReader(r io.Reader) *SectionReader {
	return &SectionReader{r: r, crc: crc32.NewIEEE()}
}

// ReadHeader reads and validates the file header.
func (sr *SectionReader) ReadHeader() (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(sr.r, byteOrder, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	if Compression(header.Compression) > CompressionLZ4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCompression, header.Compression)
	}
	sr.comp = Compression(header.Compression)
	return &header, nil
}

// ReadSection reads one section into a fresh byte slice.
func (sr *SectionReader) ReadSection() ([]byte, error) {
	var prefix [16]byte
	if _, err := io.ReadFull(sr.r, prefix[:]); err != nil {
		return nil, err
	}
	rawLen := byteOrder.Uint64(prefix[0:])
	encLen := byteOrder.Uint64(prefix[8:])
	if encLen > rawLen {
		return nil, fmt.Errorf("section prefix corrupt: encoded %d exceeds raw %d", encLen, rawLen)
	}

	enc := make([]byte, encLen)
	if _, err := io.ReadFull(sr.r, enc); err != nil {
		return nil, err
	}

	data := enc
	if encLen != rawLen {
		var err error
		data, err = decompress(sr.comp, enc, int(rawLen))
		if err != nil {
			return nil, err
		}
	}
	if _, err := sr.crc.Write(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadUint64Section reads one section as a uint64 slice.
func (sr *SectionReader) ReadUint64Section() ([]uint64, error) {
	data, err := sr.ReadSection()
	if err != nil {
		return nil, err
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("section length %d is not a multiple of 8", len(data))
	}
	out := make([]uint64, len(data)/8)
	copy(uint64Bytes(out), data)
	return out, nil
}

// ReadUint16Section reads one section as a uint16 slice.
func (sr *SectionReader) ReadUint16Section() ([]uint16, error) {
	data, err := sr.ReadSection()
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("section length %d is not a multiple of 2", len(data))
	}
	out := make([]uint16, len(data)/2)
	copy(uint16Bytes(out), data)
	return out, nil
}

// VerifyChecksum reads the trailer and compares it to the running checksum.
func (sr *SectionReader) VerifyChecksum() error {
	var trailer [4]byte
	if _, err := io.ReadFull(sr.r, trailer[:]); err != nil {
		return err
	}
	expected := byteOrder.Uint32(trailer[:])
	if actual := sr.crc.Sum32(); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// ChecksumMismatchError is returned when the trailer does not match the
// section payloads.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// uint64Bytes views a uint64 slice as raw little-endian bytes without
// copying. Allocated slices are always suitably aligned.
func uint64Bytes(s []uint64) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
}

func uint16Bytes(s []uint16) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*2)
}

// SaveToFile writes a file atomically: the payload goes to a temp file in
// the same directory which is renamed over the target on success.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile reads a file through a buffered reader.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}
