package persistence

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Shared stateless codecs. The zstd encoder/decoder are concurrency-safe
// when used through EncodeAll/DecodeAll.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func zstdCodecs() (*zstd.Encoder, *zstd.Decoder) {
	zstdOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		zstdDecoder, _ = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder
}

func compress(comp Compression, data []byte) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		enc, _ := zstdCodecs()
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var c lz4.Compressor
		n, err := c.CompressBlock(data, dst)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Incompressible; the caller stores the section raw.
			return data, nil
		}
		return dst[:n], nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, comp)
	}
}

func decompress(comp Compression, enc []byte, rawLen int) ([]byte, error) {
	switch comp {
	case CompressionZstd:
		_, dec := zstdCodecs()
		data, err := dec.DecodeAll(enc, make([]byte, 0, rawLen))
		if err != nil {
			return nil, err
		}
		if len(data) != rawLen {
			return nil, fmt.Errorf("zstd section decoded to %d bytes, expected %d", len(data), rawLen)
		}
		return data, nil
	case CompressionLZ4:
		data := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(enc, data)
		if err != nil {
			return nil, err
		}
		if n != rawLen {
			return nil, fmt.Errorf("lz4 section decoded to %d bytes, expected %d", n, rawLen)
		}
		return data, nil
	case CompressionNone:
		// A raw file never has encLen != rawLen sections.
		return nil, fmt.Errorf("%w: raw file contains compressed section", ErrInvalidCompression)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, comp)
	}
}
