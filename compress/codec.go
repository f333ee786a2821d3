package compress

import "fmt"

// Type identifies a compression algorithm.
type Type uint8

const (
	TypeNone    Type = 0x1 // TypeNone represents no compression.
	TypeDeflate Type = 0x2 // TypeDeflate represents the deflate (RFC 1951) stream format.
	TypeS2      Type = 0x3 // TypeS2 represents S2 compression.
	TypeLZ4     Type = 0x4 // TypeLZ4 represents LZ4 block compression.
	TypeZstd    Type = 0x5 // TypeZstd represents Zstandard compression.
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeDeflate:
		return "Deflate"
	case TypeS2:
		return "S2"
	case TypeLZ4:
		return "LZ4"
	case TypeZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// Compressor compresses byte payloads.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses byte payloads previously produced by the matching
// Compressor. Implementations validate the data format and return an error if
// the data is corrupted or uses an incompatible format.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CodecFor returns the codec implementing the given compression type.
func CodecFor(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNoOpCompressor(), nil
	case TypeDeflate:
		return NewDeflateCompressor(), nil
	case TypeS2:
		return NewS2Compressor(), nil
	case TypeLZ4:
		return NewLZ4Compressor(), nil
	case TypeZstd:
		return NewZstdCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", uint8(t))
	}
}
