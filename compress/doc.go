// Package compress provides compression and decompression codecs for sevo
// binary payloads.
//
// The sevo wire format mandates deflate for compressed byte arrays written by
// the binary output (see the codec package): a compressed blob stores the
// uncompressed length, the compressed length and the deflate stream. The
// Deflate codec in this package implements that stage.
//
// The remaining codecs (S2, LZ4, Zstd, NoOp) are offered for callers that
// compress whole serialized payloads out-of-band, where the algorithm choice
// is theirs rather than the wire format's.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// All codecs are stateless values and safe for concurrent use; internal
// encoder/decoder instances are pooled.
package compress
