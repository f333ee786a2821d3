package compress

// ZstdCompressor provides Zstandard compression for whole serialized payloads.
//
// Two implementations exist behind build tags: the default pure-Go
// implementation (klauspost/compress/zstd) and a cgo implementation backed by
// valyala/gozstd, selected with the sevo_cgo_zstd build tag. Both produce
// interchangeable Zstandard frames.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
