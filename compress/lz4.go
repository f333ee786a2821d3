package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

type LZ4Compressor struct{}

var _ Codec = LZ4Compressor{}

// NewLZ4Compressor creates a new LZ4 block compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 block compression.
//
// The output is framed as a 4-byte big-endian original length followed by the
// LZ4 block, so Decompress can size its destination buffer exactly.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bound := lz4.CompressBlockBound(len(data))
	dst := make([]byte, 4+bound)
	dst[0] = byte(len(data) >> 24)
	dst[1] = byte(len(data) >> 16)
	dst[2] = byte(len(data) >> 8)
	dst[3] = byte(len(data))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[4:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible input; store the raw bytes.
		copied := copy(dst[4:], data)
		return dst[:4+copied], nil
	}

	return dst[:4+n], nil
}

// Decompress decompresses an LZ4 block produced by Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, errors.New("lz4: truncated block header")
	}

	origLen := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if origLen < 0 {
		return nil, errors.New("lz4: invalid original length")
	}

	block := data[4:]
	if len(block) == origLen {
		// Raw passthrough of incompressible input.
		out := make([]byte, origLen)
		copy(out, block)

		return out, nil
	}

	out := make([]byte, origLen)
	n, err := lz4.UncompressBlock(block, out)
	if err != nil {
		return nil, err
	}
	if n != origLen {
		return nil, errors.New("lz4: decompressed size mismatch")
	}

	return out, nil
}
