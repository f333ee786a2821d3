package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// DeflateDefaultLevel is the compression level used when the caller does not
// choose one. It matches flate.DefaultCompression.
const DeflateDefaultLevel = flate.DefaultCompression

// DeflateCompressor implements the deflate (RFC 1951) stream format mandated
// by the sevo wire format for compressed byte arrays.
//
// The compressor produces a raw deflate stream with no zlib or gzip wrapper;
// the surrounding wire format stores the uncompressed length separately so
// the reader can verify the inflated size.
type DeflateCompressor struct {
	level int
}

var _ Codec = DeflateCompressor{}

// flateWriterPools pools flate.Writer instances per compression level.
// Writer creation allocates large internal tables that benefit from reuse.
var flateWriterPools sync.Map // int -> *sync.Pool

func flateWriterPool(level int) *sync.Pool {
	if p, ok := flateWriterPools.Load(level); ok {
		return p.(*sync.Pool)
	}

	p := &sync.Pool{
		New: func() any {
			w, err := flate.NewWriter(io.Discard, level)
			if err != nil {
				panic(fmt.Sprintf("failed to create flate writer for pool: %v", err))
			}
			return w
		},
	}
	actual, _ := flateWriterPools.LoadOrStore(level, p)

	return actual.(*sync.Pool)
}

// NewDeflateCompressor creates a deflate codec at the default level.
func NewDeflateCompressor() DeflateCompressor {
	return DeflateCompressor{level: DeflateDefaultLevel}
}

// NewDeflateCompressorLevel creates a deflate codec with an explicit level.
// Valid levels are flate.HuffmanOnly (-2), flate.DefaultCompression (-1) and
// flate.NoCompression (0) through flate.BestCompression (9); any other level
// falls back to the default.
func NewDeflateCompressorLevel(level int) DeflateCompressor {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = DeflateDefaultLevel
	}

	return DeflateCompressor{level: level}
}

// Level returns the configured compression level.
func (c DeflateCompressor) Level() int {
	return c.level
}

// Compress compresses the input data into a raw deflate stream.
func (c DeflateCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	pool := flateWriterPool(c.level)
	w, _ := pool.Get().(*flate.Writer)
	defer pool.Put(w)

	var out bytes.Buffer
	out.Grow(len(data)/2 + 16)
	w.Reset(&out)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate compression failed: %w", err)
	}

	return out.Bytes(), nil
}

// Decompress inflates a raw deflate stream.
func (c DeflateCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("deflate decompression failed: %w", err)
	}

	return out, nil
}
