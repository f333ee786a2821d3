package codec

import (
	"math"

	"github.com/evrium/sevo/compress"
	"github.com/evrium/sevo/endian"
	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/internal/pool"
)

// Output is the primitive write surface of the wire format. All multi-byte
// values are big-endian; variable-length integers use base-128 groups with
// optional zigzag pre-coding.
type Output interface {
	// WriteByte writes a single raw byte.
	WriteByte(b byte) error

	// WriteInt8 writes a signed byte.
	WriteInt8(v int8) error

	// WriteInt16 writes a big-endian two's complement 16-bit integer.
	WriteInt16(v int16) error

	// WriteInt32 writes a big-endian two's complement 32-bit integer.
	WriteInt32(v int32) error

	// WriteInt64 writes a big-endian two's complement 64-bit integer.
	WriteInt64(v int64) error

	// WriteFloat32 writes an IEEE 754 bit pattern in big-endian byte order.
	WriteFloat32(v float32) error

	// WriteFloat64 writes an IEEE 754 bit pattern in big-endian byte order.
	WriteFloat64(v float64) error

	// WriteBool writes one byte: 0x01 for true, 0x00 for false.
	WriteBool(v bool) error

	// WriteBytes writes raw bytes with no length prefix.
	WriteBytes(p []byte) error

	// WriteVarInt writes a 32-bit integer in 1-5 bytes. When
	// optimizeForPositive is false the value is zigzag-coded first, keeping
	// small negative values compact.
	WriteVarInt(v int32, optimizeForPositive bool) error

	// WriteCompressedByteArray writes data as a deflate-compressed blob:
	// varint uncompressed length, varint compressed length, then the deflate
	// stream. Empty input writes a single varint 0.
	WriteCompressedByteArray(data []byte, level int) error
}

// BufferOutput is an Output backed by a pooled in-memory buffer.
type BufferOutput struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

var _ Output = (*BufferOutput)(nil)

// NewBufferOutput creates a buffer-backed Output drawing from the record
// buffer pool. Call Release when the bytes have been consumed.
func NewBufferOutput() *BufferOutput {
	return &BufferOutput{
		buf:    pool.GetRecordBuffer(),
		engine: endian.GetBigEndianEngine(),
	}
}

// newChunkOutput creates a buffer-backed Output sized for a record chunk.
func newChunkOutput() *BufferOutput {
	return &BufferOutput{
		buf:    pool.GetChunkBuffer(),
		engine: endian.GetBigEndianEngine(),
	}
}

// Bytes returns the written bytes. The slice shares the underlying buffer
// and is valid until Release.
func (o *BufferOutput) Bytes() []byte {
	return o.buf.Bytes()
}

// Len returns the number of bytes written.
func (o *BufferOutput) Len() int {
	return o.buf.Len()
}

// Release returns the underlying buffer to its pool. The output must not be
// used afterwards.
func (o *BufferOutput) Release() {
	if o.buf == nil {
		return
	}
	pool.PutRecordBuffer(o.buf)
	o.buf = nil
}

func (o *BufferOutput) releaseChunk() {
	if o.buf == nil {
		return
	}
	pool.PutChunkBuffer(o.buf)
	o.buf = nil
}

func (o *BufferOutput) WriteByte(b byte) error {
	o.buf.B = append(o.buf.B, b)
	return nil
}

func (o *BufferOutput) WriteInt8(v int8) error {
	return o.WriteByte(byte(v))
}

func (o *BufferOutput) WriteInt16(v int16) error {
	o.buf.B = o.engine.AppendUint16(o.buf.B, uint16(v))
	return nil
}

func (o *BufferOutput) WriteInt32(v int32) error {
	o.buf.B = o.engine.AppendUint32(o.buf.B, uint32(v))
	return nil
}

func (o *BufferOutput) WriteInt64(v int64) error {
	o.buf.B = o.engine.AppendUint64(o.buf.B, uint64(v))
	return nil
}

func (o *BufferOutput) WriteFloat32(v float32) error {
	o.buf.B = o.engine.AppendUint32(o.buf.B, math.Float32bits(v))
	return nil
}

func (o *BufferOutput) WriteFloat64(v float64) error {
	o.buf.B = o.engine.AppendUint64(o.buf.B, math.Float64bits(v))
	return nil
}

func (o *BufferOutput) WriteBool(v bool) error {
	if v {
		return o.WriteByte(0x01)
	}

	return o.WriteByte(0x00)
}

func (o *BufferOutput) WriteBytes(p []byte) error {
	o.buf.MustWrite(p)
	return nil
}

func (o *BufferOutput) WriteVarInt(v int32, optimizeForPositive bool) error {
	adj := uint32(v)
	if !optimizeForPositive {
		// Zigzag: small negatives become small positives.
		adj = uint32((v << 1) ^ (v >> 31))
	}

	for adj >= 0x80 {
		if err := o.WriteByte(byte(adj) | 0x80); err != nil {
			return err
		}
		adj >>= 7
	}

	return o.WriteByte(byte(adj))
}

func (o *BufferOutput) WriteCompressedByteArray(data []byte, level int) error {
	if len(data) == 0 {
		return o.WriteVarInt(0, true)
	}

	compressed, err := compress.NewDeflateCompressorLevel(level).Compress(data)
	if err != nil {
		return errs.Serialization("failed to compress byte array", err)
	}

	if err := o.WriteVarInt(int32(len(data)), true); err != nil {
		return err
	}
	if err := o.WriteVarInt(int32(len(compressed)), true); err != nil {
		return err
	}

	return o.WriteBytes(compressed)
}
