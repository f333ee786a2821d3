package codec

import (
	"fmt"
	"math"

	"github.com/evrium/sevo/compress"
	"github.com/evrium/sevo/endian"
	"github.com/evrium/sevo/errs"
)

// Input is the primitive read surface of the wire format, mirroring Output.
// All operations fail with a deserialization error on truncated or malformed
// input.
type Input interface {
	// ReadByte reads a single raw byte.
	ReadByte() (byte, error)

	// ReadInt8 reads a signed byte.
	ReadInt8() (int8, error)

	// ReadInt16 reads a big-endian two's complement 16-bit integer.
	ReadInt16() (int16, error)

	// ReadInt32 reads a big-endian two's complement 32-bit integer.
	ReadInt32() (int32, error)

	// ReadInt64 reads a big-endian two's complement 64-bit integer.
	ReadInt64() (int64, error)

	// ReadFloat32 reads an IEEE 754 bit pattern in big-endian byte order.
	ReadFloat32() (float32, error)

	// ReadFloat64 reads an IEEE 754 bit pattern in big-endian byte order.
	ReadFloat64() (float64, error)

	// ReadBool reads one byte and requires it to be 0x00 or 0x01.
	ReadBool() (bool, error)

	// ReadBytes reads exactly n raw bytes.
	ReadBytes(n int) ([]byte, error)

	// ReadVarInt reads a variable-length 32-bit integer, undoing zigzag
	// coding when optimizeForPositive is false.
	ReadVarInt(optimizeForPositive bool) (int32, error)

	// ReadCompressedByteArray reads a deflate-compressed blob written by
	// WriteCompressedByteArray and returns the inflated bytes.
	ReadCompressedByteArray() ([]byte, error)

	// Remaining returns the number of unread bytes.
	Remaining() int
}

// BytesInput is an Input reading from an in-memory byte slice.
type BytesInput struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

var _ Input = (*BytesInput)(nil)

// NewBytesInput creates an Input over data. The input does not copy data;
// the caller must not mutate it while reading.
func NewBytesInput(data []byte) *BytesInput {
	return &BytesInput{
		data:   data,
		engine: endian.GetBigEndianEngine(),
	}
}

func (in *BytesInput) take(n int) ([]byte, error) {
	if in.pos+n > len(in.data) {
		return nil, errs.Deserialization(
			fmt.Sprintf("unexpected end of input: need %d bytes, have %d", n, len(in.data)-in.pos), nil)
	}

	p := in.data[in.pos : in.pos+n]
	in.pos += n

	return p, nil
}

// Remaining returns the number of unread bytes.
func (in *BytesInput) Remaining() int {
	return len(in.data) - in.pos
}

func (in *BytesInput) ReadByte() (byte, error) {
	p, err := in.take(1)
	if err != nil {
		return 0, err
	}

	return p[0], nil
}

func (in *BytesInput) ReadInt8() (int8, error) {
	b, err := in.ReadByte()
	return int8(b), err
}

func (in *BytesInput) ReadInt16() (int16, error) {
	p, err := in.take(2)
	if err != nil {
		return 0, err
	}

	return int16(in.engine.Uint16(p)), nil
}

func (in *BytesInput) ReadInt32() (int32, error) {
	p, err := in.take(4)
	if err != nil {
		return 0, err
	}

	return int32(in.engine.Uint32(p)), nil
}

func (in *BytesInput) ReadInt64() (int64, error) {
	p, err := in.take(8)
	if err != nil {
		return 0, err
	}

	return int64(in.engine.Uint64(p)), nil
}

func (in *BytesInput) ReadFloat32() (float32, error) {
	p, err := in.take(4)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(in.engine.Uint32(p)), nil
}

func (in *BytesInput) ReadFloat64() (float64, error) {
	p, err := in.take(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(in.engine.Uint64(p)), nil
}

func (in *BytesInput) ReadBool() (bool, error) {
	b, err := in.ReadByte()
	if err != nil {
		return false, err
	}

	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, errs.Deserialization(fmt.Sprintf("invalid boolean byte 0x%02X", b), nil)
	}
}

func (in *BytesInput) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errs.Deserialization(fmt.Sprintf("negative byte count %d", n), nil)
	}

	return in.take(n)
}

func (in *BytesInput) ReadVarInt(optimizeForPositive bool) (int32, error) {
	var adj uint32
	var shift uint

	for i := 0; i < 5; i++ {
		b, err := in.ReadByte()
		if err != nil {
			return 0, err
		}

		adj |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			if optimizeForPositive {
				return int32(adj), nil
			}

			// Undo zigzag.
			return int32(adj>>1) ^ -int32(adj&1), nil
		}
		shift += 7
	}

	return 0, errs.Deserialization("varint exceeds 5 bytes", nil)
}

func (in *BytesInput) ReadCompressedByteArray() ([]byte, error) {
	uncompressedLen, err := in.ReadVarInt(true)
	if err != nil {
		return nil, err
	}
	if uncompressedLen == 0 {
		return []byte{}, nil
	}
	if uncompressedLen < 0 {
		return nil, errs.Deserialization(fmt.Sprintf("negative uncompressed length %d", uncompressedLen), nil)
	}

	compressedLen, err := in.ReadVarInt(true)
	if err != nil {
		return nil, err
	}
	if compressedLen < 0 {
		return nil, errs.Deserialization(fmt.Sprintf("negative compressed length %d", compressedLen), nil)
	}

	compressed, err := in.ReadBytes(int(compressedLen))
	if err != nil {
		return nil, err
	}

	data, err := compress.NewDeflateCompressor().Decompress(compressed)
	if err != nil {
		return nil, errs.Deserialization("failed to decompress byte array", err)
	}
	if len(data) != int(uncompressedLen) {
		return nil, errs.Deserialization(
			fmt.Sprintf("decompressed size mismatch: expected %d, got %d", uncompressedLen, len(data)), nil)
	}

	return data, nil
}
