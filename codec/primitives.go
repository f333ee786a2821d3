package codec

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/internal/options"
	"github.com/evrium/sevo/types"
)

// Byte returns the codec for a single raw byte.
func Byte() Codec[byte] {
	return codecFuncs[byte]{
		serialize: func(ctx *SerializationContext, v byte) error {
			return ctx.Output().WriteByte(v)
		},
		deserialize: func(ctx *DeserializationContext) (byte, error) {
			return ctx.Input().ReadByte()
		},
	}
}

// Int8 returns the codec for a signed byte.
func Int8() Codec[int8] {
	return codecFuncs[int8]{
		serialize: func(ctx *SerializationContext, v int8) error {
			return ctx.Output().WriteInt8(v)
		},
		deserialize: func(ctx *DeserializationContext) (int8, error) {
			return ctx.Input().ReadInt8()
		},
	}
}

// Int16 returns the codec for a big-endian 16-bit integer.
func Int16() Codec[int16] {
	return codecFuncs[int16]{
		serialize: func(ctx *SerializationContext, v int16) error {
			return ctx.Output().WriteInt16(v)
		},
		deserialize: func(ctx *DeserializationContext) (int16, error) {
			return ctx.Input().ReadInt16()
		},
	}
}

// Int32 returns the codec for a big-endian 32-bit integer.
func Int32() Codec[int32] {
	return codecFuncs[int32]{
		serialize: func(ctx *SerializationContext, v int32) error {
			return ctx.Output().WriteInt32(v)
		},
		deserialize: func(ctx *DeserializationContext) (int32, error) {
			return ctx.Input().ReadInt32()
		},
	}
}

// Int64 returns the codec for a big-endian 64-bit integer.
func Int64() Codec[int64] {
	return codecFuncs[int64]{
		serialize: func(ctx *SerializationContext, v int64) error {
			return ctx.Output().WriteInt64(v)
		},
		deserialize: func(ctx *DeserializationContext) (int64, error) {
			return ctx.Input().ReadInt64()
		},
	}
}

// VarInt32 returns a codec writing 32-bit integers in variable-length form
// with zigzag coding.
func VarInt32() Codec[int32] {
	return codecFuncs[int32]{
		serialize: func(ctx *SerializationContext, v int32) error {
			return ctx.Output().WriteVarInt(v, false)
		},
		deserialize: func(ctx *DeserializationContext) (int32, error) {
			return ctx.Input().ReadVarInt(false)
		},
	}
}

// Float32 returns the codec for an IEEE 754 single-precision float. The bit
// pattern round-trips exactly, including NaN payloads.
func Float32() Codec[float32] {
	return codecFuncs[float32]{
		serialize: func(ctx *SerializationContext, v float32) error {
			return ctx.Output().WriteFloat32(v)
		},
		deserialize: func(ctx *DeserializationContext) (float32, error) {
			return ctx.Input().ReadFloat32()
		},
	}
}

// Float64 returns the codec for an IEEE 754 double-precision float. The bit
// pattern round-trips exactly, including NaN payloads.
func Float64() Codec[float64] {
	return codecFuncs[float64]{
		serialize: func(ctx *SerializationContext, v float64) error {
			return ctx.Output().WriteFloat64(v)
		},
		deserialize: func(ctx *DeserializationContext) (float64, error) {
			return ctx.Input().ReadFloat64()
		},
	}
}

// Bool returns the codec for a boolean: one byte, 0x00 or 0x01.
func Bool() Codec[bool] {
	return codecFuncs[bool]{
		serialize: func(ctx *SerializationContext, v bool) error {
			return ctx.Output().WriteBool(v)
		},
		deserialize: func(ctx *DeserializationContext) (bool, error) {
			return ctx.Input().ReadBool()
		},
	}
}

// Unit returns the codec for the unit type; it writes and reads zero bytes.
func Unit() Codec[types.Unit] {
	return codecFuncs[types.Unit]{
		serialize: func(ctx *SerializationContext, v types.Unit) error {
			return nil
		},
		deserialize: func(ctx *DeserializationContext) (types.Unit, error) {
			return types.Unit{}, nil
		},
	}
}

// String returns the codec for strings with per-stream interning: repeated
// string content within one stream is written once and back-referenced
// afterwards.
func String() Codec[string] {
	return codecFuncs[string]{
		serialize: func(ctx *SerializationContext, v string) error {
			return ctx.StoreString(v)
		},
		deserialize: func(ctx *DeserializationContext) (string, error) {
			return ctx.ReadString()
		},
	}
}

// UUID returns the codec for a UUID: 16 raw bytes, the two halves read as
// big-endian 64-bit values.
func UUID() Codec[uuid.UUID] {
	return codecFuncs[uuid.UUID]{
		serialize: func(ctx *SerializationContext, v uuid.UUID) error {
			return ctx.Output().WriteBytes(v[:])
		},
		deserialize: func(ctx *DeserializationContext) (uuid.UUID, error) {
			p, err := ctx.Input().ReadBytes(16)
			if err != nil {
				return uuid.UUID{}, err
			}

			var u uuid.UUID
			copy(u[:], p)

			return u, nil
		},
	}
}

// Bytes returns the codec for a raw byte slice in sized form: a positive
// varint length followed by the bytes.
func Bytes() Codec[[]byte] {
	return codecFuncs[[]byte]{
		serialize: func(ctx *SerializationContext, v []byte) error {
			if err := ctx.Output().WriteVarInt(int32(len(v)), true); err != nil {
				return err
			}

			return ctx.Output().WriteBytes(v)
		},
		deserialize: func(ctx *DeserializationContext) ([]byte, error) {
			n, err := ctx.Input().ReadVarInt(true)
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, errs.Deserialization(fmt.Sprintf("negative byte array length %d", n), nil)
			}

			p, err := ctx.Input().ReadBytes(int(n))
			if err != nil {
				return nil, err
			}

			out := make([]byte, n)
			copy(out, p)

			return out, nil
		},
	}
}

type compressedBytesConfig struct {
	level int
}

// CompressedBytesOption configures the CompressedBytes codec.
type CompressedBytesOption = options.Option[*compressedBytesConfig]

// WithCompressionLevel sets the deflate level (0-9, or -1 for default).
func WithCompressionLevel(level int) CompressedBytesOption {
	return options.NoError(func(cfg *compressedBytesConfig) {
		cfg.level = level
	})
}

// CompressedBytes returns the codec for a deflate-compressed byte array:
// varint uncompressed length, varint compressed length, deflate stream.
// Empty input is a single varint 0.
func CompressedBytes(opts ...CompressedBytesOption) Codec[[]byte] {
	cfg := &compressedBytesConfig{level: -1}
	_ = options.Apply(cfg, opts...)

	return codecFuncs[[]byte]{
		serialize: func(ctx *SerializationContext, v []byte) error {
			return ctx.Output().WriteCompressedByteArray(v, cfg.level)
		},
		deserialize: func(ctx *DeserializationContext) ([]byte, error) {
			return ctx.Input().ReadCompressedByteArray()
		},
	}
}
