// Package sevo provides a binary serialization format with first-class
// schema evolution: values written by an older version of a data type still
// deserialize correctly under a newer schema, and vice versa where possible,
// without breaking the existing on-wire byte stream.
//
// # Core Features
//
//   - Compact big-endian wire format with variable-length integer coding
//   - Per-stream string interning: repeated string content is written once
//   - Reference tracking for shared and cyclic object graphs
//   - Generic record and union codecs driven by declarative evolution steps
//   - Chunked, versioned record layout permitting forward- and
//     backward-compatible reads
//   - Deflate-compressed byte array support
//
// # Basic Usage
//
// Serializing a record type:
//
//	import (
//	    "github.com/evrium/sevo"
//	    "github.com/evrium/sevo/codec"
//	)
//
//	type Point struct{ X, Y int32 }
//
//	pointCodec, _ := codec.Record("Point",
//	    []codec.FieldSpec[Point]{
//	        codec.Field("x", codec.Int32(), func(p Point) int32 { return p.X }),
//	        codec.Field("y", codec.Int32(), func(p Point) int32 { return p.Y }),
//	    },
//	    func(values []any) (Point, error) {
//	        return Point{X: values[0].(int32), Y: values[1].(int32)}, nil
//	    },
//	)
//
//	data, _ := sevo.Marshal(pointCodec, Point{X: 1, Y: 2})
//	p, _ := sevo.Unmarshal(pointCodec, data)
//
// Evolving the schema later adds steps to the codec while the wire format
// stays readable in both directions; see the codec package documentation.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec
// package, simplifying the most common use cases. For advanced usage and
// fine-grained control (custom outputs, registries, reference tracking),
// use the codec package directly.
package sevo

import (
	"github.com/evrium/sevo/codec"
	"github.com/evrium/sevo/compress"
	"github.com/evrium/sevo/errs"
)

// Marshal serializes value with c into a fresh byte slice.
func Marshal[T any](c codec.Codec[T], value T, opts ...codec.ContextOption) ([]byte, error) {
	return codec.Serialize(c, value, opts...)
}

// Unmarshal deserializes a value of c's type from data.
func Unmarshal[T any](c codec.Codec[T], data []byte, opts ...codec.ContextOption) (T, error) {
	return codec.Deserialize(c, data, opts...)
}

// MarshalCompressed serializes value with c and wraps the whole payload in
// the deflate blob format (uncompressed length, compressed length, deflate
// stream). Useful for large values stored or transmitted as single blobs.
func MarshalCompressed[T any](c codec.Codec[T], value T, opts ...codec.ContextOption) ([]byte, error) {
	payload, err := codec.Serialize(c, value, opts...)
	if err != nil {
		return nil, err
	}

	out := codec.NewBufferOutput()
	defer out.Release()

	if err := out.WriteCompressedByteArray(payload, compress.DeflateDefaultLevel); err != nil {
		return nil, err
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())

	return result, nil
}

// UnmarshalCompressed reverses MarshalCompressed.
func UnmarshalCompressed[T any](c codec.Codec[T], data []byte, opts ...codec.ContextOption) (T, error) {
	var zero T

	in := codec.NewBytesInput(data)
	payload, err := in.ReadCompressedByteArray()
	if err != nil {
		return zero, err
	}
	if in.Remaining() != 0 {
		return zero, errs.Deserialization("trailing bytes after compressed payload", nil)
	}

	return codec.Deserialize(c, payload, opts...)
}
