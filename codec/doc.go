// Package codec implements the sevo binary serialization core: primitive
// byte I/O, per-stream string interning and reference tracking, codecs for
// primitive and container types, the type registry for polymorphic
// references, and the generic record and union codecs with schema evolution.
//
// # Wire format
//
// A serialized value is exactly the bytes written by its codec; there is no
// outer framing, no magic number and no content hash. The receiver must know
// the expected codec. Multi-byte primitives are big-endian two's complement
// (integers) or IEEE 754 bit patterns (floats).
//
// # Schema evolution
//
// Record and union codecs accept an ordered list of evolution steps
// describing how the type changed over time. Each step that adds a field
// opens a new generation; on the wire, the fields of one generation form one
// size-prefixed chunk, so codecs built from older or newer step lists can
// still read each other's bytes:
//
//	pointV2, _ := codec.Record("Point",
//	    []codec.FieldSpec[Point]{
//	        codec.Field("x", codec.Int32(), func(p Point) int32 { return p.X }),
//	        codec.Field("y", codec.Int32(), func(p Point) int32 { return p.Y }),
//	        codec.Field("z", codec.Int32(), func(p Point) int32 { return p.Z }),
//	    },
//	    func(values []any) (Point, error) {
//	        return Point{X: values[0].(int32), Y: values[1].(int32), Z: values[2].(int32)}, nil
//	    },
//	    codec.WithEvolution(
//	        codec.InitialVersion{},
//	        codec.FieldAdded{Name: "z", Default: int32(0)},
//	    ),
//	)
//
// Bytes written before "z" existed decode under pointV2 with Z filled from
// the declared default.
//
// # Concurrency
//
// A serialization or deserialization call threads one explicit context value
// through every nested codec invocation; an in-flight context must not be
// shared across goroutines. Distinct concurrent calls are fully independent.
// A Registry is read-only after construction and may be shared freely.
package codec
