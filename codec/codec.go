package codec

import (
	"fmt"
	"reflect"

	"github.com/evrium/sevo/errs"
)

// Codec pairs a serializer and a deserializer for one static type.
type Codec[T any] interface {
	// Serialize writes value to the context's active output.
	Serialize(ctx *SerializationContext, value T) error

	// Deserialize reads a value from the context's active input.
	Deserialize(ctx *DeserializationContext) (T, error)
}

// codecFuncs adapts a pair of functions to the Codec interface. Most
// primitive codecs are expressed this way.
type codecFuncs[T any] struct {
	serialize   func(ctx *SerializationContext, value T) error
	deserialize func(ctx *DeserializationContext) (T, error)
}

func (c codecFuncs[T]) Serialize(ctx *SerializationContext, value T) error {
	return c.serialize(ctx, value)
}

func (c codecFuncs[T]) Deserialize(ctx *DeserializationContext) (T, error) {
	return c.deserialize(ctx)
}

// Erased is a codec operating on any, used where heterogeneous codecs must
// share a table: record fields, union constructors and the type registry.
type Erased interface {
	serializeAny(ctx *SerializationContext, value any) error
	deserializeAny(ctx *DeserializationContext) (any, error)
	valueType() reflect.Type
}

type erasedCodec[T any] struct {
	codec Codec[T]
}

// Erase wraps a typed codec into an Erased one.
func Erase[T any](c Codec[T]) Erased {
	return erasedCodec[T]{codec: c}
}

func (e erasedCodec[T]) serializeAny(ctx *SerializationContext, value any) error {
	v, ok := value.(T)
	if !ok {
		return errs.Serialization(
			fmt.Sprintf("value of type %T does not match codec type %s", value, e.valueType()), nil)
	}

	return e.codec.Serialize(ctx, v)
}

func (e erasedCodec[T]) deserializeAny(ctx *DeserializationContext) (any, error) {
	v, err := e.codec.Deserialize(ctx)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (e erasedCodec[T]) valueType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Serialize encodes value with c into a fresh byte slice.
func Serialize[T any](c Codec[T], value T, opts ...ContextOption) ([]byte, error) {
	out := NewBufferOutput()
	defer out.Release()

	ctx := NewSerializationContext(out, opts...)
	if err := c.Serialize(ctx, value); err != nil {
		return nil, err
	}

	result := make([]byte, out.Len())
	copy(result, out.Bytes())

	return result, nil
}

// Deserialize decodes a value of c's type from data.
func Deserialize[T any](c Codec[T], data []byte, opts ...ContextOption) (T, error) {
	ctx := NewDeserializationContext(NewBytesInput(data), opts...)
	return c.Deserialize(ctx)
}
