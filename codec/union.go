package codec

import (
	"fmt"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/internal/options"
)

// ConstructorSpec declares one constructor of a union codec: its name, the
// codec of its payload, a deconstructor testing whether a value belongs to
// this constructor, and a builder lifting a decoded payload back into the
// union type.
type ConstructorSpec[T any] struct {
	name        string
	codec       Erased
	deconstruct func(T) (any, bool)
	build       func(any) (T, error)
}

// Constructor declares one union constructor. deconstruct returns the
// payload and true when the value belongs to this constructor; build lifts
// a payload into the union type.
func Constructor[T, C any](name string, c Codec[C], deconstruct func(T) (C, bool), build func(C) T) ConstructorSpec[T] {
	return ConstructorSpec[T]{
		name:  name,
		codec: Erase(c),
		deconstruct: func(v T) (any, bool) {
			payload, ok := deconstruct(v)
			return payload, ok
		},
		build: func(payload any) (T, error) {
			var zero T

			p, ok := payload.(C)
			if !ok {
				return zero, errs.Deserialization(
					fmt.Sprintf("constructor %s payload has type %T", name, payload), nil)
			}

			return build(p), nil
		},
	}
}

type unionCodec[T any] struct {
	typeName     string
	constructors []ConstructorSpec[T]
	idByName     map[string]int32
	meta         *evolutionMetadata
}

// Union builds the codec for a sum type. Constructor ids follow declaration
// order and are part of the wire format: as long as the declared order is
// unchanged, the format is unchanged. The constructor id varint and the
// payload both live in chunk 0.
func Union[T any](typeName string, constructors []ConstructorSpec[T], opts ...RecordOption) (Codec[T], error) {
	if len(constructors) == 0 {
		return nil, fmt.Errorf("union %s: at least one constructor is required", typeName)
	}

	cfg := &recordConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	meta, err := deriveEvolutionMetadata(cfg.steps)
	if err != nil {
		return nil, fmt.Errorf("union %s: %w", typeName, err)
	}

	idByName := make(map[string]int32, len(constructors))
	for i, c := range constructors {
		if _, dup := idByName[c.name]; dup {
			return nil, fmt.Errorf("union %s: duplicate constructor %s", typeName, c.name)
		}
		idByName[c.name] = int32(i)
	}

	return &unionCodec[T]{
		typeName:     typeName,
		constructors: constructors,
		idByName:     idByName,
		meta:         meta,
	}, nil
}

func (uc *unionCodec[T]) Serialize(ctx *SerializationContext, value T) error {
	co, err := newChunkedOutput(ctx, uc.meta)
	if err != nil {
		return err
	}
	defer co.release()

	id := int32(-1)
	var payload any
	for i, c := range uc.constructors {
		if p, ok := c.deconstruct(value); ok {
			id = int32(i)
			payload = p
			break
		}
	}
	if id < 0 {
		return errs.InvalidConstructorName(fmt.Sprintf("%T", value), uc.typeName)
	}

	out, err := co.outputFor(0)
	if err != nil {
		return err
	}

	prev := ctx.swapOutput(out)
	err = uc.writeConstructor(ctx, id, payload)
	ctx.swapOutput(prev)
	if err != nil {
		return err
	}

	return co.finish()
}

func (uc *unionCodec[T]) writeConstructor(ctx *SerializationContext, id int32, payload any) error {
	if err := ctx.Output().WriteVarInt(id, true); err != nil {
		return err
	}

	return uc.constructors[id].codec.serializeAny(ctx, payload)
}

func (uc *unionCodec[T]) Deserialize(ctx *DeserializationContext) (T, error) {
	var zero T

	ci, err := newChunkedInput(ctx)
	if err != nil {
		return zero, err
	}

	in, err := ci.inputFor(0)
	if err != nil {
		return zero, err
	}

	prev := ctx.swapInput(in)
	defer ctx.swapInput(prev)

	id, err := ctx.Input().ReadVarInt(true)
	if err != nil {
		return zero, err
	}
	if id < 0 || int(id) >= len(uc.constructors) {
		return zero, errs.InvalidConstructorID(id, uc.typeName)
	}

	spec := uc.constructors[id]

	// Memoize the resolved constructor so nested reads in the chunked path
	// see it without re-reading.
	prevName := ctx.constructorName
	ctx.constructorName = spec.name
	payload, err := spec.codec.deserializeAny(ctx)
	ctx.constructorName = prevName
	if err != nil {
		return zero, err
	}

	return spec.build(payload)
}
