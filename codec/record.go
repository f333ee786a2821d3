package codec

import (
	"fmt"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/internal/options"
	"github.com/evrium/sevo/types"
)

// FieldSpec declares one field of a record codec: its name, its codec and a
// getter projecting the field out of the record value. Optional and
// transient fields carry the extra metadata the evolution machinery needs.
type FieldSpec[T any] struct {
	name  string
	codec Erased
	get   func(T) any

	// optionality promotion support
	optional  bool
	elemCodec Erased
	wrapSome  func(any) any
	noneValue any

	// transient support
	transient        bool
	transientDefault any
}

// Field declares a regular field serialized with c.
func Field[T, F any](name string, c Codec[F], get func(T) F) FieldSpec[T] {
	return FieldSpec[T]{
		name:  name,
		codec: Erase(c),
		get:   func(v T) any { return get(v) },
	}
}

// OptionField declares a field of static type Option[H]. Declaring the
// element codec (rather than a pre-built option codec) lets the deserializer
// promote raw values from streams written before the field became optional.
func OptionField[T, H any](name string, elem Codec[H], get func(T) types.Option[H]) FieldSpec[T] {
	return FieldSpec[T]{
		name:      name,
		codec:     Erase(Option(elem)),
		get:       func(v T) any { return get(v) },
		optional:  true,
		elemCodec: Erase(elem),
		wrapSome: func(v any) any {
			return types.Some(v.(H))
		},
		noneValue: types.None[H](),
	}
}

// TransientField declares a field excluded from the serialized layout. On
// deserialization the field is filled with def. The type of def is not
// checked at codec build time; a mismatch surfaces when the record is
// constructed at decode time.
func TransientField[T any](name string, def any) FieldSpec[T] {
	return FieldSpec[T]{
		name:             name,
		transient:        true,
		transientDefault: def,
	}
}

// RecordOption configures a record or union codec.
type RecordOption = options.Option[*recordConfig]

type recordConfig struct {
	steps []EvolutionStep
}

// WithEvolution declares the codec's evolution history. Without it the
// codec is at its initial version and uses the one-byte simple framing.
func WithEvolution(steps ...EvolutionStep) RecordOption {
	return options.NoError(func(cfg *recordConfig) {
		cfg.steps = steps
	})
}

type recordCodec[T any] struct {
	typeName  string
	fields    []FieldSpec[T]
	construct func(values []any) (T, error)
	meta      *evolutionMetadata
}

// Record builds the codec for a product type. Fields are serialized in
// declaration order; each field's bytes land in the chunk of the generation
// that introduced it. construct receives one value per declared field, in
// declaration order, with transient fields filled from their defaults.
func Record[T any](typeName string, fields []FieldSpec[T], construct func(values []any) (T, error), opts ...RecordOption) (Codec[T], error) {
	cfg := &recordConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	meta, err := deriveEvolutionMetadata(cfg.steps)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", typeName, err)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.name]; dup {
			return nil, fmt.Errorf("record %s: duplicate field %s", typeName, f.name)
		}
		seen[f.name] = struct{}{}
	}

	return &recordCodec[T]{
		typeName:  typeName,
		fields:    fields,
		construct: construct,
		meta:      meta,
	}, nil
}

func (rc *recordCodec[T]) Serialize(ctx *SerializationContext, value T) error {
	co, err := newChunkedOutput(ctx, rc.meta)
	if err != nil {
		return err
	}
	defer co.release()

	for _, f := range rc.fields {
		if f.transient {
			continue
		}

		gen := rc.meta.generationOf(f.name)
		out, err := co.outputFor(gen)
		if err != nil {
			return err
		}

		prev := ctx.swapOutput(out)
		err = f.codec.serializeAny(ctx, f.get(value))
		ctx.swapOutput(prev)
		if err != nil {
			return err
		}

		co.recordFieldIndex(f.name, gen)
	}

	return co.finish()
}

func (rc *recordCodec[T]) Deserialize(ctx *DeserializationContext) (T, error) {
	var zero T

	ci, err := newChunkedInput(ctx)
	if err != nil {
		return zero, err
	}

	values := make([]any, len(rc.fields))
	for i, f := range rc.fields {
		if f.transient {
			values[i] = f.transientDefault
			continue
		}

		v, err := rc.readField(ctx, ci, f)
		if err != nil {
			return zero, err
		}
		values[i] = v
	}

	return rc.construct(values)
}

// readField applies the compatibility rules for one declared field against
// the stream's version and evolution header.
func (rc *recordCodec[T]) readField(ctx *DeserializationContext, ci *chunkedInput, f FieldSpec[T]) (any, error) {
	if ci.streamRemoved(f.name) {
		// The stream's writer had removed this field; an optional reader
		// degrades to None, a non-optional one cannot proceed.
		if f.optional {
			return f.noneValue, nil
		}

		return nil, errs.FieldRemoved(f.name)
	}

	gen := rc.meta.generationOf(f.name)
	optSince, madeOptional := rc.meta.madeOptionalAt[f.name]
	fp := ci.allocIndex(gen)

	if ci.storedVersion < gen {
		// Field postdates the stream; fill from the declared default.
		def, hasDefault := rc.meta.fieldDefaults[f.name]
		if !hasDefault {
			return nil, errs.FieldMissingDefault(f.name)
		}
		if f.optional && madeOptional && optSince > gen {
			// The default was declared before the field became optional.
			return f.wrapSome(def), nil
		}

		return def, nil
	}

	in, err := ci.inputFor(gen)
	if err != nil {
		return nil, err
	}

	prev := ctx.swapInput(in)
	defer ctx.swapInput(prev)

	if ci.streamMadeOptionalAt(fp) && !f.optional {
		// The stream stores Option[H] here but the local type is still H.
		defined, err := ctx.Input().ReadBool()
		if err != nil {
			return nil, err
		}
		if !defined {
			return nil, errs.NonOptionalSerializedAsNone(f.name)
		}

		return f.codec.deserializeAny(ctx)
	}

	if f.optional && madeOptional && !ci.streamMadeOptionalAt(fp) && ci.storedVersion < optSince {
		// The stream predates the optionality promotion: read the raw value
		// and wrap it.
		raw, err := f.elemCodec.deserializeAny(ctx)
		if err != nil {
			return nil, err
		}

		return f.wrapSome(raw), nil
	}

	return f.codec.deserializeAny(ctx)
}

// Wrapper builds the codec for a value-type wrapper: a record with exactly
// one meaningful field. The wrapped codec is used directly with no version
// byte, so the wrapper is wire-transparent.
func Wrapper[T, W any](c Codec[W], unwrap func(T) W, wrap func(W) T) Codec[T] {
	return codecFuncs[T]{
		serialize: func(ctx *SerializationContext, v T) error {
			return c.Serialize(ctx, unwrap(v))
		},
		deserialize: func(ctx *DeserializationContext) (T, error) {
			var zero T

			w, err := c.Deserialize(ctx)
			if err != nil {
				return zero, err
			}

			return wrap(w), nil
		},
	}
}
