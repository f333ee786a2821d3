package codec

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/types"
)

func writeSized(ctx *SerializationContext, n int) error {
	return ctx.Output().WriteVarInt(int32(n), true)
}

func readSized(ctx *DeserializationContext) (int, error) {
	n, err := ctx.Input().ReadVarInt(true)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errs.Deserialization(fmt.Sprintf("negative collection length %d", n), nil)
	}

	return int(n), nil
}

// Slice returns the codec for a slice in sized form: a positive varint
// element count followed by the elements in order.
func Slice[T any](elem Codec[T]) Codec[[]T] {
	return codecFuncs[[]T]{
		serialize: func(ctx *SerializationContext, v []T) error {
			if err := writeSized(ctx, len(v)); err != nil {
				return err
			}
			for _, e := range v {
				if err := elem.Serialize(ctx, e); err != nil {
					return err
				}
			}

			return nil
		},
		deserialize: func(ctx *DeserializationContext) ([]T, error) {
			n, err := readSized(ctx)
			if err != nil {
				return nil, err
			}

			out := make([]T, 0, n)
			for i := 0; i < n; i++ {
				e, err := elem.Deserialize(ctx)
				if err != nil {
					return nil, err
				}
				out = append(out, e)
			}

			return out, nil
		},
	}
}

// StreamedSlice returns the codec for a slice in streamed form, for
// producers whose size is unknown up front: each element is wrapped as a
// defined optional and the stream is terminated by an empty one. Which form
// a collection uses is a codec-instantiation choice, not a property of the
// value.
func StreamedSlice[T any](elem Codec[T]) Codec[[]T] {
	return codecFuncs[[]T]{
		serialize: func(ctx *SerializationContext, v []T) error {
			for _, e := range v {
				if err := ctx.Output().WriteBool(true); err != nil {
					return err
				}
				if err := elem.Serialize(ctx, e); err != nil {
					return err
				}
			}

			return ctx.Output().WriteBool(false)
		},
		deserialize: func(ctx *DeserializationContext) ([]T, error) {
			var out []T
			for {
				more, err := ctx.Input().ReadBool()
				if err != nil {
					return nil, err
				}
				if !more {
					return out, nil
				}

				e, err := elem.Deserialize(ctx)
				if err != nil {
					return nil, err
				}
				out = append(out, e)
			}
		},
	}
}

// Set returns the codec for an unordered set in sized form. Iteration order
// on write is unspecified; the decoded set is equal regardless.
func Set[T comparable](elem Codec[T]) Codec[types.Set[T]] {
	return codecFuncs[types.Set[T]]{
		serialize: func(ctx *SerializationContext, v types.Set[T]) error {
			if err := writeSized(ctx, len(v)); err != nil {
				return err
			}
			for e := range v {
				if err := elem.Serialize(ctx, e); err != nil {
					return err
				}
			}

			return nil
		},
		deserialize: func(ctx *DeserializationContext) (types.Set[T], error) {
			n, err := readSized(ctx)
			if err != nil {
				return nil, err
			}

			out := make(types.Set[T], n)
			for i := 0; i < n; i++ {
				e, err := elem.Deserialize(ctx)
				if err != nil {
					return nil, err
				}
				out[e] = struct{}{}
			}

			return out, nil
		},
	}
}

// SortedSet returns the codec for an ordered set: elements are written in
// ascending order, making the byte stream deterministic.
func SortedSet[T cmp.Ordered](elem Codec[T]) Codec[types.Set[T]] {
	return codecFuncs[types.Set[T]]{
		serialize: func(ctx *SerializationContext, v types.Set[T]) error {
			keys := make([]T, 0, len(v))
			for e := range v {
				keys = append(keys, e)
			}
			slices.Sort(keys)

			if err := writeSized(ctx, len(keys)); err != nil {
				return err
			}
			for _, e := range keys {
				if err := elem.Serialize(ctx, e); err != nil {
					return err
				}
			}

			return nil
		},
		deserialize: func(ctx *DeserializationContext) (types.Set[T], error) {
			return Set(elem).Deserialize(ctx)
		},
	}
}

// NonEmptyList returns the codec for a list that must hold at least one
// element. The wire shape is the sized form; emptiness fails on both sides.
func NonEmptyList[T any](elem Codec[T]) Codec[types.NonEmptyList[T]] {
	base := Slice(elem)

	return codecFuncs[types.NonEmptyList[T]]{
		serialize: func(ctx *SerializationContext, v types.NonEmptyList[T]) error {
			if len(v) == 0 {
				return errs.Serialization("non-empty list is empty", nil)
			}

			return base.Serialize(ctx, []T(v))
		},
		deserialize: func(ctx *DeserializationContext) (types.NonEmptyList[T], error) {
			out, err := base.Deserialize(ctx)
			if err != nil {
				return nil, err
			}
			if len(out) == 0 {
				return nil, errs.Deserialization("non-empty list decoded empty", nil)
			}

			return types.NonEmptyList[T](out), nil
		},
	}
}

// NonEmptySet returns the codec for a set that must hold at least one
// element. The wire shape matches Set.
func NonEmptySet[T comparable](elem Codec[T]) Codec[types.NonEmptySet[T]] {
	base := Set(elem)

	return codecFuncs[types.NonEmptySet[T]]{
		serialize: func(ctx *SerializationContext, v types.NonEmptySet[T]) error {
			if len(v) == 0 {
				return errs.Serialization("non-empty set is empty", nil)
			}

			return base.Serialize(ctx, types.Set[T](v))
		},
		deserialize: func(ctx *DeserializationContext) (types.NonEmptySet[T], error) {
			out, err := base.Deserialize(ctx)
			if err != nil {
				return nil, err
			}
			if len(out) == 0 {
				return nil, errs.Deserialization("non-empty set decoded empty", nil)
			}

			return types.NonEmptySet[T](out), nil
		},
	}
}

// writeMapEntry writes one key/value pair with the tuple framing, keeping
// maps wire-compatible with collections of pairs.
func writeMapEntry[K comparable, V any](ctx *SerializationContext, key Codec[K], value Codec[V], k K, v V) error {
	if err := ctx.Output().WriteInt8(0); err != nil {
		return err
	}
	if err := key.Serialize(ctx, k); err != nil {
		return err
	}

	return value.Serialize(ctx, v)
}

func readMapEntry[K comparable, V any](ctx *DeserializationContext, key Codec[K], value Codec[V]) (K, V, error) {
	var k K
	var v V

	if err := readTupleHeader(ctx); err != nil {
		return k, v, err
	}

	k, err := key.Deserialize(ctx)
	if err != nil {
		return k, v, err
	}
	v, err = value.Deserialize(ctx)

	return k, v, err
}

// Map returns the codec for a map in sized form over key/value pairs.
// Iteration order on write is unspecified.
func Map[K comparable, V any](key Codec[K], value Codec[V]) Codec[map[K]V] {
	return codecFuncs[map[K]V]{
		serialize: func(ctx *SerializationContext, m map[K]V) error {
			if err := writeSized(ctx, len(m)); err != nil {
				return err
			}
			for k, v := range m {
				if err := writeMapEntry(ctx, key, value, k, v); err != nil {
					return err
				}
			}

			return nil
		},
		deserialize: func(ctx *DeserializationContext) (map[K]V, error) {
			n, err := readSized(ctx)
			if err != nil {
				return nil, err
			}

			out := make(map[K]V, n)
			for i := 0; i < n; i++ {
				k, v, err := readMapEntry(ctx, key, value)
				if err != nil {
					return nil, err
				}
				out[k] = v
			}

			return out, nil
		},
	}
}

// SortedMap returns the codec for a map written in ascending key order,
// making the byte stream deterministic.
func SortedMap[K cmp.Ordered, V any](key Codec[K], value Codec[V]) Codec[map[K]V] {
	base := Map(key, value)

	return codecFuncs[map[K]V]{
		serialize: func(ctx *SerializationContext, m map[K]V) error {
			keys := make([]K, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			slices.Sort(keys)

			if err := writeSized(ctx, len(keys)); err != nil {
				return err
			}
			for _, k := range keys {
				if err := writeMapEntry(ctx, key, value, k, m[k]); err != nil {
					return err
				}
			}

			return nil
		},
		deserialize: func(ctx *DeserializationContext) (map[K]V, error) {
			return base.Deserialize(ctx)
		},
	}
}

// NonEmptyMap returns the codec for a map that must hold at least one entry.
// The wire shape matches Map.
func NonEmptyMap[K comparable, V any](key Codec[K], value Codec[V]) Codec[types.NonEmptyMap[K, V]] {
	base := Map(key, value)

	return codecFuncs[types.NonEmptyMap[K, V]]{
		serialize: func(ctx *SerializationContext, m types.NonEmptyMap[K, V]) error {
			if len(m) == 0 {
				return errs.Serialization("non-empty map is empty", nil)
			}

			return base.Serialize(ctx, map[K]V(m))
		},
		deserialize: func(ctx *DeserializationContext) (types.NonEmptyMap[K, V], error) {
			out, err := base.Deserialize(ctx)
			if err != nil {
				return nil, err
			}
			if len(out) == 0 {
				return nil, errs.Deserialization("non-empty map decoded empty", nil)
			}

			return types.NonEmptyMap[K, V](out), nil
		},
	}
}
