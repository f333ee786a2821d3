package codec

import (
	"fmt"

	"github.com/evrium/sevo/errs"
)

// The reference protocol writes a zigzag varint before a tracked value: a
// negative number is a back-reference to an already-seen object id, zero
// means a new object follows. Object identity is physical: values passed to
// the protocol must be pointers (or other handle-like comparables), so the
// same pointer seen twice becomes one object on the wire while two pointers
// to equal values are serialized twice.

// StoreRefOrValue writes v through the reference protocol with a statically
// known codec: a back-reference when v's identity was seen before in this
// stream, otherwise a zero marker followed by the full value.
func StoreRefOrValue[T comparable](ctx *SerializationContext, c Codec[T], v T) error {
	if id, ok := ctx.state.objectID(v); ok {
		return ctx.out.WriteVarInt(-id, false)
	}

	ctx.state.storeObject(v)
	if err := ctx.out.WriteVarInt(0, false); err != nil {
		return err
	}

	return c.Serialize(ctx, v)
}

// ReadRefOrValue reads a value written by StoreRefOrValue. When
// storeReadReference is true the next object id is reserved before the body
// is read, matching the order in which the writer assigned ids, and the
// decoded value is stored under it once read, so later back-references
// resolve to it. Back-references from inside the body itself do not resolve
// that way; codecs of cyclic types pass false and call StoreReadRef
// themselves on the partially constructed value before reading fields that
// might refer back.
func ReadRefOrValue[T comparable](ctx *DeserializationContext, c Codec[T], storeReadReference bool) (T, error) {
	var zero T

	n, err := ctx.in.ReadVarInt(false)
	if err != nil {
		return zero, err
	}

	switch {
	case n < 0:
		obj, ok := ctx.state.objectForID(-n)
		if !ok {
			return zero, errs.Deserialization(fmt.Sprintf("invalid object back-reference %d", -n), nil)
		}

		v, ok := obj.(T)
		if !ok {
			return zero, errs.Deserialization(fmt.Sprintf("object back-reference %d has type %T", -n, obj), nil)
		}

		return v, nil
	case n == 0:
		var id int32
		if storeReadReference {
			ctx.state.lastObjectID++
			id = ctx.state.lastObjectID
		}

		v, err := c.Deserialize(ctx)
		if err != nil {
			return zero, err
		}
		if storeReadReference {
			ctx.state.objectByID[id] = v
			ctx.state.idByObject[v] = id
		}

		return v, nil
	default:
		return zero, errs.Deserialization(fmt.Sprintf("invalid reference marker %d", n), nil)
	}
}

// StoreReadRef registers a partially constructed value in the object table
// under the next id. Codecs of cyclic types call this before deserializing
// fields that might refer back, so the cycle terminates at the back-reference.
func (ctx *DeserializationContext) StoreReadRef(v any) {
	ctx.state.storeObject(v)
}

// StoreRefOrObject writes v through the reference protocol with polymorphic
// dispatch: on first occurrence the type id from the registry is written
// before the value, so the reader can pick the correct codec.
func (ctx *SerializationContext) StoreRefOrObject(v any) error {
	if id, ok := ctx.state.objectID(v); ok {
		return ctx.out.WriteVarInt(-id, false)
	}

	if ctx.registry == nil {
		return errs.Serialization("no type registry attached for polymorphic reference", nil)
	}

	typeID, erased, ok := ctx.registry.lookupByValue(v)
	if !ok {
		return errs.Serialization(fmt.Sprintf("type %T is not registered", v), nil)
	}

	ctx.state.storeObject(v)
	if err := ctx.out.WriteVarInt(0, false); err != nil {
		return err
	}
	if err := ctx.out.WriteVarInt(typeID, true); err != nil {
		return err
	}

	return erased.serializeAny(ctx, v)
}

// ReadRefOrObject reads a value written by StoreRefOrObject, consulting the
// registry to resolve the type id on first occurrences. See ReadRefOrValue
// for the storeReadReference contract.
func (ctx *DeserializationContext) ReadRefOrObject(storeReadReference bool) (any, error) {
	n, err := ctx.in.ReadVarInt(false)
	if err != nil {
		return nil, err
	}

	switch {
	case n < 0:
		obj, ok := ctx.state.objectForID(-n)
		if !ok {
			return nil, errs.Deserialization(fmt.Sprintf("invalid object back-reference %d", -n), nil)
		}

		return obj, nil
	case n == 0:
		if ctx.registry == nil {
			return nil, errs.Deserialization("no type registry attached for polymorphic reference", nil)
		}

		typeID, err := ctx.in.ReadVarInt(true)
		if err != nil {
			return nil, err
		}

		erased, ok := ctx.registry.lookupByID(typeID)
		if !ok {
			return nil, errs.Deserialization(fmt.Sprintf("unknown type id %d", typeID), nil)
		}

		var id int32
		if storeReadReference {
			ctx.state.lastObjectID++
			id = ctx.state.lastObjectID
		}

		v, err := erased.deserializeAny(ctx)
		if err != nil {
			return nil, err
		}
		if storeReadReference {
			ctx.state.objectByID[id] = v
			ctx.state.idByObject[v] = id
		}

		return v, nil
	default:
		return nil, errs.Deserialization(fmt.Sprintf("invalid reference marker %d", n), nil)
	}
}
