package codec

import (
	"fmt"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/types"
)

// Option returns the codec for an optional value: a boolean presence flag
// followed by the value when defined.
func Option[T any](elem Codec[T]) Codec[types.Option[T]] {
	return codecFuncs[types.Option[T]]{
		serialize: func(ctx *SerializationContext, v types.Option[T]) error {
			value, defined := v.Get()
			if err := ctx.Output().WriteBool(defined); err != nil {
				return err
			}
			if !defined {
				return nil
			}

			return elem.Serialize(ctx, value)
		},
		deserialize: func(ctx *DeserializationContext) (types.Option[T], error) {
			defined, err := ctx.Input().ReadBool()
			if err != nil {
				return types.None[T](), err
			}
			if !defined {
				return types.None[T](), nil
			}

			value, err := elem.Deserialize(ctx)
			if err != nil {
				return types.None[T](), err
			}

			return types.Some(value), nil
		},
	}
}

// Either returns the codec for a disjunction: one tag byte (0 for Left,
// 1 for Right) followed by the payload.
func Either[L, R any](left Codec[L], right Codec[R]) Codec[types.Either[L, R]] {
	return codecFuncs[types.Either[L, R]]{
		serialize: func(ctx *SerializationContext, v types.Either[L, R]) error {
			if r, ok := v.RightValue(); ok {
				if err := ctx.Output().WriteByte(1); err != nil {
					return err
				}

				return right.Serialize(ctx, r)
			}

			l, _ := v.LeftValue()
			if err := ctx.Output().WriteByte(0); err != nil {
				return err
			}

			return left.Serialize(ctx, l)
		},
		deserialize: func(ctx *DeserializationContext) (types.Either[L, R], error) {
			var zero types.Either[L, R]

			tag, err := ctx.Input().ReadByte()
			if err != nil {
				return zero, err
			}

			switch tag {
			case 0:
				l, err := left.Deserialize(ctx)
				if err != nil {
					return zero, err
				}

				return types.Left[L, R](l), nil
			case 1:
				r, err := right.Deserialize(ctx)
				if err != nil {
					return zero, err
				}

				return types.Right[L, R](r), nil
			default:
				return zero, errs.Deserialization(fmt.Sprintf("invalid Either tag 0x%02X", tag), nil)
			}
		},
	}
}

// Validated returns the codec for a validation result. It shares Either's
// wire shape: tag 0 is Invalid, tag 1 is Valid.
func Validated[E, A any](invalid Codec[E], valid Codec[A]) Codec[types.Validated[E, A]] {
	return codecFuncs[types.Validated[E, A]]{
		serialize: func(ctx *SerializationContext, v types.Validated[E, A]) error {
			if a, ok := v.Value(); ok {
				if err := ctx.Output().WriteByte(1); err != nil {
					return err
				}

				return valid.Serialize(ctx, a)
			}

			e, _ := v.ErrorValue()
			if err := ctx.Output().WriteByte(0); err != nil {
				return err
			}

			return invalid.Serialize(ctx, e)
		},
		deserialize: func(ctx *DeserializationContext) (types.Validated[E, A], error) {
			var zero types.Validated[E, A]

			tag, err := ctx.Input().ReadByte()
			if err != nil {
				return zero, err
			}

			switch tag {
			case 0:
				e, err := invalid.Deserialize(ctx)
				if err != nil {
					return zero, err
				}

				return types.Invalid[E, A](e), nil
			case 1:
				a, err := valid.Deserialize(ctx)
				if err != nil {
					return zero, err
				}

				return types.Valid[E, A](a), nil
			default:
				return zero, errs.Deserialization(fmt.Sprintf("invalid Validated tag 0x%02X", tag), nil)
			}
		},
	}
}

// stackFrameCodec encodes one persisted stack frame: class, method, file and
// line. Strings go through the stream interning table, which collapses the
// heavy repetition in file and class names.
func stackFrameCodec() Codec[types.StackFrame] {
	return codecFuncs[types.StackFrame]{
		serialize: func(ctx *SerializationContext, v types.StackFrame) error {
			if err := ctx.StoreString(v.ClassName); err != nil {
				return err
			}
			if err := ctx.StoreString(v.MethodName); err != nil {
				return err
			}
			if err := ctx.StoreString(v.FileName); err != nil {
				return err
			}

			return ctx.Output().WriteInt32(v.LineNumber)
		},
		deserialize: func(ctx *DeserializationContext) (types.StackFrame, error) {
			var frame types.StackFrame
			var err error

			if frame.ClassName, err = ctx.ReadString(); err != nil {
				return frame, err
			}
			if frame.MethodName, err = ctx.ReadString(); err != nil {
				return frame, err
			}
			if frame.FileName, err = ctx.ReadString(); err != nil {
				return frame, err
			}
			if frame.LineNumber, err = ctx.Input().ReadInt32(); err != nil {
				return frame, err
			}

			return frame, nil
		},
	}
}

// Throwable returns the codec for a persisted failure record: class name,
// message, stack frames and an optional cause of the same shape. Reading
// always materializes this record; the original error type is never
// reconstructed.
func Throwable() Codec[*types.PersistedThrowable] {
	return codecFuncs[*types.PersistedThrowable]{
		serialize:   serializeThrowable,
		deserialize: deserializeThrowable,
	}
}

func serializeThrowable(ctx *SerializationContext, t *types.PersistedThrowable) error {
	if t == nil {
		return errs.Serialization("nil persisted failure", nil)
	}
	if err := ctx.StoreString(t.ClassName); err != nil {
		return err
	}
	if err := ctx.StoreString(t.Message); err != nil {
		return err
	}

	frames := stackFrameCodec()
	if err := ctx.Output().WriteVarInt(int32(len(t.StackTrace)), true); err != nil {
		return err
	}
	for _, frame := range t.StackTrace {
		if err := frames.Serialize(ctx, frame); err != nil {
			return err
		}
	}

	hasCause := t.Cause != nil
	if err := ctx.Output().WriteBool(hasCause); err != nil {
		return err
	}
	if hasCause {
		return serializeThrowable(ctx, t.Cause)
	}

	return nil
}

func deserializeThrowable(ctx *DeserializationContext) (*types.PersistedThrowable, error) {
	t := &types.PersistedThrowable{}
	var err error

	if t.ClassName, err = ctx.ReadString(); err != nil {
		return nil, err
	}
	if t.Message, err = ctx.ReadString(); err != nil {
		return nil, err
	}

	count, err := ctx.Input().ReadVarInt(true)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errs.Deserialization(fmt.Sprintf("negative stack trace length %d", count), nil)
	}

	frames := stackFrameCodec()
	t.StackTrace = make([]types.StackFrame, 0, count)
	for i := int32(0); i < count; i++ {
		frame, err := frames.Deserialize(ctx)
		if err != nil {
			return nil, err
		}
		t.StackTrace = append(t.StackTrace, frame)
	}

	hasCause, err := ctx.Input().ReadBool()
	if err != nil {
		return nil, err
	}
	if hasCause {
		if t.Cause, err = deserializeThrowable(ctx); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Try returns the codec for a computation outcome: one tag byte, 0 for a
// persisted failure, 1 for a success value.
func Try[T any](elem Codec[T]) Codec[types.Try[T]] {
	throwable := Throwable()

	return codecFuncs[types.Try[T]]{
		serialize: func(ctx *SerializationContext, v types.Try[T]) error {
			if value, ok := v.Value(); ok {
				if err := ctx.Output().WriteByte(1); err != nil {
					return err
				}

				return elem.Serialize(ctx, value)
			}

			if err := ctx.Output().WriteByte(0); err != nil {
				return err
			}

			return throwable.Serialize(ctx, v.FailureValue())
		},
		deserialize: func(ctx *DeserializationContext) (types.Try[T], error) {
			var zero types.Try[T]

			tag, err := ctx.Input().ReadByte()
			if err != nil {
				return zero, err
			}

			switch tag {
			case 0:
				t, err := throwable.Deserialize(ctx)
				if err != nil {
					return zero, err
				}

				return types.Failure[T](t), nil
			case 1:
				value, err := elem.Deserialize(ctx)
				if err != nil {
					return zero, err
				}

				return types.Success(value), nil
			default:
				return zero, errs.Deserialization(fmt.Sprintf("invalid Try tag 0x%02X", tag), nil)
			}
		},
	}
}

// Tuple2 returns the codec for a pair. The leading zero byte makes tuples
// wire-compatible with single-version records of the same arity and element
// types.
func Tuple2[A, B any](a Codec[A], b Codec[B]) Codec[types.Tuple2[A, B]] {
	return codecFuncs[types.Tuple2[A, B]]{
		serialize: func(ctx *SerializationContext, v types.Tuple2[A, B]) error {
			if err := ctx.Output().WriteInt8(0); err != nil {
				return err
			}
			if err := a.Serialize(ctx, v.F1); err != nil {
				return err
			}

			return b.Serialize(ctx, v.F2)
		},
		deserialize: func(ctx *DeserializationContext) (types.Tuple2[A, B], error) {
			var out types.Tuple2[A, B]

			if err := readTupleHeader(ctx); err != nil {
				return out, err
			}

			var err error
			if out.F1, err = a.Deserialize(ctx); err != nil {
				return out, err
			}
			if out.F2, err = b.Deserialize(ctx); err != nil {
				return out, err
			}

			return out, nil
		},
	}
}

// Tuple3 returns the codec for a triple; see Tuple2 for the framing.
func Tuple3[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[types.Tuple3[A, B, C]] {
	return codecFuncs[types.Tuple3[A, B, C]]{
		serialize: func(ctx *SerializationContext, v types.Tuple3[A, B, C]) error {
			if err := ctx.Output().WriteInt8(0); err != nil {
				return err
			}
			if err := a.Serialize(ctx, v.F1); err != nil {
				return err
			}
			if err := b.Serialize(ctx, v.F2); err != nil {
				return err
			}

			return c.Serialize(ctx, v.F3)
		},
		deserialize: func(ctx *DeserializationContext) (types.Tuple3[A, B, C], error) {
			var out types.Tuple3[A, B, C]

			if err := readTupleHeader(ctx); err != nil {
				return out, err
			}

			var err error
			if out.F1, err = a.Deserialize(ctx); err != nil {
				return out, err
			}
			if out.F2, err = b.Deserialize(ctx); err != nil {
				return out, err
			}
			if out.F3, err = c.Deserialize(ctx); err != nil {
				return out, err
			}

			return out, nil
		},
	}
}

// Tuple4 returns the codec for a quadruple; see Tuple2 for the framing.
func Tuple4[A, B, C, D any](a Codec[A], b Codec[B], c Codec[C], d Codec[D]) Codec[types.Tuple4[A, B, C, D]] {
	return codecFuncs[types.Tuple4[A, B, C, D]]{
		serialize: func(ctx *SerializationContext, v types.Tuple4[A, B, C, D]) error {
			if err := ctx.Output().WriteInt8(0); err != nil {
				return err
			}
			if err := a.Serialize(ctx, v.F1); err != nil {
				return err
			}
			if err := b.Serialize(ctx, v.F2); err != nil {
				return err
			}
			if err := c.Serialize(ctx, v.F3); err != nil {
				return err
			}

			return d.Serialize(ctx, v.F4)
		},
		deserialize: func(ctx *DeserializationContext) (types.Tuple4[A, B, C, D], error) {
			var out types.Tuple4[A, B, C, D]

			if err := readTupleHeader(ctx); err != nil {
				return out, err
			}

			var err error
			if out.F1, err = a.Deserialize(ctx); err != nil {
				return out, err
			}
			if out.F2, err = b.Deserialize(ctx); err != nil {
				return out, err
			}
			if out.F3, err = c.Deserialize(ctx); err != nil {
				return out, err
			}
			if out.F4, err = d.Deserialize(ctx); err != nil {
				return out, err
			}

			return out, nil
		},
	}
}

func readTupleHeader(ctx *DeserializationContext) error {
	version, err := ctx.Input().ReadInt8()
	if err != nil {
		return err
	}
	if version != 0 {
		return errs.Deserialization(fmt.Sprintf("unexpected tuple version %d", version), nil)
	}

	return nil
}
