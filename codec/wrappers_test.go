package codec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/types"
)

func TestOptionRoundTrip(t *testing.T) {
	c := Option(Int32())

	some := roundTrip(t, c, types.Some(int32(42)))
	require.True(t, some.IsDefined())
	require.Equal(t, int32(42), some.MustGet())

	none := roundTrip(t, c, types.None[int32]())
	require.False(t, none.IsDefined())

	data, err := Serialize(c, types.None[int32]())
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, data)
}

func TestEitherRoundTrip(t *testing.T) {
	c := Either(String(), Int32())

	left := roundTrip(t, c, types.Left[string, int32]("boom"))
	l, ok := left.LeftValue()
	require.True(t, ok)
	require.Equal(t, "boom", l)

	right := roundTrip(t, c, types.Right[string, int32](7))
	r, ok := right.RightValue()
	require.True(t, ok)
	require.Equal(t, int32(7), r)

	data, err := Serialize(c, types.Right[string, int32](7))
	require.NoError(t, err)
	require.Equal(t, byte(0x01), data[0])
}

func TestEither_InvalidTag(t *testing.T) {
	_, err := Deserialize(Either(String(), Int32()), []byte{0x02})
	require.ErrorIs(t, err, errs.ErrDeserializationFailure)
}

func TestValidatedRoundTrip(t *testing.T) {
	c := Validated(String(), Int64())

	invalid := roundTrip(t, c, types.Invalid[string, int64]("out of range"))
	e, ok := invalid.ErrorValue()
	require.True(t, ok)
	require.Equal(t, "out of range", e)

	valid := roundTrip(t, c, types.Valid[string, int64](99))
	v, ok := valid.Value()
	require.True(t, ok)
	require.Equal(t, int64(99), v)
}

func TestTryRoundTrip_Success(t *testing.T) {
	c := Try(String())

	decoded := roundTrip(t, c, types.Success("done"))
	v, ok := decoded.Value()
	require.True(t, ok)
	require.Equal(t, "done", v)
}

func TestTryRoundTrip_Failure(t *testing.T) {
	c := Try(Int32())

	persisted := types.PersistError(fmt.Errorf("outer: %w", errors.New("inner")))
	require.NotEmpty(t, persisted.StackTrace)
	require.NotNil(t, persisted.Cause)

	decoded := roundTrip(t, c, types.Failure[int32](persisted))
	require.False(t, decoded.IsSuccess())

	failure := decoded.FailureValue()
	require.Equal(t, persisted.ClassName, failure.ClassName)
	require.Equal(t, persisted.Message, failure.Message)
	require.Equal(t, persisted.StackTrace, failure.StackTrace)
	require.Equal(t, persisted.Cause.ClassName, failure.Cause.ClassName)
	require.Equal(t, persisted.Cause.Message, failure.Cause.Message)
}

func TestTuple2RoundTrip(t *testing.T) {
	c := Tuple2(String(), Int32())

	decoded := roundTrip(t, c, types.Tuple2[string, int32]{F1: "k", F2: 5})
	require.Equal(t, "k", decoded.F1)
	require.Equal(t, int32(5), decoded.F2)
}

func TestTuple3_ByteExact(t *testing.T) {
	c := Tuple3(Int32(), Int32(), Int32())

	data, err := Serialize(c, types.Tuple3[int32, int32, int32]{F1: 1, F2: 2, F3: 3})
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x00,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00, 0x03,
	}, data)
}

func TestTuple4RoundTrip(t *testing.T) {
	c := Tuple4(Int8(), Bool(), String(), Float64())

	decoded := roundTrip(t, c, types.Tuple4[int8, bool, string, float64]{F1: -3, F2: true, F3: "x", F4: 1.5})
	require.Equal(t, int8(-3), decoded.F1)
	require.True(t, decoded.F2)
	require.Equal(t, "x", decoded.F3)
	require.Equal(t, 1.5, decoded.F4)
}
