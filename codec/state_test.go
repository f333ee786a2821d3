package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrium/sevo/errs"
)

func TestStoreString_Interning(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out)

	require.NoError(t, ctx.StoreString("Hello"))
	require.NoError(t, ctx.StoreString("Hello"))

	// First occurrence: zigzag varint length 5 (0x0A) plus the UTF-8 bytes;
	// second occurrence: back-reference id 1 as zigzag varint -1 (0x01).
	require.Equal(t, []byte{0x0A, 0x48, 0x65, 0x6C, 0x6C, 0x6F, 0x01}, out.Bytes())

	rctx := NewDeserializationContext(NewBytesInput(out.Bytes()))
	first, err := rctx.ReadString()
	require.NoError(t, err)
	require.Equal(t, "Hello", first)

	second, err := rctx.ReadString()
	require.NoError(t, err)
	require.Equal(t, "Hello", second)
}

func TestStoreString_Empty(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out)

	require.NoError(t, ctx.StoreString(""))
	require.NoError(t, ctx.StoreString("a"))
	require.NoError(t, ctx.StoreString(""))
	require.NoError(t, ctx.StoreString("a"))

	// The empty string writes length 0 and is assigned no id, so "a" gets
	// id 1 and its repeat back-references it.
	require.Equal(t, []byte{0x00, 0x02, 'a', 0x00, 0x01}, out.Bytes())

	rctx := NewDeserializationContext(NewBytesInput(out.Bytes()))
	for _, expected := range []string{"", "a", "", "a"} {
		s, err := rctx.ReadString()
		require.NoError(t, err)
		require.Equal(t, expected, s)
	}
}

func TestStoreString_DistinctIDs(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out)

	require.NoError(t, ctx.StoreString("one"))
	require.NoError(t, ctx.StoreString("two"))
	require.NoError(t, ctx.StoreString("two"))
	require.NoError(t, ctx.StoreString("one"))

	rctx := NewDeserializationContext(NewBytesInput(out.Bytes()))
	for _, expected := range []string{"one", "two", "two", "one"} {
		s, err := rctx.ReadString()
		require.NoError(t, err)
		require.Equal(t, expected, s)
	}
}

func TestReadString_InvalidBackReference(t *testing.T) {
	// Back-reference to id 3 with no interned strings.
	rctx := NewDeserializationContext(NewBytesInput([]byte{0x05}))
	_, err := rctx.ReadString()
	require.ErrorIs(t, err, errs.ErrDeserializationFailure)
}

func TestState_ObjectIdentity(t *testing.T) {
	s := NewState()

	a := &struct{ v int }{v: 1}
	b := &struct{ v int }{v: 1}

	require.Equal(t, int32(1), s.storeObject(a))
	require.Equal(t, int32(2), s.storeObject(b))

	id, ok := s.objectID(a)
	require.True(t, ok)
	require.Equal(t, int32(1), id)

	obj, ok := s.objectForID(2)
	require.True(t, ok)
	require.Same(t, b, obj)
}
