package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/types"
)

func tuple2Of(a, b *node) types.Tuple2[*node, *node] {
	return types.Tuple2[*node, *node]{F1: a, F2: b}
}

// node is a singly linked node that may close into a cycle.
type node struct {
	Name string
	Next *node
}

// nodeCodec tracks node references so shared and cyclic graphs round-trip.
type nodeCodec struct{}

func (nodeCodec) Serialize(ctx *SerializationContext, n *node) error {
	return StoreRefOrValue[*node](ctx, nodeBodyCodec{}, n)
}

func (nodeCodec) Deserialize(ctx *DeserializationContext) (*node, error) {
	// The body codec registers the partially constructed node itself.
	return ReadRefOrValue[*node](ctx, nodeBodyCodec{}, false)
}

type nodeBodyCodec struct{}

func (nodeBodyCodec) Serialize(ctx *SerializationContext, n *node) error {
	if err := ctx.StoreString(n.Name); err != nil {
		return err
	}

	hasNext := n.Next != nil
	if err := ctx.Output().WriteBool(hasNext); err != nil {
		return err
	}
	if hasNext {
		return (nodeCodec{}).Serialize(ctx, n.Next)
	}

	return nil
}

func (nodeBodyCodec) Deserialize(ctx *DeserializationContext) (*node, error) {
	n := &node{}
	// Publish the handle before reading fields that might refer back.
	ctx.StoreReadRef(n)

	var err error
	if n.Name, err = ctx.ReadString(); err != nil {
		return nil, err
	}

	hasNext, err := ctx.Input().ReadBool()
	if err != nil {
		return nil, err
	}
	if hasNext {
		if n.Next, err = (nodeCodec{}).Deserialize(ctx); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func TestRefs_Cycle(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b"}
	c := &node{Name: "c"}
	a.Next = b
	b.Next = c
	c.Next = a

	data, err := Serialize[*node](nodeCodec{}, a)
	require.NoError(t, err)

	decoded, err := Deserialize[*node](nodeCodec{}, data)
	require.NoError(t, err)

	require.Equal(t, "a", decoded.Name)
	require.Equal(t, "b", decoded.Next.Name)
	require.Equal(t, "c", decoded.Next.Next.Name)

	// The cycle closes on the same decoded node, by identity.
	require.Same(t, decoded, decoded.Next.Next.Next)
}

func TestRefs_SharedNode(t *testing.T) {
	shared := &node{Name: "shared"}
	left := &node{Name: "left", Next: shared}
	right := &node{Name: "right", Next: shared}

	pair := Tuple2[*node, *node](nodeCodec{}, nodeCodec{})

	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out)
	require.NoError(t, pair.Serialize(ctx, tuple2Of(left, right)))

	rctx := NewDeserializationContext(NewBytesInput(out.Bytes()))
	decoded, err := pair.Deserialize(rctx)
	require.NoError(t, err)

	require.Equal(t, "left", decoded.F1.Name)
	require.Equal(t, "right", decoded.F2.Name)
	require.Same(t, decoded.F1.Next, decoded.F2.Next)
}

func TestRefs_DistinctIdentitiesSerializedTwice(t *testing.T) {
	first := &node{Name: "same"}
	second := &node{Name: "same"}

	pair := Tuple2[*node, *node](nodeCodec{}, nodeCodec{})
	data, err := Serialize(pair, tuple2Of(first, second))
	require.NoError(t, err)

	decoded, err := Deserialize(pair, data)
	require.NoError(t, err)
	require.NotSame(t, decoded.F1, decoded.F2)
	require.Equal(t, decoded.F1.Name, decoded.F2.Name)
}

func TestRefs_InvalidBackReference(t *testing.T) {
	// Back-reference id 1 with no stored objects: zigzag varint -1.
	_, err := ReadRefOrValue[*node](NewDeserializationContext(NewBytesInput([]byte{0x01})), nodeBodyCodec{}, false)
	require.ErrorIs(t, err, errs.ErrDeserializationFailure)
}
