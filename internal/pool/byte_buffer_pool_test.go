package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(16)
	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte("hello"), bb.Bytes())

	bb.MustWrite([]byte(" world"))
	require.Equal(t, []byte("hello world"), bb.Bytes())

	require.NoError(t, bb.WriteByte('!'))
	require.Equal(t, []byte("hello world!"), bb.Bytes())
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{1, 2, 3})

	bb.Grow(1024)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1024)
	require.Equal(t, []byte{1, 2, 3}, bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("data"))
	oldCap := bb.Cap()

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, oldCap, bb.Cap())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", out.String())
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("abc"))
	p.Put(bb)

	// A recycled buffer is reset.
	bb2 := p.Get()
	require.Equal(t, 0, bb2.Len())
	p.Put(bb2)

	// Buffers above the threshold are dropped, not retained.
	big := NewByteBuffer(128)
	p.Put(big)
}

func TestDefaultPools(t *testing.T) {
	cb := GetChunkBuffer()
	require.NotNil(t, cb)
	cb.MustWrite([]byte{1})
	PutChunkBuffer(cb)

	rb := GetRecordBuffer()
	require.NotNil(t, rb)
	PutRecordBuffer(rb)
	PutRecordBuffer(nil)
}
