package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferOutput_FixedWidth(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()

	require.NoError(t, out.WriteByte(0xAB))
	require.NoError(t, out.WriteInt8(-1))
	require.NoError(t, out.WriteInt16(0x0102))
	require.NoError(t, out.WriteInt32(0x01020304))
	require.NoError(t, out.WriteInt64(0x0102030405060708))

	require.Equal(t, []byte{
		0xAB,
		0xFF,
		0x01, 0x02,
		0x01, 0x02, 0x03, 0x04,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}, out.Bytes())
}

func TestBufferOutput_Bool(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()

	require.NoError(t, out.WriteBool(true))
	require.NoError(t, out.WriteBool(false))
	require.Equal(t, []byte{0x01, 0x00}, out.Bytes())
}

func TestBufferOutput_VarInt(t *testing.T) {
	tests := []struct {
		name                string
		value               int32
		optimizeForPositive bool
		expected            []byte
	}{
		{"zero positive", 0, true, []byte{0x00}},
		{"small positive", 100, true, []byte{0x64}},
		{"two groups", 300, true, []byte{0xAC, 0x02}},
		{"zigzag zero", 0, false, []byte{0x00}},
		{"zigzag one", 1, false, []byte{0x02}},
		{"zigzag minus one", -1, false, []byte{0x01}},
		{"zigzag five", 5, false, []byte{0x0A}},
		{"zigzag minus two", -2, false, []byte{0x03}},
		{"max int32 positive", 1<<31 - 1, true, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{"negative positive-mode", -1, true, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewBufferOutput()
			defer out.Release()

			require.NoError(t, out.WriteVarInt(tt.value, tt.optimizeForPositive))
			require.Equal(t, tt.expected, out.Bytes())

			in := NewBytesInput(out.Bytes())
			decoded, err := in.ReadVarInt(tt.optimizeForPositive)
			require.NoError(t, err)
			require.Equal(t, tt.value, decoded)
			require.Equal(t, 0, in.Remaining())
		})
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 63, 64, -64, -65, 127, 128, 8191, 8192,
		1<<20 - 1, -(1 << 20), 1<<31 - 1, -(1 << 31)}

	for _, v := range values {
		for _, positive := range []bool{true, false} {
			out := NewBufferOutput()
			require.NoError(t, out.WriteVarInt(v, positive))

			in := NewBytesInput(out.Bytes())
			decoded, err := in.ReadVarInt(positive)
			require.NoError(t, err)
			require.Equal(t, v, decoded)
			out.Release()
		}
	}
}

func TestCompressedByteArray_RoundTrip(t *testing.T) {
	payload := make([]byte, 0, 4096)
	for i := 0; i < 512; i++ {
		payload = append(payload, "evolved"...)
	}

	out := NewBufferOutput()
	defer out.Release()
	require.NoError(t, out.WriteCompressedByteArray(payload, -1))
	require.Less(t, out.Len(), len(payload))

	in := NewBytesInput(out.Bytes())
	restored, err := in.ReadCompressedByteArray()
	require.NoError(t, err)
	require.Equal(t, payload, restored)
	require.Equal(t, 0, in.Remaining())
}

func TestCompressedByteArray_Empty(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()
	require.NoError(t, out.WriteCompressedByteArray(nil, -1))
	require.Equal(t, []byte{0x00}, out.Bytes())

	in := NewBytesInput(out.Bytes())
	restored, err := in.ReadCompressedByteArray()
	require.NoError(t, err)
	require.Empty(t, restored)
}
