package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPayload() []byte {
	var buf bytes.Buffer
	for i := 0; i < 200; i++ {
		buf.WriteString("repetitive serialized field data ")
	}

	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	payload := testPayload()

	tests := []struct {
		name       string
		codec      Codec
		compresses bool
	}{
		{"deflate", NewDeflateCompressor(), true},
		{"deflate-best", NewDeflateCompressorLevel(9), true},
		{"s2", NewS2Compressor(), true},
		{"lz4", NewLZ4Compressor(), true},
		{"zstd", NewZstdCompressor(), true},
		{"noop", NewNoOpCompressor(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := tt.codec.Compress(payload)
			require.NoError(t, err)
			if tt.compresses {
				require.Less(t, len(compressed), len(payload))
			}

			restored, err := tt.codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, restored)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	codecs := []Codec{
		NewDeflateCompressor(),
		NewS2Compressor(),
		NewLZ4Compressor(),
		NewZstdCompressor(),
	}

	for _, c := range codecs {
		compressed, err := c.Compress(nil)
		require.NoError(t, err)
		require.Empty(t, compressed)

		restored, err := c.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, restored)
	}
}

func TestDeflateDecompress_Corrupted(t *testing.T) {
	c := NewDeflateCompressor()
	_, err := c.Decompress([]byte{0xFF, 0xFE, 0xFD, 0x00, 0x01})
	require.Error(t, err)
}

func TestCodecFor(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeDeflate, TypeS2, TypeLZ4, TypeZstd} {
		c, err := CodecFor(typ)
		require.NoError(t, err)
		require.NotNil(t, c)
		require.NotEqual(t, "Unknown", typ.String())
	}

	_, err := CodecFor(Type(0xAA))
	require.Error(t, err)
}
