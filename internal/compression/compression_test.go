package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		want     string
		wantErr  bool
	}{
		{name: "empty", encoding: "", want: None},
		{name: "none", encoding: "none", want: None},
		{name: "snappy", encoding: "snappy", want: Snappy},
		{name: "case insensitive", encoding: " Snappy ", want: Snappy},
		{name: "unsupported", encoding: "zstd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Encoding())
		})
	}
}

func TestIdentity(t *testing.T) {
	c, err := Lookup(None)
	require.NoError(t, err)
	assert.True(t, IsIdentity(c))
	assert.True(t, IsIdentity(nil))
	assert.False(t, IsIdentity(NewSnappyCodec()))

	data := []byte(`{"dataset":"sales"}`)
	out, err := c.Compress(data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestSnappyCodec_RoundTrip(t *testing.T) {
	c := NewSnappyCodec()
	original := bytes.Repeat([]byte(`{"mean":5.5,"std_dev":3.0276503540974917}`), 50)

	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original))

	restored, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestSnappyCodec_EmptyData(t *testing.T) {
	c := NewSnappyCodec()

	compressed, err := c.Compress([]byte{})
	require.NoError(t, err)
	assert.Empty(t, compressed)

	restored, err := c.Decompress([]byte{})
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestSnappyCodec_CorruptData(t *testing.T) {
	_, err := NewSnappyCodec().Decompress([]byte("definitely not snappy"))
	assert.Error(t, err)
}
