package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

// SnappyCodec uses the snappy block format
type SnappyCodec struct{}

// NewSnappyCodec creates a new snappy codec
func NewSnappyCodec() *SnappyCodec {
	return &SnappyCodec{}
}

// Compress encodes data. Empty input stays empty.
func (s *SnappyCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress decodes a snappy block
func (s *SnappyCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}
	return decoded, nil
}

// Encoding returns Snappy
func (s *SnappyCodec) Encoding() string {
	return Snappy
}
