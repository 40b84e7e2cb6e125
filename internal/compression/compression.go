// Package compression provides the payload codecs used for outgoing events.
package compression

import (
	"fmt"
	"strings"
)

// Encoding names, as carried in a Content-Encoding header
const (
	None   = "none"
	Snappy = "snappy"
)

// Codec compresses and restores message payloads
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)

	// Encoding returns the name advertised to consumers
	Encoding() string
}

// Lookup returns the codec for an encoding name. An empty name means None.
func Lookup(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", None:
		return identity{}, nil
	case Snappy:
		return NewSnappyCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported payload encoding: %q", name)
	}
}

// IsIdentity reports whether c leaves payloads untouched
func IsIdentity(c Codec) bool {
	return c == nil || c.Encoding() == None
}

type identity struct{}

func (identity) Compress(data []byte) ([]byte, error)   { return data, nil }
func (identity) Decompress(data []byte) ([]byte, error) { return data, nil }
func (identity) Encoding() string                       { return None }
