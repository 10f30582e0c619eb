// Package encoding provides text decoding for mesh source files.
package encoding

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newDecoder returns a UTF-8 decoder that honours a leading UTF-8 or UTF-16 BOM
// and strips it from the output.
func newDecoder() transform.Transformer {
	return unicode.BOMOverride(unicode.UTF8.NewDecoder())
}

// DecodeText converts mesh source bytes to BOM-free UTF-8.
// Plain UTF-8 input is returned unchanged.
func DecodeText(data []byte) ([]byte, error) {
	result, _, err := transform.Bytes(newDecoder(), data)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NewReader wraps r so that reads yield BOM-free UTF-8.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, newDecoder())
}
