// Package jsonutil encodes JSON without HTML escaping. Generated
// component code is full of JSX angle brackets, and the default encoder
// would turn every < and > into < and > on the wire.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"io"
)

// MarshalNoEscape encodes v into JSON, keeping <, >, and & literal.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode writes v to w as unescaped JSON followed by a newline.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
