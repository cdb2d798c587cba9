// Package output serializes parsed estimates and raw sheets.
package output

import (
	"bytes"
	"encoding/json"
)

// ToJSON serializes v to JSON. HTML characters are not escaped so that
// descriptions such as "Tubo 3/4\" <PVC>" stay readable.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
