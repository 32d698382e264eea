// Package json provides JSON extraction utilities for parsing LLM responses.
//
// Models mix structured payloads with prose. This package finds the payload
// line behind a marker and decodes it strictly: exactly one JSON value, no
// trailing data, and optionally no unknown fields.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMarkerNotFound is returned when the marker does not occur in the text.
var ErrMarkerNotFound = errors.New("marker not found")

// LineAfterMarker returns the first non-blank line following the first
// occurrence of marker, with surrounding whitespace removed. Whitespace
// (including line breaks) directly after the marker is skipped.
// Text before the marker and lines after the payload are ignored.
func LineAfterMarker(text, marker string) (string, error) {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return "", ErrMarkerNotFound
	}
	rest := strings.TrimSpace(text[idx+len(marker):])
	if nl := strings.IndexAny(rest, "\r\n"); nl != -1 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest), nil
}

// DecodeStrict parses s as exactly one JSON value of type T.
// Trailing data after the value is an error.
func DecodeStrict[T any](s string) (T, error) {
	var result T
	if err := decode([]byte(s), &result, false); err != nil {
		return result, err
	}
	return result, nil
}

// Rebind copies a loosely typed value (typically a decoded argument map)
// into the struct pointed to by dst. Keys dst does not declare are errors.
func Rebind(src any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return decode(data, dst, true)
}

func decode(data []byte, dst any, disallowUnknown bool) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value: %q", preview(string(data)))
	}
	return nil
}

// Compact renders v as single-line JSON. Values that cannot be encoded
// become a JSON error object instead.
func Compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return string(data)
}

func preview(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}
