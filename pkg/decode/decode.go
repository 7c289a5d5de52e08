// Package decode provides generic helpers for converting loosely typed data
// into concrete structures.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FromMap converts a map into a concrete structure by round-tripping
// through JSON.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}

// JSONStrict decodes JSON into a concrete structure, rejecting unknown
// fields and trailing content. Used for payloads whose shape is a protocol
// contract rather than a convenience.
func JSONStrict[T any](data []byte) (T, error) {
	var result T

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&result); err != nil {
		return result, err
	}
	if dec.More() {
		var zero T
		return zero, fmt.Errorf("unexpected trailing content")
	}
	return result, nil
}
