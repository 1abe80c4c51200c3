// Package utils contains small helper types used across the project.
//
// These are generic helpers that don't belong to a specific domain.
package utils

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether it was sent.
//
// Three states are distinguishable after decoding a body:
//
//	{}                 -> Set == false
//	{"notes": null}    -> Set == true, Null == true
//	{"notes": "hello"} -> Set == true, Null == false, Value == "hello"
//
// Partial updates write only fields that are Set.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional that was explicitly null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}

	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes null for absent or null values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Present reports whether a non-null value was sent.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr returns a pointer to the value, or nil when null or absent.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// ValidationValue exposes the value to struct-tag validation: nil when
// nothing usable was sent, so `omitempty` rules skip it.
func (o Optional[T]) ValidationValue() any {
	if !o.Present() {
		return nil
	}
	return o.Value
}
