package models

import "encoding/json"

// Optional marks a single field of a partial update. Set is false when the
// field was not mentioned; a mentioned JSON null decodes to Set=true with the
// zero Value, which clears nullable (pointer) fields.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns an Optional that overwrites the field with v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// apply writes the value into dst when mentioned.
func (o Optional[T]) apply(dst *T) {
	if o.Set {
		*dst = o.Value
	}
}

// UnmarshalJSON records presence so PATCH bodies can tell omission from null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the raw value; unset fields encode as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns a pointer to v, handy for optional entity fields.
func Ptr[T any](v T) *T {
	return &v
}
