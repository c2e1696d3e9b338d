package models

import "encoding/json"

// Optional marks a patch field as either unchanged or set to a value.
// The zero value leaves the field unchanged. When decoded from JSON, key
// presence sets it, including an explicit null.
type Optional[T any] struct {
	Set   bool
	Value T
}

// SetTo returns an Optional holding v.
func SetTo[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Or returns the held value, or fallback when the field is unchanged.
func (o Optional[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}
	return fallback
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Set, o.Value = true, v
	return nil
}
