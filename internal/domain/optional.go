package domain

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value that may be absent. The zero value is absent.
// Absent values marshal to JSON null.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the held value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func isJSONNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
