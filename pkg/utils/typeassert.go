package utils

import "fmt"

// SafeAssert safely performs type assertion and returns the value and success status.
func SafeAssert[T any](value any) (T, bool) {
	if v, ok := value.(T); ok {
		return v, true
	}
	var zero T
	return zero, false
}

// OptionalMapField gets an optional key: a missing or null key yields
// (zero, false, nil); a present key of the wrong type is an error.
func OptionalMapField[T any](m map[string]any, key string) (T, bool, error) {
	var zero T
	value, exists := m[key]
	if !exists || value == nil {
		return zero, false, nil
	}
	if typedValue, ok := value.(T); ok {
		return typedValue, true, nil
	}
	return zero, false, fmt.Errorf("field '%s' expected type %T, got %T", key, zero, value)
}
