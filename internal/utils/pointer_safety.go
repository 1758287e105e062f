// Package utils holds small generic helpers for the optional-field pointers
// the wire types carry.
package utils

// Value dereferences v, yielding the zero value when v is nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v, for populating optional wire fields.
func Ptr[T any](v T) *T {
	return &v
}
