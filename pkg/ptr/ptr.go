// Package ptr has helpers for taking pointers to values in place.
package ptr

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
