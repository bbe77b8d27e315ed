// Package pointer makes pointers of literals, mostly for optional fields.
package pointer

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}
