// Package utils is small generic helpers.
package utils

// Map converts each element of sli with mapper, keeping order.
//
// For nil sli, it returns an empty (non-nil) slice.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}
