// Package collection provides generic slice helpers.
//
// Usage:
//
//	keys := collection.Map(products, func(p models.Product) string { return p.TitleKey })
//	fresh := collection.Reject(items, func(d Descriptor) bool { return existing[d.key()] })
//	first := collection.UniqueBy(items, func(d Descriptor) string { return d.key() })
package collection

// Map transforms each element of s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reject is the inverse of Filter.
func Reject[T any](s []T, fn func(T) bool) []T {
	return Filter(s, func(v T) bool { return !fn(v) })
}

// UniqueBy keeps the first element for every key produced by fn.
func UniqueBy[T any, K comparable](s []T, fn func(T) K) []T {
	seen := make(map[K]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		k := fn(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Chunk splits s into slices of at most n elements.
func Chunk[T any](s []T, n int) [][]T {
	if n <= 0 {
		return nil
	}
	var out [][]T
	for i := 0; i < len(s); i += n {
		end := i + n
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[i:end])
	}
	return out
}

// Set builds a membership set from s.
func Set[T comparable](s []T) map[T]struct{} {
	out := make(map[T]struct{}, len(s))
	for _, v := range s {
		out[v] = struct{}{}
	}
	return out
}
