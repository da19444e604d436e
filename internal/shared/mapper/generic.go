// Package mapper converts slices of gorm rows into domain values.
package mapper

// Rows maps each row by pointer, so callers can pass the slice gorm scanned
// into without copying rows. The result is never nil.
func Rows[M any, E any](rows []M, toDomain func(*M) E) []E {
	out := make([]E, len(rows))
	for i := range rows {
		out[i] = toDomain(&rows[i])
	}
	return out
}

// RowsWithError is Rows for conversions that validate; it stops at the first error.
func RowsWithError[M any, E any](rows []M, toDomain func(*M) (E, error)) ([]E, error) {
	out := make([]E, len(rows))
	for i := range rows {
		e, err := toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// Slice applies fn to each element of items.
func Slice[T any, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
