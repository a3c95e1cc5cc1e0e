package fn

// Map applies f to each element.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = f(v)
	}
	return out
}

// Chunk splits items into consecutive slices of at most n elements.
// Returns nil when n <= 0.
func Chunk[T any](items []T, n int) [][]T {
	if n <= 0 {
		return nil
	}
	var out [][]T
	for i := 0; i < len(items); i += n {
		end := min(i+n, len(items))
		out = append(out, items[i:end])
	}
	return out
}

// Flatten concatenates nested slices into one.
func Flatten[T any](nested [][]T) []T {
	var total int
	for _, s := range nested {
		total += len(s)
	}
	out := make([]T, 0, total)
	for _, s := range nested {
		out = append(out, s...)
	}
	return out
}
