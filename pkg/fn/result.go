// Package fn carries small generic building blocks: a Result type,
// composable context-aware stages, retry, and bounded parallel mapping.
package fn

// Result[T] holds either a value or an error.
type Result[T any] struct {
	val T
	err error
	ok  bool
}

// Ok wraps a value in a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{val: v, ok: true}
}

// Err wraps an error in a failed Result.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// FromPair converts a conventional (value, error) return into a Result.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool { return r.ok }

// IsErr reports whether the Result holds an error.
func (r Result[T]) IsErr() bool { return !r.ok }

// Unwrap returns the value and error as a conventional pair.
func (r Result[T]) Unwrap() (T, error) { return r.val, r.err }

// UnwrapOr returns the value, or fallback when the Result failed.
func (r Result[T]) UnwrapOr(fallback T) T {
	if !r.ok {
		return fallback
	}
	return r.val
}

// MapResult converts Result[T] into Result[U] by applying f to the value.
func MapResult[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.ok {
		return Err[U](r.err)
	}
	return Ok(f(r.val))
}

// Collect gathers values from a slice of Results, or returns the first
// error encountered.
func Collect[T any](results []Result[T]) Result[[]T] {
	out := make([]T, len(results))
	for i, r := range results {
		if !r.ok {
			return Err[[]T](r.err)
		}
		out[i] = r.val
	}
	return Ok(out)
}
