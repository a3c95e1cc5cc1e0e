package fn

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// Stage transforms In to Out within a context, reporting failure through
// the Result.
type Stage[In, Out any] func(context.Context, In) Result[Out]

// Then composes two stages. The second stage only runs when the first
// succeeded.
func Then[A, B, C any](first Stage[A, B], second Stage[B, C]) Stage[A, C] {
	return func(ctx context.Context, a A) Result[C] {
		r := first(ctx, a)
		if r.IsErr() {
			_, err := r.Unwrap()
			return Err[C](err)
		}
		v, _ := r.Unwrap()
		return second(ctx, v)
	}
}

// MapStage lifts a pure function into a Stage.
func MapStage[In, Out any](f func(In) Out) Stage[In, Out] {
	return func(_ context.Context, in In) Result[Out] {
		return Ok(f(in))
	}
}

// BatchStage runs a stage over every element of a slice with at most
// workers goroutines, keeping element order. The first failure fails
// the whole batch.
func BatchStage[T, U any](workers int, stage Stage[T, U]) Stage[[]T, []U] {
	return func(ctx context.Context, items []T) Result[[]U] {
		return Collect(ParMapResult(items, workers, func(item T) Result[U] {
			return stage(ctx, item)
		}))
	}
}

// TracedStage wraps a stage in an OTel span, recording the error on
// failure.
func TracedStage[In, Out any](name string, stage Stage[In, Out]) Stage[In, Out] {
	return func(ctx context.Context, in In) Result[Out] {
		ctx, span := otel.Tracer("pkg/fn").Start(ctx, name)
		defer span.End()
		result := stage(ctx, in)
		if result.IsErr() {
			_, err := result.Unwrap()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return result
	}
}
