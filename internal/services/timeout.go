package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/soltixdb/sfb/internal/analytics"
)

type outcome[T any] struct {
	value T
	err   error
}

// runWithTimeout runs fn in its own goroutine under a deadline. A panic in fn is
// returned as analytics.ErrComputation. When the deadline passes first the
// context error is returned and fn's eventual result is discarded.
func runWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- outcome[T]{value: zero, err: &panicError{value: r, stack: debug.Stack()}}
			}
		}()
		v, err := fn(ctx)
		done <- outcome[T]{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

type panicError struct {
	value interface{}
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%v: panic: %v", analytics.ErrComputation, e.value)
}

func (e *panicError) Unwrap() error {
	return analytics.ErrComputation
}
