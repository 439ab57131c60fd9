package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/memocache/memo"
)

// WithTimeout wraps a producer with a per-invocation time budget. A
// computation that overruns the budget fails with ErrTimeout; the abandoned
// invocation keeps running until it observes the cancelled context.
func WithTimeout(producer memo.Producer, timeout time.Duration) memo.Producer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	type outcome struct {
		value any
		err   error
	}

	return func(ctx context.Context, args ...any) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		done := make(chan outcome, 1)
		go func() {
			// The producer runs off the caller's goroutine here, so a panic
			// must be caught before it escapes the decorator.
			defer func() {
				if r := recover(); r != nil {
					if err, ok := r.(error); ok {
						done <- outcome{nil, err}
						return
					}
					done <- outcome{nil, fmt.Errorf("producer panicked: %v", r)}
				}
			}()
			value, err := producer(ctx, args...)
			done <- outcome{value, err}
		}()

		select {
		case out := <-done:
			return out.value, out.err
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, ErrTimeout
			}
			return nil, ctx.Err()
		}
	}
}
