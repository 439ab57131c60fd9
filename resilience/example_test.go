package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/memocache/memo"
	"github.com/jonwraymond/memocache/resilience"
)

func ExampleWithRetry() {
	cache := memo.New()
	attempts := 0
	flaky := func(ctx context.Context, args ...any) (any, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("origin hiccup")
		}
		return "stable value", nil
	}

	_ = cache.Define("report", resilience.WithRetry(flaky, resilience.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
	}))

	value, err := cache.Get(context.Background(), "report")
	fmt.Println(value, err)
	fmt.Println("attempts:", attempts)
	// Output:
	// stable value <nil>
	// attempts: 3
}

func ExampleBreaker() {
	b := resilience.NewBreaker(resilience.BreakerConfig{MaxFailures: 1})
	producer := b.Wrap(func(ctx context.Context, args ...any) (any, error) {
		return nil, errors.New("origin down")
	})

	_, _ = producer(context.Background()) // opens the circuit
	_, err := producer(context.Background())
	fmt.Println(errors.Is(err, resilience.ErrCircuitOpen))
	// Output:
	// true
}
