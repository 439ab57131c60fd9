package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/memocache/memo"
)

// BackoffStrategy defines how delays grow between attempts.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases the delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for every retry.
	BackoffConstant
)

// RetryConfig configures WithRetry.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the factor for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy selects the backoff curve.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter randomizes delays by up to 25% to spread retry bursts.
	// Default: false
	Jitter bool

	// RetryIf decides whether an error is worth retrying.
	// Default: every non-nil error.
	RetryIf func(err error) bool

	// OnRetry is called before each retry with the failed attempt number.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = func(err error) bool { return err != nil }
	}
	return c
}

// WithRetry wraps a producer so transient failures are retried with
// backoff. The last attempt's error is returned unchanged when all attempts
// fail; context cancellation aborts the wait between attempts.
func WithRetry(producer memo.Producer, config RetryConfig) memo.Producer {
	cfg := config.withDefaults()

	return func(ctx context.Context, args ...any) (any, error) {
		var lastErr error

		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			value, err := producer(ctx, args...)
			if err == nil {
				return value, nil
			}
			lastErr = err

			if !cfg.RetryIf(err) || attempt >= cfg.MaxAttempts {
				break
			}

			delay := cfg.delay(attempt)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, err, delay)
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		return nil, lastErr
	}
}

func (c RetryConfig) delay(attempt int) time.Duration {
	var delay time.Duration

	switch c.Strategy {
	case BackoffConstant:
		delay = c.InitialDelay
	case BackoffLinear:
		delay = c.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		delay = time.Duration(float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1)))
	}

	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	if c.Jitter && delay > 0 {
		// Up to 25% jitter.
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay / 4)))
	}

	return delay
}
