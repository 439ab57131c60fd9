package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/memocache/store"
)

// AdapterCheckerConfig configures the adapter probe.
type AdapterCheckerConfig struct {
	// ProbeKey is the key used for the canary round trip. Keep it outside
	// the engine's key space; the probe destroys it after each check.
	// Default: "health:probe:<adapter-id>"
	ProbeKey string

	// WarnLatency is the round-trip duration beyond which the adapter is
	// reported degraded instead of healthy.
	// Default: 250ms
	WarnLatency time.Duration
}

// AdapterChecker probes a store adapter with a full write/read/delete round
// trip. A backend that accepts the write but returns a different value, or
// fails any leg, is unhealthy; a slow but correct round trip is degraded.
type AdapterChecker struct {
	adapter store.Adapter
	config  AdapterCheckerConfig
}

// NewAdapterChecker creates a probe for the given adapter.
func NewAdapterChecker(adapter store.Adapter, config ...AdapterCheckerConfig) *AdapterChecker {
	cfg := AdapterCheckerConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.WarnLatency <= 0 {
		cfg.WarnLatency = 250 * time.Millisecond
	}
	if cfg.ProbeKey == "" {
		cfg.ProbeKey = "health:probe:" + adapter.ID()
	}
	return &AdapterChecker{adapter: adapter, config: cfg}
}

// Name returns the checker name, derived from the adapter identity.
func (c *AdapterChecker) Name() string {
	return "store." + c.adapter.ID()
}

// Check performs the canary round trip.
func (c *AdapterChecker) Check(ctx context.Context) Result {
	start := time.Now()
	canary := fmt.Sprintf("probe-%d", start.UnixNano())

	if err := c.adapter.Set(ctx, c.config.ProbeKey, canary, time.Minute); err != nil {
		return Unhealthy("probe write failed", fmt.Errorf("%w: %v", ErrProbeFailed, err))
	}

	value, ok, err := c.adapter.Get(ctx, c.config.ProbeKey)
	if err != nil {
		return Unhealthy("probe read failed", fmt.Errorf("%w: %v", ErrProbeFailed, err))
	}
	if !ok {
		return Unhealthy("probe value missing after write", ErrProbeFailed)
	}
	if value != canary {
		return Unhealthy(fmt.Sprintf("probe read back %v, wrote %v", value, canary), ErrProbeFailed)
	}

	if err := c.adapter.Destroy(ctx, c.config.ProbeKey); err != nil {
		return Unhealthy("probe cleanup failed", fmt.Errorf("%w: %v", ErrProbeFailed, err))
	}

	elapsed := time.Since(start)
	details := map[string]any{
		"adapter":       c.adapter.ID(),
		"round_trip_ms": float64(elapsed.Microseconds()) / 1000,
	}
	if elapsed > c.config.WarnLatency {
		return Degraded(fmt.Sprintf("round trip slow: %s", elapsed)).WithDetails(details)
	}
	return Healthy("round trip ok").WithDetails(details)
}

var _ Checker = (*AdapterChecker)(nil)
