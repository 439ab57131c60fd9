package store

import (
	"context"
	"time"
)

// Mock is a configurable test double for the Adapter interface. Unset
// functions fall back to miss/no-op behavior.
type Mock struct {
	GetFunc     func(ctx context.Context, key string) (any, bool, error)
	SetFunc     func(ctx context.Context, key string, value any, ttlHint time.Duration) error
	DestroyFunc func(ctx context.Context, key string) error
	IDFunc      func() string
}

// Get implements Adapter.Get.
func (m *Mock) Get(ctx context.Context, key string) (any, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, false, nil
}

// Set implements Adapter.Set.
func (m *Mock) Set(ctx context.Context, key string, value any, ttlHint time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttlHint)
	}
	return nil
}

// Destroy implements Adapter.Destroy.
func (m *Mock) Destroy(ctx context.Context, key string) error {
	if m.DestroyFunc != nil {
		return m.DestroyFunc(ctx, key)
	}
	return nil
}

// ID implements Adapter.ID.
func (m *Mock) ID() string {
	if m.IDFunc != nil {
		return m.IDFunc()
	}
	return "mock"
}

// Ensure Mock implements Adapter
var _ Adapter = (*Mock)(nil)
