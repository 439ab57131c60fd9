package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	adapter, err := NewRedis(client, opts...)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	return adapter, mr
}

func TestRedis_NilClient(t *testing.T) {
	if _, err := NewRedis(nil); !errors.Is(err, ErrNilClient) {
		t.Errorf("NewRedis(nil) = %v, want ErrNilClient", err)
	}
}

func TestRedis_GetSetDestroy(t *testing.T) {
	adapter, _ := newTestRedis(t)
	ctx := context.Background()

	// Miss without error
	_, ok, err := adapter.Get(ctx, "missing")
	if err != nil || ok {
		t.Errorf("Get on empty backend = (ok=%v, err=%v), want miss without error", ok, err)
	}

	// Values round-trip through JSON, numbers come back as float64
	if err := adapter.Set(ctx, "memo:number", 20, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := adapter.Get(ctx, "memo:number")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != float64(20) {
		t.Errorf("Get = (%v, %v), want (20, true)", value, ok)
	}

	if err := adapter.Destroy(ctx, "memo:number"); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if _, ok, _ := adapter.Get(ctx, "memo:number"); ok {
		t.Error("Get after Destroy should miss")
	}

	// Destroy is idempotent
	if err := adapter.Destroy(ctx, "missing"); err != nil {
		t.Errorf("Destroy on non-existent key should not error, got: %v", err)
	}
}

func TestRedis_TTLHintMapsToNativeExpiry(t *testing.T) {
	adapter, mr := newTestRedis(t)
	ctx := context.Background()

	if err := adapter.Set(ctx, "expiring", "value", time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok, _ := adapter.Get(ctx, "expiring"); !ok {
		t.Error("Get immediately after Set should hit")
	}

	mr.FastForward(2 * time.Second)

	if _, ok, _ := adapter.Get(ctx, "expiring"); ok {
		t.Error("Get after native expiry should miss")
	}
}

func TestRedis_KeyPrefix(t *testing.T) {
	adapter, mr := newTestRedis(t, WithKeyPrefix("app1:"))
	ctx := context.Background()

	if err := adapter.Set(ctx, "key", "value", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !mr.Exists("app1:key") {
		t.Error("prefixed key not found in backend")
	}
	if _, ok, _ := adapter.Get(ctx, "key"); !ok {
		t.Error("Get through prefix should hit")
	}
}

func TestRedis_BackendFailurePropagates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	adapter, err := NewRedis(client)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	ctx := context.Background()

	// A stopped backend is a failure, not a miss
	mr.Close()

	if _, _, err := adapter.Get(ctx, "key"); err == nil {
		t.Error("Get against a stopped backend should report an error")
	}
	if err := adapter.Set(ctx, "key", "value", 0); err == nil {
		t.Error("Set against a stopped backend should report an error")
	}
}

func TestRedis_ID(t *testing.T) {
	adapter, _ := newTestRedis(t)
	if got := adapter.ID(); got != "redis" {
		t.Errorf("ID() = %q, want %q", got, "redis")
	}
}
