package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestLRU_GetSetDestroy(t *testing.T) {
	adapter, err := NewLRU(8)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	_, ok, err := adapter.Get(ctx, "missing")
	if err != nil || ok {
		t.Errorf("Get on empty adapter = (ok=%v, err=%v), want miss without error", ok, err)
	}

	if err := adapter.Set(ctx, "key", 42, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, _ := adapter.Get(ctx, "key")
	if !ok || value != 42 {
		t.Errorf("Get = (%v, %v), want (42, true)", value, ok)
	}

	if err := adapter.Destroy(ctx, "key"); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	_, ok, _ = adapter.Get(ctx, "key")
	if ok {
		t.Error("Get after Destroy should miss")
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	adapter, err := NewLRU(2)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	_ = adapter.Set(ctx, "a", 1, 0)
	_ = adapter.Set(ctx, "b", 2, 0)

	// Touch "a" so "b" becomes the eviction candidate
	_, _, _ = adapter.Get(ctx, "a")
	_ = adapter.Set(ctx, "c", 3, 0)

	if _, ok, _ := adapter.Get(ctx, "b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	if _, ok, _ := adapter.Get(ctx, "a"); !ok {
		t.Error("recently used entry should survive eviction")
	}
	if got := adapter.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestLRU_TTLHint(t *testing.T) {
	adapter, err := NewLRU(4)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	ctx := context.Background()

	_ = adapter.Set(ctx, "expiring", "value", 50*time.Millisecond)
	if _, ok, _ := adapter.Get(ctx, "expiring"); !ok {
		t.Error("Get immediately after Set should hit")
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok, _ := adapter.Get(ctx, "expiring"); ok {
		t.Error("Get after ttlHint elapsed should miss")
	}
}

func TestLRU_InvalidSize(t *testing.T) {
	if _, err := NewLRU(0); err == nil {
		t.Error("NewLRU(0) should error")
	}
	if _, err := NewLRU(-1); err == nil {
		t.Error("NewLRU(-1) should error")
	}
}

func BenchmarkLRU_Get_Hit(b *testing.B) {
	adapter, _ := NewLRU(1024)
	ctx := context.Background()
	for i := 0; i < 1024; i++ {
		_ = adapter.Set(ctx, fmt.Sprintf("key-%d", i), i, 0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = adapter.Get(ctx, "key-512")
	}
}
