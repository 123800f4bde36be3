package redis

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
)

func TestPropertyCache_LocalTier(t *testing.T) {
	cache := NewPropertyCache(nil, time.Minute, zerolog.Nop())
	defer cache.Stop()
	ctx := context.Background()

	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("expected miss on empty cache")
	}

	p := &domain.Property{ID: 1, Title: "casa", Amenities: []string{"Wifi"}}
	cache.Set(ctx, p)

	got, ok := cache.Get(ctx, 1)
	if !ok || got.Title != "casa" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	// Mutating the returned copy must not leak into the cache.
	got.Amenities[0] = "changed"
	again, _ := cache.Get(ctx, 1)
	if again.Amenities[0] != "Wifi" {
		t.Fatalf("cached entry was mutated: %v", again.Amenities)
	}

	cache.Invalidate(ctx, 1)
	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("expected miss after invalidate")
	}
}

func TestPropertyCache_TTLDefaults(t *testing.T) {
	cache := NewPropertyCache(nil, 0, zerolog.Nop())
	defer cache.Stop()

	if cache.ttl != defaultCacheTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, defaultCacheTTL)
	}
	if cache.localTTL != maxLocalTTL {
		t.Errorf("localTTL = %v, want %v", cache.localTTL, maxLocalTTL)
	}
	if got := cache.key(42); got != "property:42" {
		t.Errorf("key = %q", got)
	}
}

func TestPropertyCache_InvalidateEvictsLateReadThrough(t *testing.T) {
	cache := NewPropertyCache(nil, time.Minute, zerolog.Nop())
	cache.redeleteDelay = 10 * time.Millisecond
	defer cache.Stop()
	ctx := context.Background()

	cache.Set(ctx, &domain.Property{ID: 7, Title: "old"})
	cache.Invalidate(ctx, 7)
	// A read that loaded the row before the update finishes after the delete.
	cache.Set(ctx, &domain.Property{ID: 7, Title: "old"})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := cache.Get(ctx, 7); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("stale entry survived the delayed invalidation")
}

func TestOpenPropertyCache_LocalOnly(t *testing.T) {
	cache, err := OpenPropertyCache(context.Background(), Config{TTL: 10 * time.Second}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenPropertyCache: %v", err)
	}
	defer cache.Stop()

	if cache.Shared() {
		t.Fatal("expected local-only cache without an address")
	}
	if cache.ttl != 10*time.Second || cache.localTTL != 10*time.Second {
		t.Fatalf("ttl = %v, localTTL = %v", cache.ttl, cache.localTTL)
	}
	if err := cache.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	cache.Stop()
}
