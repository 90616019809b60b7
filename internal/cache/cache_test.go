package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const testRedisAddr = "localhost:6379"

// setupTestCache skips when no Redis is reachable, so the suite can run
// without infrastructure.
func setupTestCache(t *testing.T, prefix string) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := New(client, prefix, time.Minute)
	t.Cleanup(func() {
		_ = c.DeletePattern(ctx, "*")
		client.Close()
	})
	return c
}

type payload struct {
	ID     string  `json:"id"`
	Result float64 `json:"result"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := setupTestCache(t, "test:roundtrip:")
	ctx := context.Background()

	want := payload{ID: "abc", Result: 30}
	if err := c.Set(ctx, "calc", want); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	hit, err := c.Get(ctx, "calc", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCacheMissIsNotAnError(t *testing.T) {
	c := setupTestCache(t, "test:miss:")

	var got payload
	hit, err := c.Get(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss")
	}
}

func TestCacheDelete(t *testing.T) {
	c := setupTestCache(t, "test:delete:")
	ctx := context.Background()

	if err := c.Set(ctx, "calc", payload{ID: "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Delete(ctx, "calc"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got payload
	if hit, _ := c.Get(ctx, "calc", &got); hit {
		t.Fatal("expected key to be gone")
	}
}

func TestCacheDeletePattern(t *testing.T) {
	c := setupTestCache(t, "test:pattern:")
	ctx := context.Background()

	for _, key := range []string{"list:10:0", "list:10:10", "record:1"} {
		if err := c.Set(ctx, key, payload{ID: key}); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := c.DeletePattern(ctx, "list:*"); err != nil {
		t.Fatalf("delete pattern: %v", err)
	}

	var got payload
	if hit, _ := c.Get(ctx, "list:10:0", &got); hit {
		t.Fatal("expected list keys to be gone")
	}
	if hit, _ := c.Get(ctx, "record:1", &got); !hit {
		t.Fatal("expected record key to survive")
	}
}

func TestCacheStats(t *testing.T) {
	c := setupTestCache(t, "test:stats:")
	ctx := context.Background()

	_ = c.Set(ctx, "calc", payload{ID: "x"})

	var got payload
	_, _ = c.Get(ctx, "calc", &got)
	_, _ = c.Get(ctx, "absent", &got)

	stats := c.Snapshot()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.HitRate != 50 {
		t.Fatalf("expected hit rate 50, got %g", stats.HitRate)
	}
}
