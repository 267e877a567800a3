package cache

import (
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("key", "value", 0)

	got, ok := c.Get("key")
	if !ok {
		t.Fatal("expected a hit")
	}
	if got != "value" {
		t.Errorf("got %v", got)
	}

	c.Delete("key")
	if _, ok := c.Get("key"); ok {
		t.Error("expected a miss after delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("fleeting", 42, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("fleeting"); ok {
		t.Error("entry should have expired")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Error("clear should drop all entries")
	}
}
