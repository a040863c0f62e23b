package cache

import (
	"testing"
	"time"
)

func TestTTLCacheGetSet(t *testing.T) {
	c := NewTTLCache(time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	c.Set("theme", "classic")
	value, ok := c.Get("theme")
	if !ok || value != "classic" {
		t.Fatalf("expected hit with classic, got %v ok=%v", value, ok)
	}

	c.Delete("theme")
	if _, ok := c.Get("theme"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache(10 * time.Millisecond)
	c.Set("theme", "minimal")
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("theme"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestTTLCachePurge(t *testing.T) {
	c := NewTTLCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after purge")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected miss after purge")
	}
}
