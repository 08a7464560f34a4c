package cache

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("http://egpw.org/members/mem-1")
	b := CacheKey("http://egpw.org/members/mem-2")

	if a == b {
		t.Error("expected different keys for different URLs")
	}
	if a != CacheKey("http://egpw.org/members/mem-1") {
		t.Error("expected key to be stable")
	}
	if !strings.HasPrefix(a, "egmembers:v1:") {
		t.Errorf("unexpected key prefix: %s", a)
	}
}

func TestDiskCache_SetGet(t *testing.T) {
	c := NewDiskCache(t.TempDir(), 0)
	key := CacheKey("http://egpw.org/search")

	if _, found := c.Get(key); found {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set(key, []byte("<html>page</html>"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(got) != "<html>page</html>" {
		t.Errorf("unexpected value: %q", got)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), 0)
	key := CacheKey("http://egpw.org/stale")

	if err := c.Set(key, []byte("old"), time.Nanosecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("expected expired entry to be removed from disk")
	}
}

func TestDiskCache_DeleteAndClear(t *testing.T) {
	dir := t.TempDir() + "/pages"
	c := NewDiskCache(dir, 0)

	if err := c.Delete(CacheKey("missing")); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected deleted key to miss")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("b"); found {
		t.Error("expected cleared cache to miss")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("expected cache dir to be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := CacheKey("http://egpw.org/members/mem-7")

	// Populate disk through a separate instance, as a previous run would
	if err := NewDiskCache(dir, 0).Set(key, []byte("member"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, 0)
	got, found := c.Get(key)
	if !found || string(got) != "member" {
		t.Fatalf("expected disk hit, got %q found=%v", got, found)
	}

	mem := c.memory.(*MemoryCache)
	if mem.Len() != 1 {
		t.Errorf("expected disk hit promoted to memory, memory has %d items", mem.Len())
	}
}

func TestLayeredCache_Clear(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), 0)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after Clear")
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	_ = c.Set("k", []byte("v"), 0)
	if _, found := c.Get("k"); found {
		t.Error("Noop cache should never hit")
	}
}
