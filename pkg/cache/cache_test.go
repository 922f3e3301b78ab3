package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	if h3 := Hash([]byte("world")); h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	type item struct {
		ID     string  `json:"id"`
		Height float64 `json:"height"`
	}
	a, err := HashJSON([]item{{"a", 1}, {"b", 2}})
	if err != nil {
		t.Fatalf("HashJSON error: %v", err)
	}
	b, _ := HashJSON([]item{{"b", 2}, {"a", 1}})
	if a == b {
		t.Error("item order must change the hash")
	}

	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON should fail for unmarshalable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("picsum", "list?page=1"); got != "http:picsum:list?page=1" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}

	pk1 := k.PageKey("random", PageKeyOpts{Page: 1, PerPage: 10, Seed: 42})
	pk2 := k.PageKey("random", PageKeyOpts{Page: 2, PerPage: 10, Seed: 42})
	if pk1 == pk2 {
		t.Error("Different pages should produce different keys")
	}
	if pk3 := k.PageKey("picsum", PageKeyOpts{Page: 1, PerPage: 10, Seed: 42}); pk1 == pk3 {
		t.Error("Different sources should produce different keys")
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Columns: 2, Width: 430})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Columns: 3, Width: 430})
	if lk1 == lk2 {
		t.Error("Different column counts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "card"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Style: "card"})
	if ak1 == ak2 {
		t.Error("Different formats should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "gallery:1:")

	if got := scoped.HTTPKey("picsum", "x"); got != "gallery:1:http:picsum:x" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", got)
	}

	layoutKey := scoped.LayoutKey("abc", LayoutKeyOpts{Columns: 2})
	if len(layoutKey) < 15 || layoutKey[:10] != "gallery:1:" {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", layoutKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.HTTPKey("test", "key"); key != "prefix:http:test:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	t.Run("miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "missing")
		if err != nil || hit {
			t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		data, hit, err := c.Get(ctx, "k")
		if err != nil || !hit || string(data) != "v" {
			t.Errorf("Get(k) = %q, %v, %v; want \"v\", true, nil", data, hit, err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, hit, _ := c.Get(ctx, "short"); hit {
			t.Error("expired entry should be a miss")
		}
		if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
			t.Error("expired entry should be removed")
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		path := c.path("corrupt")
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "corrupt"); hit || err != nil {
			t.Errorf("corrupt entry = %v, %v; want miss", hit, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", []byte("v"), 0)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("deleted entry should be a miss")
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Errorf("Delete of missing key should succeed: %v", err)
		}
	})
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir("waterfall")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "waterfall") {
		t.Errorf("DefaultDir = %s", dir)
	}
}

func TestBoltCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "cache.db")
	c, err := NewBoltCache(path)
	if err != nil {
		t.Fatalf("NewBoltCache error: %v", err)
	}
	defer c.Close()

	if c.Path() != path {
		t.Errorf("Path() = %q, want %q", c.Path(), path)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}

	_ = c.Set(ctx, "short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry should be a miss")
	}
}

func TestBoltCache_ClearAndClose(t *testing.T) {
	ctx := context.Background()
	c, err := NewBoltCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 2 {
		t.Errorf("Clear() = %d, %v; want 2, nil", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}

	c.Close()
	if err := c.Set(ctx, "a", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}
