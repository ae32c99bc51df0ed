package hooks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "hooks.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundtrip(t *testing.T) {
	c := testCache(t)
	mtime := time.Now()
	in := Result{Output: "arg1 arg2\n", RanAt: time.Unix(0, mtime.UnixNano())}
	if err := c.Put("gen", mtime, in); err != nil {
		t.Fatal(err)
	}
	out, ok, err := c.Get("gen", mtime)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("missing entry")
	}
	in.Cached = true
	if d := cmp.Diff(in, out); d != "" {
		t.Fatal(d)
	}
}

func TestCacheMiss(t *testing.T) {
	c := testCache(t)
	if _, ok, err := c.Get("nope", time.Now()); err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestCacheInvalidation(t *testing.T) {
	c := testCache(t)
	mtime := time.Now()
	if err := c.Put("gen", mtime, Result{Output: "x"}); err != nil {
		t.Fatal(err)
	}
	// same mtime still hits
	if _, ok, _ := c.Get("gen", mtime); !ok {
		t.Fatal("entry should survive an unchanged config")
	}
	// a newer config makes it stale
	if _, ok, _ := c.Get("gen", mtime.Add(time.Second)); ok {
		t.Fatal("entry should be stale after a config change")
	}
}

func TestCacheWipe(t *testing.T) {
	c := testCache(t)
	if err := c.Wipe(); err != nil {
		t.Fatal(err) // wiping an empty store is fine
	}
	mtime := time.Now()
	if err := c.Put("gen", mtime, Result{Output: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Wipe(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get("gen", mtime); ok {
		t.Fatal("entry should be gone after wipe")
	}
}
