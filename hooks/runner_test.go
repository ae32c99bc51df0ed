package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// countingHook appends a line to a scratch file per run, so the test
// can observe how many times the commands actually executed.
func countingHook(t *testing.T, name string, cache CachePolicy) (Hook, func() int) {
	t.Helper()
	marker := filepath.Join(t.TempDir(), "runs")
	h := Hook{
		Name:     name,
		Cache:    cache,
		Commands: []string{fmt.Sprintf("echo run >> %s && printf out", marker)},
	}
	count := func() int {
		data, err := os.ReadFile(marker)
		if err != nil {
			return 0
		}
		return strings.Count(string(data), "run")
	}
	return h, count
}

func TestRunnerNever(t *testing.T) {
	h, count := countingHook(t, "h", Never)
	r := NewRunner(t.TempDir(), time.Now(), nil)
	for i := 0; i < 3; i++ {
		res, err := r.Run(context.Background(), h)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cached {
			t.Fatal("never policy must not cache")
		}
		if res.Output != "out" {
			t.Fatalf("output %q", res.Output)
		}
	}
	if got := count(); got != 3 {
		t.Fatalf("ran %d times, want 3", got)
	}
}

func TestRunnerMemoize(t *testing.T) {
	h, count := countingHook(t, "h", Memoize)
	r := NewRunner(t.TempDir(), time.Now(), nil)
	first, err := r.Run(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first run cannot be cached")
	}
	second, err := r.Run(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run should be memoized")
	}
	if got := count(); got != 1 {
		t.Fatalf("ran %d times, want 1", got)
	}
}

func TestRunnerAlwaysPersists(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenCache(filepath.Join(dir, "hooks.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	mtime := time.Now()
	h, count := countingHook(t, "h", Always)

	r1 := NewRunner(dir, mtime, cache)
	if _, err := r1.Run(context.Background(), h); err != nil {
		t.Fatal(err)
	}

	// a fresh runner simulates a new process sharing the same store
	r2 := NewRunner(dir, mtime, cache)
	res, err := r2.Run(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cached {
		t.Fatal("persisted result should be served from cache")
	}
	if got := count(); got != 1 {
		t.Fatalf("ran %d times, want 1", got)
	}

	// a newer config invalidates the stored result
	r3 := NewRunner(dir, mtime.Add(time.Hour), cache)
	res, err = r3.Run(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Fatal("stale entry should not be served")
	}
	if got := count(); got != 2 {
		t.Fatalf("ran %d times, want 2", got)
	}
}

func TestRunnerCommandFailure(t *testing.T) {
	r := NewRunner(t.TempDir(), time.Now(), nil)
	h := Hook{Name: "bad", Commands: []string{"exit 3"}}
	if _, err := r.Run(context.Background(), h); err == nil {
		t.Fatal("expected error from failing command")
	}
}

func TestValidateLevels(t *testing.T) {
	tests := []struct {
		level Validate
		out   string
		ok    bool
	}{
		{Off, "", true},
		{Off, "\xff", true},
		{Compact, "\xff", false},
		{Compact, "", true},
		{Content, "", false},
		{Content, "text", true},
		{Strict, "a\tb\nc\r\n", true},
		{Strict, "a\x00b", false},
		{Strict, "", false},
	}
	for _, tt := range tests {
		h := Hook{Name: "h", Validate: tt.level}
		err := h.check([]byte(tt.out))
		if tt.ok && err != nil {
			t.Errorf("%s %q: unexpected %v", tt.level, tt.out, err)
		}
		if !tt.ok && !errors.Is(err, ErrValidate) {
			t.Errorf("%s %q: got %v, want ErrValidate", tt.level, tt.out, err)
		}
	}
}

func TestParseEnums(t *testing.T) {
	v, err := ParseValidate("strict")
	if err != nil || v != Strict {
		t.Errorf("ParseValidate: %v %v", v, err)
	}
	if _, err := ParseValidate("bogus"); !errors.Is(err, ErrUnknownValidate) {
		t.Errorf("ParseValidate bogus: %v", err)
	}
	c, err := ParseCachePolicy("always")
	if err != nil || c != Always {
		t.Errorf("ParseCachePolicy: %v %v", c, err)
	}
	if _, err := ParseCachePolicy("bogus"); !errors.Is(err, ErrUnknownCache) {
		t.Errorf("ParseCachePolicy bogus: %v", err)
	}
}
