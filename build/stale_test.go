package build

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestNeedsRebuild(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	target := filepath.Join(dir, "out")
	older := filepath.Join(dir, "older.c")
	newer := filepath.Join(dir, "newer.c")
	touch(t, target, now)
	touch(t, older, now.Add(-time.Hour))
	touch(t, newer, now.Add(time.Hour))

	stale, err := NeedsRebuild(target, []string{older})
	if err != nil {
		t.Fatal(err)
	}
	if stale {
		t.Error("target newer than deps should not rebuild")
	}

	stale, err = NeedsRebuild(target, []string{older, newer})
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("newer dep should trigger rebuild")
	}

	stale, err = NeedsRebuild(filepath.Join(dir, "absent"), []string{older})
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("missing target should always rebuild")
	}

	_, err = NeedsRebuild(target, []string{filepath.Join(dir, "gone.c")})
	if !errors.Is(err, ErrMissingDep) {
		t.Errorf("missing dep: %v, want ErrMissingDep", err)
	}
}

func TestParseDepRule(t *testing.T) {
	tests := []struct {
		in         string
		wantTarget string
		wantDeps   []string
	}{
		{
			in:         "main.o: main.c util.h",
			wantTarget: "main.o",
			wantDeps:   []string{"main.c", "util.h"},
		},
		{
			in:         "main.o: main.c \\\n  util.h \\\n  defs.h",
			wantTarget: "main.o",
			wantDeps:   []string{"main.c", "util.h", "defs.h"},
		},
		{
			in:         "solo.o:",
			wantTarget: "solo.o",
			wantDeps:   []string{},
		},
	}
	for _, tt := range tests {
		target, deps, err := ParseDepRule(tt.in)
		if err != nil {
			t.Errorf("ParseDepRule(%q): %v", tt.in, err)
			continue
		}
		if target != tt.wantTarget {
			t.Errorf("ParseDepRule(%q) target = %q", tt.in, target)
		}
		if d := cmp.Diff(tt.wantDeps, deps); d != "" {
			t.Errorf("ParseDepRule(%q) deps (-want +got):\n%s", tt.in, d)
		}
	}
}

func TestParseDepRuleErrors(t *testing.T) {
	for _, in := range []string{"no rule here", ": just deps"} {
		if _, _, err := ParseDepRule(in); !errors.Is(err, ErrBadDepRule) {
			t.Errorf("ParseDepRule(%q): %v, want ErrBadDepRule", in, err)
		}
	}
}

func TestDeps(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo")

	// without a dep file the main source is the only prerequisite
	if d := cmp.Diff([]string{"src/main.c"}, Deps(out, "src/main.c")); d != "" {
		t.Fatal(d)
	}

	rule := "demo: src/main.c src/util.h \\\n src/defs.h\n"
	if err := os.WriteFile(out+".d", []byte(rule), 0644); err != nil {
		t.Fatal(err)
	}
	want := []string{"src/main.c", "src/util.h", "src/defs.h"}
	if d := cmp.Diff(want, Deps(out, "src/main.c")); d != "" {
		t.Fatal(d)
	}

	// a mangled rule falls back to the main source
	if err := os.WriteFile(out+".d", []byte("no colon"), 0644); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"src/main.c"}, Deps(out, "src/main.c")); d != "" {
		t.Fatal(d)
	}
}
