package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anvil-build/anvil/hooks"
	"github.com/anvil-build/anvil/parse"
)

const fullConfig = `
package: "demo"
version: "0.1.0"
author: "ops"
description: "sample project"
workspace: {libs: "#{AWD}/vendor", target: "#{AWD}/out"}
targets: [
  {name: "demo", type: "binary", main: "src/main.c", target: ["x86_64"]},
  {name: "util", type: "library", main: "src/util.c"},
]
build: {
  compiler: "clang",
  cstd: "c11",
  macros: {VERSION: "0.1.0", NDEBUG: ""},
  arguments: {
    pkgflags: {validate_str: "compact", cache_policy: "memoize", commands: ["pkg-config --cflags zlib"]},
  },
  deps: [
    {name: "yaml", type: "git", repo: "https://example.com/yaml.git"},
    {name: "vendored", path: "vendor/lib"},
  ],
}
profiles: {
  release: ["-O2"],
  linuxfast: {flags: ["-O3"], when: "os == 'linux'"},
}
`

func projectString(t *testing.T, in string) (*Config, error) {
	t.Helper()
	root, err := parse.String(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer root.Release()
	return FromNode(root)
}

func TestFromNodeFull(t *testing.T) {
	c, err := projectString(t, fullConfig)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Package:     "demo",
		Version:     "0.1.0",
		Author:      "ops",
		Description: "sample project",
		Workspace:   Workspace{Libs: "#{AWD}/vendor", Target: "#{AWD}/out"},
		Targets: []Target{
			{Name: "demo", Type: "binary", Main: "src/main.c", Arch: []string{"x86_64"}},
			{Name: "util", Type: "library", Main: "src/util.c"},
		},
		Build: Build{
			Compiler: "clang",
			CStd:     "c11",
			Macros:   map[string]string{"VERSION": "0.1.0", "NDEBUG": ""},
			Arguments: map[string]hooks.Hook{
				"pkgflags": {
					Name:     "pkgflags",
					Validate: hooks.Compact,
					Cache:    hooks.Memoize,
					Commands: []string{"pkg-config --cflags zlib"},
				},
			},
			Deps: []Dependency{
				{Name: "yaml", Type: "git", Repo: "https://example.com/yaml.git"},
				{Name: "vendored", Type: "local", Path: "vendor/lib"},
			},
		},
		Profiles: map[string]Profile{
			"release":   {Flags: []string{"-O2"}},
			"linuxfast": {Flags: []string{"-O3"}, When: "os == 'linux'"},
		},
	}
	if d := cmp.Diff(want, c); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestFromNodeDefaults(t *testing.T) {
	c, err := projectString(t, "package: \"p\"\nversion: \"1\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if c.Workspace.Libs != DefaultLibsPath || c.Workspace.Target != DefaultTargetPath {
		t.Errorf("workspace defaults: %+v", c.Workspace)
	}
	if len(c.Targets) != 0 || len(c.Profiles) != 0 {
		t.Error("empty sections should stay empty")
	}
}

func TestFromNodeErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"version: \"1\"\n", ErrMissingField},
		{"package: \"p\"\n", ErrMissingField},
		{"package: 1\nversion: \"1\"\n", ErrWrongKind},
		{"package: \"p\"\nversion: \"1\"\nworkspace: []\n", ErrWrongKind},
		{"package: \"p\"\nversion: \"1\"\ntargets: {}\n", ErrWrongKind},
		{"package: \"p\"\nversion: \"1\"\ntargets: [{type: \"binary\"}]\n", ErrMissingField},
		{"package: \"p\"\nversion: \"1\"\nbuild: {deps: [{path: \"x\"}]}\n", ErrMissingField},
		{"package: \"p\"\nversion: \"1\"\nbuild: {arguments: {h: {validate_str: \"bogus\"}}}\n", ErrUnknownLevel},
		{"package: \"p\"\nversion: \"1\"\nprofiles: {p: true}\n", ErrWrongKind},
	}
	for _, tt := range tests {
		_, err := projectString(t, tt.in)
		if !errors.Is(err, tt.want) {
			t.Errorf("project %q: err %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestTargetTypeDefaultsToBinary(t *testing.T) {
	c, err := projectString(t, "package: \"p\"\nversion: \"1\"\ntargets: [{name: \"t\", main: \"m.c\"}]\n")
	if err != nil {
		t.Fatal(err)
	}
	if c.Targets[0].Type != "binary" {
		t.Errorf("type = %q, want binary", c.Targets[0].Type)
	}
}

func TestExpandPath(t *testing.T) {
	got := ExpandPath("/proj", DefaultLibsPath)
	if got != "/proj/src/libs" {
		t.Errorf("ExpandPath = %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("package: \"p\"\nversion: \"1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Package != "p" || c.Version != "1" {
		t.Errorf("loaded %+v", c)
	}
}
