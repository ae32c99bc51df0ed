// Package config projects a parsed document tree into the typed
// records the build tool works with.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anvil-build/anvil/hooks"
	"github.com/anvil-build/anvil/ir"
	"github.com/anvil-build/anvil/parse"
)

// Default workspace layout. #{AWD} expands to the directory holding
// the config file.
const (
	DefaultLibsPath   = "#{AWD}/src/libs"
	DefaultTargetPath = "#{AWD}/target"
)

// FileName is the config file the tool looks for in a project root.
const FileName = "anvil.yaml"

// Config is the fully projected build configuration.
type Config struct {
	Package     string             `yaml:"package" json:"package"`
	Version     string             `yaml:"version" json:"version"`
	Author      string             `yaml:"author,omitempty" json:"author,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Workspace   Workspace          `yaml:"workspace" json:"workspace"`
	Targets     []Target           `yaml:"targets,omitempty" json:"targets,omitempty"`
	Build       Build              `yaml:"build" json:"build"`
	Profiles    map[string]Profile `yaml:"profiles,omitempty" json:"profiles,omitempty"`
}

// Workspace names the library and output directories.
type Workspace struct {
	Libs   string `yaml:"libs" json:"libs"`
	Target string `yaml:"target" json:"target"`
}

// Target is one buildable artifact.
type Target struct {
	Name string   `yaml:"name" json:"name"`
	Type string   `yaml:"type" json:"type"` // "binary" or "library"
	Main string   `yaml:"main" json:"main"`
	Arch []string `yaml:"target,omitempty" json:"target,omitempty"`
}

// Build holds compiler selection and its inputs.
type Build struct {
	Compiler  string                `yaml:"compiler" json:"compiler"`
	CStd      string                `yaml:"cstd,omitempty" json:"cstd,omitempty"`
	Macros    map[string]string     `yaml:"macros,omitempty" json:"macros,omitempty"`
	Arguments map[string]hooks.Hook `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Deps      []Dependency          `yaml:"deps,omitempty" json:"deps,omitempty"`
}

// Dependency is one external library requirement.
type Dependency struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"` // "git" or "local"
	Repo string `yaml:"repo,omitempty" json:"repo,omitempty"`
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Profile is one named flag set, optionally gated by a condition
// evaluated against the build environment.
type Profile struct {
	Flags []string `yaml:"flags,omitempty" json:"flags,omitempty"`
	When  string   `yaml:"when,omitempty" json:"when,omitempty"`
}

// Load parses the file at path and projects it. The tree is released
// before returning; the Config owns no nodes.
func Load(path string) (*Config, error) {
	root, err := parse.File(path)
	if err != nil {
		return nil, err
	}
	defer root.Release()
	return FromNode(root)
}

// FromNode projects root. Package and version are required; every
// other field falls back to a zero value or a documented default.
func FromNode(root *ir.Node) (*Config, error) {
	if root.Kind != ir.MapKind {
		return nil, fmt.Errorf("%w: document root: want a map, got %s", ErrWrongKind, root.Kind)
	}
	c := &Config{
		Workspace: Workspace{Libs: DefaultLibsPath, Target: DefaultTargetPath},
		Profiles:  map[string]Profile{},
	}
	var err error
	if c.Package, err = requireStr(root, "package"); err != nil {
		return nil, err
	}
	if c.Version, err = requireStr(root, "version"); err != nil {
		return nil, err
	}
	c.Author = strOr(root, "author", "")
	c.Description = strOr(root, "description", "")

	if ws := ir.Get(root, "workspace"); ws != nil {
		if ws.Kind != ir.MapKind {
			return nil, fieldKind("workspace", ir.MapKind, ws.Kind)
		}
		c.Workspace.Libs = strOr(ws, "libs", DefaultLibsPath)
		c.Workspace.Target = strOr(ws, "target", DefaultTargetPath)
	}

	if ts := ir.Get(root, "targets"); ts != nil {
		if ts.Kind != ir.ListKind {
			return nil, fieldKind("targets", ir.ListKind, ts.Kind)
		}
		for _, item := range ts.Items {
			t, err := projectTarget(item)
			if err != nil {
				return nil, err
			}
			c.Targets = append(c.Targets, t)
		}
	}

	if b := ir.Get(root, "build"); b != nil {
		if err := projectBuild(b, &c.Build); err != nil {
			return nil, err
		}
	}

	if ps := ir.Get(root, "profiles"); ps != nil {
		if ps.Kind != ir.MapKind {
			return nil, fieldKind("profiles", ir.MapKind, ps.Kind)
		}
		for _, e := range ps.Entries {
			p, err := projectProfile(e.Key, e.Val)
			if err != nil {
				return nil, err
			}
			c.Profiles[e.Key] = p
		}
	}
	return c, nil
}

func projectTarget(n *ir.Node) (Target, error) {
	if n.Kind != ir.MapKind {
		return Target{}, fieldKind("targets entry", ir.MapKind, n.Kind)
	}
	t := Target{
		Name: strOr(n, "name", ""),
		Type: strOr(n, "type", "binary"),
		Main: strOr(n, "main", ""),
	}
	if t.Name == "" {
		return Target{}, fmt.Errorf("%w: targets entry: name", ErrMissingField)
	}
	arch, err := strList(n, "target")
	if err != nil {
		return Target{}, err
	}
	t.Arch = arch
	return t, nil
}

func projectBuild(n *ir.Node, b *Build) error {
	if n.Kind != ir.MapKind {
		return fieldKind("build", ir.MapKind, n.Kind)
	}
	b.Compiler = strOr(n, "compiler", "cc")
	b.CStd = strOr(n, "cstd", "")

	if m := ir.Get(n, "macros"); m != nil {
		if m.Kind != ir.MapKind {
			return fieldKind("build.macros", ir.MapKind, m.Kind)
		}
		b.Macros = make(map[string]string, len(m.Entries))
		for _, e := range m.Entries {
			s, ok := scalarText(e.Val)
			if !ok {
				return fieldKind("build.macros."+e.Key, ir.StringKind, e.Val.Kind)
			}
			b.Macros[e.Key] = s
		}
	}

	if args := ir.Get(n, "arguments"); args != nil {
		if args.Kind != ir.MapKind {
			return fieldKind("build.arguments", ir.MapKind, args.Kind)
		}
		b.Arguments = make(map[string]hooks.Hook, len(args.Entries))
		for _, e := range args.Entries {
			h, err := projectHook(e.Key, e.Val)
			if err != nil {
				return err
			}
			b.Arguments[e.Key] = h
		}
	}

	if deps := ir.Get(n, "deps"); deps != nil {
		if deps.Kind != ir.ListKind {
			return fieldKind("build.deps", ir.ListKind, deps.Kind)
		}
		for _, item := range deps.Items {
			d, err := projectDep(item)
			if err != nil {
				return err
			}
			b.Deps = append(b.Deps, d)
		}
	}
	return nil
}

func projectHook(name string, n *ir.Node) (hooks.Hook, error) {
	if n.Kind != ir.MapKind {
		return hooks.Hook{}, fieldKind("build.arguments."+name, ir.MapKind, n.Kind)
	}
	h := hooks.Hook{Name: name}
	if s := strOr(n, "validate_str", ""); s != "" {
		v, err := hooks.ParseValidate(s)
		if err != nil {
			return hooks.Hook{}, fmt.Errorf("%w: build.arguments.%s: %v", ErrUnknownLevel, name, err)
		}
		h.Validate = v
	}
	if s := strOr(n, "cache_policy", ""); s != "" {
		p, err := hooks.ParseCachePolicy(s)
		if err != nil {
			return hooks.Hook{}, fmt.Errorf("%w: build.arguments.%s: %v", ErrUnknownLevel, name, err)
		}
		h.Cache = p
	}
	cmds, err := strList(n, "commands")
	if err != nil {
		return hooks.Hook{}, err
	}
	h.Commands = cmds
	return h, nil
}

func projectDep(n *ir.Node) (Dependency, error) {
	if n.Kind != ir.MapKind {
		return Dependency{}, fieldKind("build.deps entry", ir.MapKind, n.Kind)
	}
	d := Dependency{
		Name: strOr(n, "name", ""),
		Type: strOr(n, "type", "local"),
		Repo: strOr(n, "repo", ""),
		Path: strOr(n, "path", ""),
	}
	if d.Name == "" {
		return Dependency{}, fmt.Errorf("%w: build.deps entry: name", ErrMissingField)
	}
	return d, nil
}

// projectProfile accepts either a bare flag list or a map with flags
// and an optional when condition.
func projectProfile(name string, n *ir.Node) (Profile, error) {
	switch n.Kind {
	case ir.ListKind:
		flags, err := flagList("profiles."+name, n)
		if err != nil {
			return Profile{}, err
		}
		return Profile{Flags: flags}, nil
	case ir.MapKind:
		p := Profile{When: strOr(n, "when", "")}
		flags, err := strList(n, "flags")
		if err != nil {
			return Profile{}, err
		}
		p.Flags = flags
		return p, nil
	}
	return Profile{}, fieldKind("profiles."+name, ir.ListKind, n.Kind)
}

// ExpandPath substitutes #{AWD} with the config file's directory.
func ExpandPath(awd, path string) string {
	return strings.ReplaceAll(path, "#{AWD}", awd)
}

func requireStr(n *ir.Node, key string) (string, error) {
	v := ir.Get(n, key)
	if v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	if v.Kind != ir.StringKind {
		return "", fieldKind(key, ir.StringKind, v.Kind)
	}
	return v.Str, nil
}

func strOr(n *ir.Node, key, fallback string) string {
	if v := ir.Get(n, key); v != nil && v.Kind == ir.StringKind {
		return v.Str
	}
	return fallback
}

func strList(n *ir.Node, key string) ([]string, error) {
	v := ir.Get(n, key)
	if v == nil {
		return nil, nil
	}
	return flagList(key, v)
}

func flagList(field string, v *ir.Node) ([]string, error) {
	if v.Kind != ir.ListKind {
		return nil, fieldKind(field, ir.ListKind, v.Kind)
	}
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		s, ok := scalarText(item)
		if !ok {
			return nil, fieldKind(field+" entry", ir.StringKind, item.Kind)
		}
		out = append(out, s)
	}
	return out, nil
}

// scalarText renders a leaf node as text for fields that accept any
// scalar.
func scalarText(n *ir.Node) (string, bool) {
	switch n.Kind {
	case ir.StringKind:
		return n.Str, true
	case ir.NumberKind:
		return strconv.FormatFloat(n.Num, 'g', -1, 64), true
	case ir.BoolKind:
		if n.Bool {
			return "true", true
		}
		return "false", true
	}
	return "", false
}
