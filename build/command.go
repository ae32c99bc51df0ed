package build

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/anvil-build/anvil/config"
)

// CondEnv is the environment a profile's when condition is evaluated
// against.
type CondEnv struct {
	OS      string            `expr:"os"`
	Arch    string            `expr:"arch"`
	Profile string            `expr:"profile"`
	Env     map[string]string `expr:"env"`
}

// HostEnv builds a CondEnv for the running machine and the requested
// profile name.
func HostEnv(profile string) CondEnv {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return CondEnv{OS: runtime.GOOS, Arch: runtime.GOARCH, Profile: profile, Env: env}
}

// ProfileActive evaluates p's when condition against env. A profile
// with no condition is always active.
func ProfileActive(p config.Profile, env CondEnv) (bool, error) {
	if p.When == "" {
		return true, nil
	}
	prg, err := expr.Compile(p.When, expr.Env(CondEnv{}), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrBadCondition, p.When, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrBadCondition, p.When, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q: yielded %T", ErrBadCondition, p.When, res)
	}
	return b, nil
}

// FindTarget looks a target up by name.
func FindTarget(cfg *config.Config, name string) (config.Target, error) {
	for _, t := range cfg.Targets {
		if t.Name == name {
			return t, nil
		}
	}
	return config.Target{}, fmt.Errorf("%w: %s", ErrNoTarget, name)
}

// CommandFor assembles the compiler argv for one target. awd is the
// directory holding the config file; profile selects an entry of
// cfg.Profiles and may be empty.
func CommandFor(cfg *config.Config, t config.Target, awd, profile string) ([]string, error) {
	argv := []string{cfg.Build.Compiler}
	if cfg.Build.CStd != "" {
		argv = append(argv, "-std="+cfg.Build.CStd)
	}

	// fixed order for reproducible command lines
	macros := make([]string, 0, len(cfg.Build.Macros))
	for k := range cfg.Build.Macros {
		macros = append(macros, k)
	}
	sort.Strings(macros)
	for _, k := range macros {
		if v := cfg.Build.Macros[k]; v != "" {
			argv = append(argv, "-D"+k+"="+v)
		} else {
			argv = append(argv, "-D"+k)
		}
	}

	if profile != "" {
		p, ok := cfg.Profiles[profile]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoProfile, profile)
		}
		active, err := ProfileActive(p, HostEnv(profile))
		if err != nil {
			return nil, err
		}
		if active {
			argv = append(argv, p.Flags...)
		}
	}

	libs := config.ExpandPath(awd, cfg.Workspace.Libs)
	argv = append(argv, "-I"+libs)

	if t.Type == "library" {
		argv = append(argv, "-shared", "-fPIC")
	}
	argv = append(argv, "-o", OutputPath(cfg, t, awd), filepath.Join(awd, t.Main))
	return argv, nil
}

// OutputPath is where the compiled artifact for t lands.
func OutputPath(cfg *config.Config, t config.Target, awd string) string {
	outDir := config.ExpandPath(awd, cfg.Workspace.Target)
	if t.Type == "library" {
		return filepath.Join(outDir, "lib"+t.Name+".so")
	}
	return filepath.Join(outDir, t.Name)
}
