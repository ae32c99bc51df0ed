// Package build decides what to rebuild and assembles compiler
// command lines.
package build

import (
	"fmt"
	"os"
	"strings"
)

// NeedsRebuild reports whether target is older than any of its
// prerequisites. A missing target always rebuilds; a missing
// prerequisite is an error.
func NeedsRebuild(target string, deps []string) (bool, error) {
	ti, err := os.Stat(target)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	for _, dep := range deps {
		di, err := os.Stat(dep)
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrMissingDep, dep)
		}
		if err != nil {
			return false, err
		}
		if di.ModTime().After(ti.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

// Deps lists the prerequisites of a target. When a compiler-written
// dependency file sits next to the output (target path plus ".d") its
// rule takes over from the bare main source.
func Deps(target, main string) []string {
	data, err := os.ReadFile(target + ".d")
	if err != nil {
		return []string{main}
	}
	_, deps, err := ParseDepRule(string(data))
	if err != nil || len(deps) == 0 {
		return []string{main}
	}
	return deps
}

// ParseDepRule splits a make-style rule as emitted by a compiler's
// dependency output, e.g. "main.o: main.c util.h". Backslash-newline
// continuations are folded before splitting.
func ParseDepRule(rule string) (target string, deps []string, err error) {
	rule = strings.ReplaceAll(rule, "\\\r\n", " ")
	rule = strings.ReplaceAll(rule, "\\\n", " ")
	i := strings.IndexByte(rule, ':')
	if i < 0 {
		return "", nil, fmt.Errorf("%w: %q", ErrBadDepRule, rule)
	}
	target = strings.TrimSpace(rule[:i])
	if target == "" {
		return "", nil, fmt.Errorf("%w: empty target in %q", ErrBadDepRule, rule)
	}
	deps = strings.Fields(rule[i+1:])
	return target, deps, nil
}
