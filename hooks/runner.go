package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result is the outcome of one hook run.
type Result struct {
	Output string
	RanAt  time.Time
	Cached bool
}

// Runner executes hooks according to their cache policy. A nil Cache
// downgrades Always to Memoize.
type Runner struct {
	Dir         string    // working directory for hook commands
	Env         []string  // extra environment, KEY=VALUE
	ConfigMtime time.Time // persisted entries older than this are stale
	Cache       *Cache

	memo map[string]Result
}

// NewRunner creates a Runner rooted at dir.
func NewRunner(dir string, configMtime time.Time, cache *Cache) *Runner {
	return &Runner{
		Dir:         dir,
		ConfigMtime: configMtime,
		Cache:       cache,
		memo:        map[string]Result{},
	}
}

// Run executes h, honoring its cache policy, and validates the
// captured output.
func (r *Runner) Run(ctx context.Context, h Hook) (Result, error) {
	switch h.Cache {
	case Memoize:
		if res, ok := r.memo[h.Name]; ok {
			res.Cached = true
			return res, nil
		}
	case Always:
		if res, ok := r.memo[h.Name]; ok {
			res.Cached = true
			return res, nil
		}
		if r.Cache != nil {
			res, ok, err := r.Cache.Get(h.Name, r.ConfigMtime)
			if err != nil {
				return Result{}, err
			}
			if ok {
				r.memo[h.Name] = res
				return res, nil
			}
		}
	}

	res, err := r.exec(ctx, h)
	if err != nil {
		return Result{}, err
	}
	if err := h.check([]byte(res.Output)); err != nil {
		return Result{}, err
	}

	switch h.Cache {
	case Memoize:
		r.memo[h.Name] = res
	case Always:
		r.memo[h.Name] = res
		if r.Cache != nil {
			if err := r.Cache.Put(h.Name, r.ConfigMtime, res); err != nil {
				return Result{}, err
			}
		}
	}
	return res, nil
}

// exec runs the hook's commands in order through the shell and
// concatenates their output.
func (r *Runner) exec(ctx context.Context, h Hook) (Result, error) {
	var out strings.Builder
	for _, command := range h.Commands {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = r.Dir
		if len(r.Env) > 0 {
			cmd.Env = append(cmd.Environ(), r.Env...)
		}
		b, err := cmd.CombinedOutput()
		out.Write(b)
		if err != nil {
			return Result{}, fmt.Errorf("hook %s: %q: %w", h.Name, command, err)
		}
	}
	return Result{Output: out.String(), RanAt: time.Now()}, nil
}
