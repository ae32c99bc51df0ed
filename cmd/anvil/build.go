package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/anvil-build/anvil/build"
	"github.com/anvil-build/anvil/config"
	"github.com/anvil-build/anvil/debug"
	"github.com/anvil-build/anvil/diag"
	"github.com/anvil-build/anvil/hooks"
)

// cacheDir holds per-project tool state under the project root.
const cacheDir = ".anvil"

func runBuild(cfg *BuildConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Build.Parse(cc, args)
	if err != nil {
		return err
	}
	dir := "."
	if len(args) != 0 {
		dir = args[0]
	}
	path := filepath.Join(dir, config.FileName)
	c, err := config.Load(path)
	if err != nil {
		return bail(path, err)
	}
	if cfg.List {
		for _, t := range c.Targets {
			fmt.Fprintln(cc.Out, t.Name)
		}
		return nil
	}
	return buildTargets(context.Background(), cc, c, dir, path, buildOpts{
		profile: cfg.Profile,
		target:  cfg.Target,
		force:   cfg.Force,
		dryRun:  cfg.DryRun,
	})
}

type buildOpts struct {
	profile string
	target  string
	force   bool
	dryRun  bool
}

func buildTargets(ctx context.Context, cc *cli.Context, c *config.Config, dir, path string, opts buildOpts) error {
	extra, err := hookArgs(ctx, c, dir, path)
	if err != nil {
		return err
	}

	targets := c.Targets
	if opts.target != "" {
		t, err := build.FindTarget(c, opts.target)
		if err != nil {
			return err
		}
		targets = []config.Target{t}
	}

	for _, t := range targets {
		out := build.OutputPath(c, t, dir)
		if !opts.force {
			stale, err := build.NeedsRebuild(out, build.Deps(out, filepath.Join(dir, t.Main)))
			if err != nil {
				return err
			}
			if !stale {
				if debug.Build() {
					fmt.Fprintf(os.Stderr, "%s up to date\n", t.Name)
				}
				continue
			}
		}
		argv, err := build.CommandFor(c, t, dir, opts.profile)
		if err != nil {
			return err
		}
		argv = append(argv, extra...)
		if opts.dryRun {
			fmt.Fprintln(cc.Out, strings.Join(argv, " "))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "anvil: %s\n", t.Name)
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("target %s: %w", t.Name, err)
		}
	}
	return nil
}

// hookArgs runs the config's argument hooks in name order and splits
// their output into extra compiler arguments.
func hookArgs(ctx context.Context, c *config.Config, dir, path string) ([]string, error) {
	if len(c.Build.Arguments) == 0 {
		return nil, nil
	}
	var mtime time.Time
	if fi, err := os.Stat(path); err == nil {
		mtime = fi.ModTime()
	}

	var cache *hooks.Cache
	for _, h := range c.Build.Arguments {
		if h.Cache == hooks.Always {
			if err := os.MkdirAll(filepath.Join(dir, cacheDir), 0755); err != nil {
				return nil, err
			}
			db, err := hooks.OpenCache(filepath.Join(dir, cacheDir, "hooks.db"))
			if err != nil {
				return nil, err
			}
			defer db.Close()
			cache = db
			break
		}
	}

	runner := hooks.NewRunner(dir, mtime, cache)
	names := make([]string, 0, len(c.Build.Arguments))
	for name := range c.Build.Arguments {
		names = append(names, name)
	}
	sort.Strings(names)

	var extra []string
	for _, name := range names {
		res, err := runner.Run(ctx, c.Build.Arguments[name])
		if err != nil {
			return nil, err
		}
		if debug.Hooks() {
			fmt.Fprintf(os.Stderr, "hook %s (cached=%v): %q\n", name, res.Cached, res.Output)
		}
		extra = append(extra, strings.Fields(res.Output)...)
	}
	return extra, nil
}

// bail renders parse diagnostics with source context and exits; any
// other error propagates to the cli runner.
func bail(path string, err error) error {
	var de *diag.Error
	if errors.As(err, &de) {
		diag.Exit(path, de)
	}
	return err
}

// report renders an error without exiting, for watch mode where the
// process must outlive bad edits.
func report(path string, err error) {
	var de *diag.Error
	if errors.As(err, &de) {
		if f, ferr := os.Open(path); ferr == nil {
			diag.Render(os.Stderr, f, de)
			f.Close()
			return
		}
	}
	fmt.Fprintf(os.Stderr, "anvil: %v\n", err)
}
