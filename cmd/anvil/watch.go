package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/anvil-build/anvil/build"
	"github.com/anvil-build/anvil/config"
	"github.com/anvil-build/anvil/debug"
)

// runWatch rebuilds the project after each settled burst of source
// changes. The config is reloaded every round so edits to it take
// effect without restarting.
func runWatch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		return err
	}
	dir := "."
	if len(args) != 0 {
		dir = args[0]
	}

	// runtime inspection point for long-lived watch sessions
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}
	defer agent.Close()

	rebuild := func() {
		path := filepath.Join(dir, config.FileName)
		c, err := config.Load(path)
		if err != nil {
			report(path, err)
			return
		}
		opts := buildOpts{profile: cfg.Profile, target: cfg.Target}
		if err := buildTargets(context.Background(), cc, c, dir, path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "anvil: %v\n", err)
		}
	}

	rebuild()
	return build.Watch(context.Background(), dir, func(paths []string) {
		if debug.Watch() {
			fmt.Fprintf(os.Stderr, "changed: %v\n", paths)
		}
		rebuild()
	})
}
