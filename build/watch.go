package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directory names never watched for source changes.
var ignoreDirs = map[string]bool{
	".git":   true,
	"target": true,
	".anvil": true,
}

// debounceWindow absorbs the bursts editors produce per save.
const debounceWindow = 200 * time.Millisecond

// Watch monitors root recursively and calls onChange after each
// settled burst of file events. It blocks until ctx is done or the
// watcher fails.
func Watch(ctx context.Context, root string, onChange func(paths []string)) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !info.IsDir() {
			return nil
		}
		if ignoreDirs[info.Name()] && path != abs {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		return err
	}

	var (
		pending []string
		timer   = time.NewTimer(debounceWindow)
	)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !ignoreDirs[info.Name()] {
						fw.Add(ev.Name)
					}
				}
			}
			if ignoredPath(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				pending = append(pending, ev.Name)
				timer.Reset(debounceWindow)
			}
		case <-timer.C:
			if len(pending) > 0 {
				onChange(pending)
				pending = nil
			}
		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			// fsnotify recovers on its own
		}
	}
}

func ignoredPath(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}
