package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls run each time a source file under paths changes, after the
// configured debounce interval has passed without further changes. Calls to
// run never overlap. Watch returns nil when ctx is cancelled.
func (d *Driver) Watch(ctx context.Context, paths []string, run func(changed string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range paths {
		if err := watchPath(watcher, p); err != nil {
			return err
		}
	}
	d.logger.Debug("watching sources", "paths", paths, "debounce", d.cfg.Debounce)

	var (
		debounce <-chan time.Time
		last     string
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						d.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !strings.HasSuffix(event.Name, d.cfg.SourceExt) {
				continue
			}
			last = event.Name
			debounce = time.After(d.cfg.Debounce)

		case <-debounce:
			debounce = nil
			d.logger.Debug("source changed, re-running", "file", last)
			run(last)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("watcher error", "error", err)
		}
	}
}

// watchPath adds a directory and all its subdirectories to the watcher. A
// file adds its parent directory.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
