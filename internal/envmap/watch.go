// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package envmap

import (
	"github.com/fsnotify/fsnotify"

	"github.com/arkedev/gitconf-server/internal/obslog"
)

// WarnOnChange watches the given env files and logs a warning whenever
// one changes on disk. It never triggers a reload: the env map is
// built once at startup and stays read-only for the process lifetime;
// this exists purely so an operator notices a stale edit instead of
// wondering why it had no effect.
func WarnOnChange(log obslog.Logger, envName string, paths []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watched := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := watcher.Add(p); err == nil {
			watched++
		}
	}
	if watched == 0 {
		_ = watcher.Close()
		return nil, nil
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					log.Warn("env file changed on disk; server keeps the env map built at startup",
						"env", envName, "file", event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("env file watcher error", "env", envName, "error", err)
			}
		}
	}()

	return watcher, nil
}
