package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reelbase/reelbase/internal/logger"
)

// WatchFile watches the loaded configuration file and reloads it on change.
// Registered watchers are notified after each successful reload. A reload
// that fails validation keeps the previous configuration. Returns immediately
// when no config file was loaded.
func (m *Manager) WatchFile(ctx context.Context) error {
	path := m.ConfigPath()
	if path == "" {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which drops the
	// watch on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go func() {
		defer fw.Close()

		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(250*time.Millisecond, func() {
					if err := m.LoadConfig(path); err != nil {
						logger.Warn("config reload failed, keeping previous configuration", "path", path, "error", err)
						return
					}
					logger.Info("configuration reloaded", "path", path)
				})
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			}
		}
	}()

	return nil
}
