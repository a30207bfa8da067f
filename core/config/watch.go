package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of write events most editors emit
// when saving a file.
const watchDebounce = 250 * time.Millisecond

// Watch reloads the configuration whenever the config file changes on
// disk. It watches the parent directory so atomic rename-style saves
// are picked up. Runs until Close is called.
func (m *Manager) Watch(logger *slog.Logger) error {
	if m.path == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go m.watchLoop(watcher, logger)
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher, logger *slog.Logger) {
	defer watcher.Close()

	target := filepath.Clean(m.path)

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-m.stopWatch:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				debounceCh = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}

		case <-debounceCh:
			debounce = nil
			debounceCh = nil
			if err := m.Reload(); err != nil {
				logger.Warn("config reload failed", "path", m.path, "error", err)
				continue
			}
			logger.Info("configuration reloaded", "path", m.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}
