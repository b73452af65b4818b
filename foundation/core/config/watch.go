// File: watch.go
// Title: Configuration File Watching
// Description: Reloads the configuration when its file changes and notifies
//              registered change handlers. The parent directory is watched so
//              that editors replacing the file by rename are noticed.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-15
// Modified: 2026-10-04
//
// Change History:
// - 2026-09-15 v0.1.0: Polling watcher
// - 2026-10-04 v0.2.0: fsnotify replaces polling

package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	gcerror "github.com/msto63/gecli/foundation/core/error"
	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
	once sync.Once
	errs chan error
}

// StartWatching begins watching the configuration file. Calling it on an
// already watched configuration is a no-op.
func (c *Config) StartWatching() error {
	if gcstringx.IsBlank(c.filePath) {
		return gcerror.New("file path required for watching").
			WithCode(gcerror.CodeValidationFailed).
			WithOperation("config.StartWatching")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watch != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return gcerror.Wrap(err, "failed to create file watcher").
			WithCode(gcerror.CodeConfigError).
			WithOperation("config.StartWatching")
	}
	if err := fsw.Add(filepath.Dir(c.filePath)); err != nil {
		fsw.Close()
		return gcerror.Wrap(err, "failed to watch config directory").
			WithCode(gcerror.CodeConfigError).
			WithOperation("config.StartWatching").
			WithDetail("filePath", c.filePath)
	}

	w := &watcher{fs: fsw, done: make(chan struct{}), errs: make(chan error, 1)}
	c.watch = w
	go c.watchLoop(w)
	return nil
}

func (c *Config) watchLoop(w *watcher) {
	target := filepath.Clean(c.filePath)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.reload(); err != nil {
				w.report(err)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// report keeps the most recent watch error without blocking
func (w *watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
		select {
		case <-w.errs:
		default:
		}
		w.errs <- err
	}
}

func (c *Config) reload() error {
	content, err := os.ReadFile(c.filePath)
	if err != nil {
		return gcerror.Wrap(err, "failed to read config file during reload").
			WithCode(gcerror.CodeConfigError).
			WithOperation("config.reload").
			WithDetail("filePath", c.filePath)
	}

	newData, err := parseContent(content, c.format)
	if err != nil {
		return gcerror.Wrap(err, "failed to parse config file during reload").
			WithOperation("config.reload").
			WithDetail("filePath", c.filePath)
	}

	c.mu.Lock()
	oldConfig := &Config{data: deepCopyMap(c.data), format: c.format, envPrefix: c.envPrefix}
	c.data = newData
	handlers := make([]ChangeHandler, len(c.handlers))
	copy(handlers, c.handlers)
	newConfig := &Config{data: deepCopyMap(newData), format: c.format, envPrefix: c.envPrefix}
	c.mu.Unlock()

	for _, handler := range handlers {
		if handler != nil {
			handler(oldConfig, newConfig)
		}
	}
	return nil
}

// WatchErrors returns a channel holding the latest reload or watcher error,
// or nil when the configuration is not watched
func (c *Config) WatchErrors() <-chan error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.watch == nil {
		return nil
	}
	return c.watch.errs
}

// StopWatching stops file monitoring
func (c *Config) StopWatching() {
	c.mu.Lock()
	w := c.watch
	c.watch = nil
	c.mu.Unlock()

	if w != nil {
		w.once.Do(func() {
			close(w.done)
			w.fs.Close()
		})
	}
}

// IsWatching returns whether file monitoring is active
func (c *Config) IsWatching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watch != nil
}
