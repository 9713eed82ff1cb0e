package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long Watch waits after the last event on the config file
// before reloading. Editors often emit several events per save.
const settle = 100 * time.Millisecond

// Watch reloads the config at path whenever it changes on disk and passes the
// result to onChange. It watches the parent directory so saves that replace
// the file by rename are seen. A reload that fails or yields the same config
// as the last one is not reported. Watch returns when ctx is cancelled.
func Watch(ctx context.Context, path, envFile string, onChange func(*Config)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("server config: watch %q: %w", path, err)
	}
	current, err := Load(path, envFile)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server config: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("server config: watch %q: %w", filepath.Dir(target), err)
	}
	slog.Info("config: watching for changes", "path", target)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if name, _ := filepath.Abs(ev.Name); name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload = time.After(settle)

		case <-reload:
			reload = nil
			next, err := Load(path, envFile)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config", "path", target, "err", err)
				continue
			}
			if reflect.DeepEqual(next, current) {
				slog.Debug("config: file touched, no change", "path", target)
				continue
			}
			current = next
			slog.Info("config: reloaded", "path", target, "log_level", next.Server.LogLevel)
			onChange(next)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
