package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk. Editors replace
// files by rename, so the watch is on the parent directory rather than the
// file itself.
type Watcher struct {
	fw   *fsnotify.Watcher
	path string
	done chan struct{}
}

// Watch starts watching path and invokes onReload with each successfully
// reloaded config. Parse failures are reported through onError and the
// previous config stays in effect.
func Watch(path string, onReload func(*Config), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{fw: fw, path: path, done: make(chan struct{})}
	go w.run(onReload, onError)
	return w, nil
}

func (w *Watcher) run(onReload func(*Config), onError func(error)) {
	// Debounce: editors fire several events per save.
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			cfg, err := Load(w.path)
			if err != nil {
				onError(err)
				continue
			}
			onReload(cfg)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			onError(err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
