package watcher

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 500 * time.Millisecond

// ReloadCallback is invoked after the watched file settles.
type ReloadCallback func()

// Watcher monitors a single configuration file and fires a debounced
// callback when it changes. Editors often replace files with
// rename+create, so the parent directory is watched and events are
// filtered by file name.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	callback  ReloadCallback
	cancel    chan struct{}
}

// New starts watching path. The callback runs on the watcher goroutine.
func New(path string, callback ReloadCallback) (*Watcher, error) {
	fsW, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsW.Add(filepath.Dir(path)); err != nil {
		fsW.Close()
		return nil, err
	}

	w := &Watcher{
		path:      path,
		fsWatcher: fsW,
		callback:  callback,
		cancel:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	var debounce *time.Timer
	var debounceC <-chan time.Time

	base := filepath.Base(w.path)
	for {
		select {
		case <-w.cancel:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceInterval)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceInterval)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			if w.callback != nil {
				w.callback()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

// Shutdown stops the watcher.
func (w *Watcher) Shutdown() {
	close(w.cancel)
	w.fsWatcher.Close()
}
