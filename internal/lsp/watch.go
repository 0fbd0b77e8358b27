package lsp

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// manifestWatcher reports the content of the project manifest whenever it is
// written, created or renamed into place. It watches the directory rather
// than the file so that editors which replace the file are still seen.
type manifestWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(content string)
	done     chan struct{}
	stopOnce sync.Once
}

func watchManifest(path string, onChange func(content string)) (*manifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	w := &manifestWatcher{
		path:     filepath.Clean(path),
		watcher:  watcher,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

// Stop ends the watch. It does not wait for a callback in flight, so it is
// safe to call while holding the lock the callback takes.
func (w *manifestWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *manifestWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			content := readManifest(w.path)
			select {
			case <-w.done:
				return
			default:
			}
			w.onChange(content)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("manifest watcher: %v", err)
		}
	}
}
