package host

import (
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// WatchHandle is an open watch on a single file.  It is a scoped OS resource
// and must be closed when the watch is no longer wanted.
type WatchHandle interface {
	Close() error
}

// Watcher is the file-watch capability consumed by watch mode.
type Watcher interface {
	// WatchFile starts watching the file at the given path, invoking onChange
	// with the path whenever it changes.  Watching an already-watched path is
	// a no-op returning the existing watch.
	WatchFile(path string, onChange func(path string)) (WatchHandle, error)
}

// FSWatcher multiplexes all file watches over a single fsnotify watcher.
// Change notifications are delivered one at a time from a single dispatch
// goroutine, so callbacks never run concurrently with each other.
type FSWatcher struct {
	fsw *fsnotify.Watcher

	// m guards callbacks.
	m sync.Mutex

	// callbacks maps watched paths to their change callbacks.
	callbacks map[string]func(string)
}

// NewFSWatcher creates a new fsnotify-backed file watcher and starts its
// dispatch goroutine.
func NewFSWatcher() (*FSWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FSWatcher{
		fsw:       fsw,
		callbacks: make(map[string]func(string)),
	}

	go w.dispatch()

	return w, nil
}

func (w *FSWatcher) WatchFile(path string, onChange func(string)) (WatchHandle, error) {
	w.m.Lock()
	defer w.m.Unlock()

	if _, ok := w.callbacks[path]; ok {
		log.Debug("already watching file", "path", path)
		return &fsWatchHandle{w: w, path: path}, nil
	}

	if err := w.fsw.Add(filepath.FromSlash(path)); err != nil {
		return nil, err
	}

	w.callbacks[path] = onChange
	log.Debug("watch added", "path", path)

	return &fsWatchHandle{w: w, path: path}, nil
}

// Close releases the underlying fsnotify watcher and all of its watches.
func (w *FSWatcher) Close() error {
	return w.fsw.Close()
}

// dispatch delivers change notifications to the registered callbacks.  It
// exits when the underlying fsnotify watcher is closed.
func (w *FSWatcher) dispatch() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			path := filepath.ToSlash(event.Name)

			w.m.Lock()
			onChange := w.callbacks[path]
			w.m.Unlock()

			if onChange != nil {
				onChange(path)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			log.Debug("watch error", "err", err)
		}
	}
}

// fsWatchHandle is the handle to a single watched file of an FSWatcher.
type fsWatchHandle struct {
	w    *FSWatcher
	path string
}

func (h *fsWatchHandle) Close() error {
	h.w.m.Lock()
	defer h.w.m.Unlock()

	if _, ok := h.w.callbacks[h.path]; !ok {
		log.Debug("file not watched", "path", h.path)
		return nil
	}

	delete(h.w.callbacks, h.path)
	log.Debug("watch removed", "path", h.path)

	return h.w.fsw.Remove(filepath.FromSlash(h.path))
}
