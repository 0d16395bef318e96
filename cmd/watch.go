package cmd

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/turbulenz/typescript/depm"
	"github.com/turbulenz/typescript/host"
	"github.com/turbulenz/typescript/report"
	"github.com/turbulenz/typescript/util"
)

// WatchReconciler re-runs the full resolution pass whenever a watched file
// changes and reconciles the set of open watches against the freshly resolved
// file set, issuing the minimal add/remove watch operations.
//
// The reconciler assumes change notifications are serialized by the watch
// host: a running reconciliation exclusively owns the watched-path list and
// the environment under construction.
type WatchReconciler struct {
	driver  *Driver
	watcher host.Watcher

	// watched is the sorted list of currently watched paths.  It is replaced
	// wholesale at the end of each reconciliation.
	watched []string

	// handles maps path keys to open watch handles.
	handles map[string]host.WatchHandle

	// recompile runs the back end over a freshly resolved environment.
	recompile func(env *depm.CompilationEnvironment) bool

	// onClean, if set, runs after an error-free recompilation.
	onClean func()
}

// NewWatchReconciler creates a new watch reconciler around the given driver.
func NewWatchReconciler(driver *Driver, watcher host.Watcher, recompile func(*depm.CompilationEnvironment) bool, onClean func()) *WatchReconciler {
	return &WatchReconciler{
		driver:    driver,
		watcher:   watcher,
		handles:   make(map[string]host.WatchHandle),
		recompile: recompile,
		onClean:   onClean,
	}
}

// Start installs watches for every path of an initially resolved environment.
func (wr *WatchReconciler) Start(env *depm.CompilationEnvironment) {
	newPaths := util.SortedCopy(env.Paths())
	wr.reconcile(newPaths)
	wr.watched = newPaths
}

// OnFileChange handles one file-change notification: it re-resolves the
// environment from the original entry files, reconciles the watch set against
// the fresh file list, and recompiles.
func (wr *WatchReconciler) OnFileChange(string) {
	env := wr.driver.ResolveEnvironment()

	newPaths := util.SortedCopy(env.Paths())
	wr.reconcile(newPaths)
	wr.watched = newPaths

	if wr.recompile(env) && wr.onClean != nil {
		wr.onClean()
	}
}

// Close releases every open watch.
func (wr *WatchReconciler) Close() {
	for _, path := range wr.watched {
		wr.removeWatch(path)
	}

	wr.watched = nil
}

// reconcile merge-compares the previous sorted watched-path list against the
// new sorted list with a linear two-pointer scan: equal elements advance both
// pointers, an element present only in the old list loses its watch, and an
// element present only in the new list gains one.  Both lists must be sorted
// by ordinal comparison.
func (wr *WatchReconciler) reconcile(newPaths []string) {
	i, j := 0, 0
	for i < len(wr.watched) && j < len(newPaths) {
		switch cmp := strings.Compare(wr.watched[i], newPaths[j]); {
		case cmp == 0:
			i++
			j++
		case cmp < 0:
			wr.removeWatch(wr.watched[i])
			i++
		default:
			wr.addWatch(newPaths[j])
			j++
		}
	}

	for ; i < len(wr.watched); i++ {
		wr.removeWatch(wr.watched[i])
	}

	for ; j < len(newPaths); j++ {
		wr.addWatch(newPaths[j])
	}
}

// addWatch opens a watch on the given path.  Watching an already-watched path
// is a no-op.
func (wr *WatchReconciler) addWatch(path string) {
	key := wr.pathKey(path)
	if _, ok := wr.handles[key]; ok {
		log.Debug("path already watched", "path", path)
		return
	}

	handle, err := wr.watcher.WatchFile(path, wr.OnFileChange)
	if err != nil {
		report.ReportWarning("failed to watch file \"%s\": %s", path, err)
		return
	}

	wr.handles[key] = handle
}

// removeWatch closes the watch on the given path.  Unwatching a path with no
// active watch is a no-op.
func (wr *WatchReconciler) removeWatch(path string) {
	key := wr.pathKey(path)

	handle, ok := wr.handles[key]
	if !ok {
		log.Debug("path not watched", "path", path)
		return
	}

	if err := handle.Close(); err != nil {
		log.Debug("error closing watch", "path", path, "err", err)
	}

	delete(wr.handles, key)
}

// pathKey folds a path to the same normalized form the resolver uses for
// visited-set identity, so the watch set and the resolver never drift.
func (wr *WatchReconciler) pathKey(path string) string {
	return depm.PathKey(path, wr.driver.settings.CaseSensitivePaths)
}
