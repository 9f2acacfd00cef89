// Why this file: ./internal/app/watcher.go
// This watches the domain database files and drops the matching cache entries
// when one changes on disk, so answers never outlive the data they came from.
package app

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/yourusername/deshq-knowledge-agent/internal/cache"
	"github.com/yourusername/deshq-knowledge-agent/storage"
)

// DBWatcher invalidates cached answers when a domain database file changes.
type DBWatcher struct {
	watcher *fsnotify.Watcher
	cache   *cache.ResultCache
	domains map[string]string // db filename -> domain tool name
	logger  *zap.Logger
}

// NewDBWatcher creates a watcher over the directories holding the domain
// database files. Watching the parent directory instead of the file itself
// survives tools that replace the file by rename.
func NewDBWatcher(dbs map[string]*storage.DomainDB, resultCache *cache.ResultCache,
	logger *zap.Logger) (*DBWatcher, error) {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &DBWatcher{
		watcher: watcher,
		cache:   resultCache,
		domains: make(map[string]string, len(dbs)),
		logger:  logger,
	}

	dirs := make(map[string]bool)
	for domain, db := range dbs {
		path := db.Path()
		w.domains[filepath.Base(path)] = domain
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start runs the watch loop until done is closed.
func (w *DBWatcher) Start(done <-chan struct{}) {
	go w.watchLoop(done)
}

func (w *DBWatcher) watchLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *DBWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	name := filepath.Base(event.Name)
	// SQLite writes land on the -wal/-journal sidecars as often as the db file.
	for _, suffix := range []string{"-wal", "-journal", "-shm"} {
		name = strings.TrimSuffix(name, suffix)
	}
	domain, ok := w.domains[name]
	if !ok {
		return
	}
	dropped := w.cache.InvalidateTool(domain)
	if dropped > 0 {
		w.logger.Info("database changed, cache invalidated",
			zap.String("domain", domain),
			zap.Int("entries_dropped", dropped))
	}
}

// Close stops the underlying filesystem watcher.
func (w *DBWatcher) Close() error {
	return w.watcher.Close()
}
