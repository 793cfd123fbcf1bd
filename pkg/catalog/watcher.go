package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/binlog-hq/logq/pkg/telemetry/logging"
	"github.com/binlog-hq/logq/pkg/telemetry/metrics"
)

// ReloadFunc is called after every load attempt with the source, the
// catalog on success, and the load error on failure.
type ReloadFunc func(source string, cat *Catalog, err error)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Path is a catalog file or a directory of catalog files.
	Path string

	// Debounce is the quiet period after the last file event before the
	// affected catalogs are reloaded.
	// Default: 100ms
	Debounce time.Duration

	// OnReload is optional.
	OnReload ReloadFunc

	Metrics *metrics.Collector
	Logger  *logging.Logger
}

// Watcher keeps a Registry in sync with catalog files on disk. A failed
// reload never replaces a good catalog: the registry keeps serving the
// last version that loaded cleanly.
type Watcher struct {
	config   WatcherConfig
	loader   *Loader
	registry *Registry
	debounce *Debouncer
	dir      bool

	mu       sync.Mutex
	pending  map[string]struct{}
	failures map[string]error
	running  bool
}

// NewWatcher creates a watcher for cfg.Path. It does not touch the file
// system until Run is called.
func NewWatcher(cfg WatcherConfig, loader *Loader, registry *Registry) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch path cannot be empty")
	}
	if loader == nil || registry == nil {
		return nil, errors.New("watcher needs a loader and a registry")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	return &Watcher{
		config:   cfg,
		loader:   loader,
		registry: registry,
		debounce: NewDebouncer(cfg.Debounce),
		pending:  make(map[string]struct{}),
		failures: make(map[string]error),
	}, nil
}

// Run loads every catalog under the watched path, then reloads catalogs as
// their files change. It blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	info, err := os.Stat(w.config.Path)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", w.config.Path, err)
	}
	w.dir = info.IsDir()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()
	defer w.debounce.Stop()

	if err := w.addWatches(fsw); err != nil {
		return err
	}

	if err := w.loadAll(ctx); err != nil {
		return err
	}

	w.config.Logger.InfoContext(ctx, "watching catalogs",
		"path", w.config.Path,
		"debounce", w.config.Debounce,
	)

	for {
		select {
		case <-ctx.Done():
			w.config.Logger.InfoContext(ctx, "catalog watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.config.Logger.DebugContext(ctx, "file event", "path", event.Name, "op", event.Op.String())

			if w.dir && event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
					if err := fsw.Add(event.Name); err != nil {
						w.config.Logger.WarnContext(ctx, "cannot watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			w.mu.Lock()
			w.pending[filepath.Clean(event.Name)] = struct{}{}
			w.mu.Unlock()
			w.debounce.Trigger(func() { w.flush(ctx) })

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.config.Logger.ErrorContext(ctx, "file watcher error", "error", err)
		}
	}
}

// addWatches watches the parent directory of a single file, so that
// editors which save by renaming a temporary file are still seen, or every
// non-hidden directory of a tree.
func (w *Watcher) addWatches(fsw *fsnotify.Watcher) error {
	if !w.dir {
		dir := filepath.Dir(w.config.Path)
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(w.config.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) && path != w.config.Path {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loadAll(ctx context.Context) error {
	if !w.dir {
		w.reload(ctx, filepath.Clean(w.config.Path))
		return nil
	}

	files, err := collectCatalogFiles(w.config.Path)
	if err != nil {
		return err
	}
	for _, path := range files {
		w.reload(ctx, path)
	}
	return nil
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(event.Name)
	if !w.dir {
		return name == filepath.Clean(w.config.Path)
	}
	if isHidden(filepath.Base(name)) {
		return false
	}
	// Directories have no extension; let Run decide what they are
	return hasCatalogExtension(name) || filepath.Ext(name) == ""
}

// flush reloads every path seen since the last flush.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		if w.dir && !hasCatalogExtension(path) {
			continue
		}
		w.reload(ctx, path)
	}
}

// reload loads one catalog and updates the registry.
func (w *Watcher) reload(ctx context.Context, path string) {
	ctx = logging.WithCatalog(ctx, path)

	if w.dir {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			w.forget(ctx, path)
			return
		}
	}

	cat, err := w.loader.Load(ctx, path)
	if err == nil {
		err = w.registry.Replace(cat)
	}

	w.config.Metrics.RecordCatalogReload(path, err == nil)

	w.mu.Lock()
	if err != nil {
		w.failures[path] = err
	} else {
		delete(w.failures, path)
	}
	w.mu.Unlock()

	if err != nil {
		if _, ok := w.registry.Get(path); ok {
			w.config.Logger.WarnContext(ctx, "catalog reload failed, keeping last good version",
				"version", w.registry.Version(),
				"error", err,
			)
		} else {
			w.config.Logger.ErrorContext(ctx, "catalog load failed", "error", err)
		}
	} else {
		w.config.Logger.InfoContext(ctx, "catalog reloaded",
			"queries", cat.Len(),
			"version", w.registry.Version(),
		)
	}

	if w.config.OnReload != nil {
		w.config.OnReload(path, cat, err)
	}
}

// forget drops a catalog whose file was deleted from a watched directory.
func (w *Watcher) forget(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.failures, path)
	w.mu.Unlock()

	if err := w.registry.Remove(path); err == nil {
		w.config.Logger.InfoContext(ctx, "catalog removed", "version", w.registry.Version())
	}
}

// Failures returns the latest load error of every catalog that is failing,
// keyed by source.
func (w *Watcher) Failures() map[string]error {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]error, len(w.failures))
	for source, err := range w.failures {
		out[source] = err
	}
	return out
}

// Healthy is a readiness check: it fails while no catalog is loaded or any
// watched catalog is failing to load.
func (w *Watcher) Healthy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	failures := w.Failures()
	if len(failures) > 0 {
		sources := make([]string, 0, len(failures))
		for source := range failures {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		return fmt.Errorf("%d catalog(s) failing to load: %s", len(sources), strings.Join(sources, ", "))
	}

	if w.registry.Count() == 0 {
		return errors.New("no catalog loaded")
	}
	return nil
}
