package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	watchDebounce = 20 * time.Millisecond
	waitTimeout   = 5 * time.Second
)

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startWatcher(t *testing.T, cfg WatcherConfig) (*Watcher, *Registry) {
	t.Helper()
	registry := NewRegistry()
	cfg.Debounce = watchDebounce

	w, err := NewWatcher(cfg, NewLoader(Options{}), registry)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(waitTimeout):
			t.Error("Run() did not return after cancel")
		}
	})
	return w, registry
}

func TestWatcher_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queries.yaml")
	writeFile(t, path, singleQuery("q", "//error"))

	var reloads atomic.Int32
	w, registry := startWatcher(t, WatcherConfig{
		Path:     path,
		OnReload: func(string, *Catalog, error) { reloads.Add(1) },
	})

	waitFor(t, "initial load", func() bool { return registry.Count() == 1 })
	if err := w.Healthy(context.Background()); err != nil {
		t.Errorf("Healthy() after good load = %v", err)
	}
	goodVersion := registry.Version()

	// A broken edit keeps the last good catalog
	writeFile(t, path, singleQuery("q", "/Task/Project"))
	waitFor(t, "failed reload", func() bool { return len(w.Failures()) == 1 })

	cat, ok := registry.Get(path)
	if !ok {
		t.Fatal("last good catalog was dropped")
	}
	if q, _ := cat.Get("q"); q.Expression != "//error" {
		t.Errorf("registry serves %q, want last good //error", q.Expression)
	}
	if registry.Version() != goodVersion {
		t.Error("registry version changed on failed reload")
	}
	if err := w.Healthy(context.Background()); err == nil {
		t.Error("Healthy() = nil while catalog is failing")
	}

	// Fixing the file clears the failure
	writeFile(t, path, singleQuery("q", "//warning"))
	waitFor(t, "fixed reload", func() bool {
		c, _ := registry.Get(path)
		q, ok := c.Get("q")
		return ok && q.Expression == "//warning"
	})
	if len(w.Failures()) != 0 {
		t.Errorf("Failures() = %v after fix", w.Failures())
	}
	if reloads.Load() < 3 {
		t.Errorf("OnReload called %d times, want at least 3", reloads.Load())
	}

	// Unrelated files in the same directory are ignored
	before := reloads.Load()
	writeFile(t, filepath.Join(dir, "other.yaml"), singleQuery("o", "//error"))
	time.Sleep(5 * watchDebounce)
	if reloads.Load() != before {
		t.Error("event for another file triggered a reload")
	}
}

func TestWatcher_Directory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, singleQuery("a", "//error"))

	var mu sync.Mutex
	seen := make(map[string]int)
	_, registry := startWatcher(t, WatcherConfig{
		Path: dir,
		OnReload: func(source string, _ *Catalog, _ error) {
			mu.Lock()
			seen[source]++
			mu.Unlock()
		},
	})

	waitFor(t, "initial load", func() bool { return registry.Count() == 1 })

	b := filepath.Join(dir, "b.yml")
	writeFile(t, b, singleQuery("b", "//warning"))
	waitFor(t, "new file", func() bool { return registry.Count() == 2 })

	if _, _, ok := registry.Lookup("b"); !ok {
		t.Error("query from new file not found")
	}

	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "removal", func() bool { return registry.Count() == 1 })

	mu.Lock()
	defer mu.Unlock()
	if seen[b] == 0 {
		t.Error("OnReload not called for b.yml")
	}
}

func TestWatcher_Healthy_NothingLoaded(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Path: "x.yaml"}, NewLoader(Options{}), NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Healthy(context.Background()); err == nil {
		t.Error("Healthy() = nil with an empty registry")
	}
}

func TestNewWatcher_Validation(t *testing.T) {
	if _, err := NewWatcher(WatcherConfig{}, NewLoader(Options{}), NewRegistry()); err == nil {
		t.Error("empty path accepted")
	}
	if _, err := NewWatcher(WatcherConfig{Path: "x"}, nil, NewRegistry()); err == nil {
		t.Error("nil loader accepted")
	}
}

func TestWatcher_RunMissingPath(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Path: filepath.Join(t.TempDir(), "missing.yaml")}, NewLoader(Options{}), NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() on a missing path succeeded")
	}
}
