package catalog

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"
)

// RegistryError is returned when a registry operation is rejected.
type RegistryError struct {
	Source    string
	Operation string
	Message   string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("registry %s failed for %s: %s", e.Operation, e.Source, e.Message)
	}
	return fmt.Sprintf("registry %s failed: %s", e.Operation, e.Message)
}

// Registry is a thread-safe in-memory set of loaded catalogs keyed by
// source. Catalogs are immutable once stored, so readers may keep the
// pointers they get after the registry lock is released.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
	version  string
	loadTime time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{catalogs: make(map[string]*Catalog)}
	r.updateVersion()
	return r
}

// Replace stores cat under its source, replacing any catalog loaded from
// the same source.
func (r *Registry) Replace(cat *Catalog) error {
	if err := validateForRegistry("replace", cat); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalogs[cat.Source] = cat
	r.loadTime = time.Now()
	r.updateVersion()
	return nil
}

// ReplaceAll atomically swaps the whole set. Nothing is changed when any
// catalog is rejected.
func (r *Registry) ReplaceAll(catalogs []*Catalog) error {
	next := make(map[string]*Catalog, len(catalogs))
	for _, cat := range catalogs {
		if err := validateForRegistry("replace_all", cat); err != nil {
			return err
		}
		if _, dup := next[cat.Source]; dup {
			return &RegistryError{Source: cat.Source, Operation: "replace_all", Message: "duplicate source"}
		}
		next[cat.Source] = cat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalogs = next
	r.loadTime = time.Now()
	r.updateVersion()
	return nil
}

func validateForRegistry(op string, cat *Catalog) error {
	if cat == nil {
		return &RegistryError{Operation: op, Message: "catalog cannot be nil"}
	}
	if cat.Source == "" {
		return &RegistryError{Operation: op, Message: "catalog source cannot be empty"}
	}
	return nil
}

// Remove drops the catalog loaded from source.
func (r *Registry) Remove(source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalogs[source]; !ok {
		return &RegistryError{Source: source, Operation: "remove", Message: "catalog not found"}
	}
	delete(r.catalogs, source)
	r.updateVersion()
	return nil
}

// Get returns the catalog loaded from source.
func (r *Registry) Get(source string) (*Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat, ok := r.catalogs[source]
	return cat, ok
}

// Lookup finds a query by name. Catalogs are searched in source order, so
// when several define the same name the one from the lexically first source
// wins.
func (r *Registry) Lookup(queryName string) (*Query, *Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, source := range r.sortedSources() {
		cat := r.catalogs[source]
		if q, ok := cat.Get(queryName); ok {
			return q, cat, true
		}
	}
	return nil, nil, false
}

// Catalogs returns every catalog sorted by source.
func (r *Registry) Catalogs() []*Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := r.sortedSources()
	out := make([]*Catalog, len(sources))
	for i, source := range sources {
		out[i] = r.catalogs[source]
	}
	return out
}

// Sources returns the sorted catalog sources.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedSources()
}

// Count returns the number of catalogs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.catalogs)
}

// QueryCount returns the number of queries across all catalogs.
func (r *Registry) QueryCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, cat := range r.catalogs {
		n += cat.Len()
	}
	return n
}

// Version identifies the current content of the registry. It changes
// whenever a source, query name or expression changes.
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// LoadTime returns when a catalog was last stored.
func (r *Registry) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loadTime
}

// sortedSources must be called with the lock held.
func (r *Registry) sortedSources() []string {
	sources := make([]string, 0, len(r.catalogs))
	for source := range r.catalogs {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// updateVersion must be called with the write lock held.
func (r *Registry) updateVersion() {
	h := sha256.New()

	// Zero bytes separate fields so that adjacent values cannot run together
	for _, source := range r.sortedSources() {
		cat := r.catalogs[source]
		h.Write([]byte(source))
		h.Write([]byte{0})
		for _, q := range cat.Queries {
			h.Write([]byte(q.Name))
			h.Write([]byte{0})
			h.Write([]byte(q.Expression))
			h.Write([]byte{0})
		}
	}

	r.version = fmt.Sprintf("%x", h.Sum(nil))[:16]
}
