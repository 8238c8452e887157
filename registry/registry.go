// Package registry tracks the type objects a process has created.
//
// Type objects are process-lifetime, so the registry only grows. It exists
// for tooling: inspectors can enumerate what was created, and Snapshot
// exports the registry in a deterministic wire form.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/extclass/hostabi"
)

// Entry records one created type.
type Entry struct {
	ID      string // registry-assigned uuid
	Name    string // qualified name ("module.Class")
	Handle  hostabi.TypeHandle
	Flags   uint32
	Created time.Time
}

// Registry is a thread-safe map of created types by qualified name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Record registers a created type and returns its entry. Re-recording a
// name replaces the previous entry; the host runtime's own serialization
// already excludes two live types with the same qualified name.
func (r *Registry) Record(name string, h hostabi.TypeHandle, flags uint32) *Entry {
	e := &Entry{
		ID:      uuid.NewString(),
		Name:    name,
		Handle:  h,
		Flags:   flags,
		Created: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; !ok {
		r.order = append(r.order, name)
	}
	r.entries[name] = e
	return e
}

// Lookup finds an entry by qualified name, or nil.
func (r *Registry) Lookup(name string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name]
}

// All returns all entries in recording order.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.entries[name])
	}
	return result
}

// Len returns the number of recorded types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
