package fields

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is the ordered collection of entries awaiting render. Insertion
// order is render order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Append registers f as a Leaf at the end of the registry.
func (r *Registry) Append(f *Field) {
	if r == nil || f == nil {
		return
	}
	r.AppendEntry(Leaf{Field: f})
}

// AppendEntry registers e at the end of the registry. Nil entries are
// ignored.
func (r *Registry) AppendEntry(e Entry) {
	if r == nil || e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// AppendGroup registers entries as one nested Group.
func (r *Registry) AppendGroup(entries ...Entry) {
	r.AppendEntry(Group{Entries: entries})
}

// InsertLabelBefore replaces the Leaf holding f with a LabeledLeaf pairing
// label and f at the same index. f must be a top-level leaf.
func (r *Registry) InsertLabelBefore(label, f *Field) error {
	if r == nil || f == nil {
		return fmt.Errorf("%w: label target is nil", ErrFieldNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if leaf, ok := e.(Leaf); ok && leaf.Field == f {
			r.entries[i] = LabeledLeaf{Label: label, Field: f}
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q is not a registered leaf", ErrFieldNotFound, f.Kind(), f.Name())
}

// IndexOf returns the index of the first entry whose first name-bearing
// member is called name.
func (r *Registry) IndexOf(name string) (int, bool) {
	if r == nil {
		return -1, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, e := range r.entries {
		if e == nil {
			continue
		}
		if f := e.Named(); f != nil && f.Name() == name {
			return i, true
		}
	}
	return -1, false
}

// Resolve returns the first name-bearing member of the entry found by
// IndexOf.
func (r *Registry) Resolve(name string) (*Field, bool) {
	idx, ok := r.IndexOf(name)
	if !ok {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[idx].Named(), true
}

// Lookup searches every leaf, groups included, for the first field called
// name.
func (r *Registry) Lookup(name string) (*Field, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	for _, f := range r.Leaves() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Entries returns a snapshot of the registry.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Leaves flattens the registry into its non-label fields in render order.
func (r *Registry) Leaves() []*Field {
	var out []*Field
	for _, e := range r.Entries() {
		out = append(out, Leaves(e)...)
	}
	return out
}

// Len returns the number of top-level entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
