// Package templates keeps the per-kind element templates the builder
// instantiates fields from. Callers may edit a single kind or bulk-edit a
// filtered set of kinds; edits only affect fields created afterwards.
package templates

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// Template describes the element a kind starts from.
type Template struct {
	Tag        string
	Attributes attrs.Attributes
}

// Registry tracks templates keyed by kind.
type Registry struct {
	mu        sync.RWMutex
	templates map[fields.Kind]Template
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		templates: make(map[fields.Kind]Template),
	}
}

// NewDefault creates a registry holding one bare template per built-in kind.
func NewDefault() *Registry {
	reg := New()
	for _, kind := range fields.Kinds() {
		reg.MustRegister(kind, Template{Tag: string(kind)})
	}
	return reg
}

// Clone returns a deep copy so builders can mutate templates in isolation.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for kind, tpl := range r.templates {
		cloned.templates[kind] = cloneTemplate(tpl)
	}
	return cloned
}

// Register associates a template with kind. Existing entries are replaced.
func (r *Registry) Register(kind fields.Kind, tpl Template) error {
	if kind = normalize(kind); kind == "" {
		return fmt.Errorf("templates: kind is required")
	}
	if tpl.Tag = strings.TrimSpace(tpl.Tag); tpl.Tag == "" {
		return fmt.Errorf("templates: tag for %q is required", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[kind] = cloneTemplate(tpl)
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying default
// registry setup.
func (r *Registry) MustRegister(kind fields.Kind, tpl Template) {
	if err := r.Register(kind, tpl); err != nil {
		panic(err)
	}
}

// Template fetches a copy of the template for kind.
func (r *Registry) Template(kind fields.Kind) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[normalize(kind)]
	if !ok {
		return Template{}, false
	}
	return cloneTemplate(tpl), true
}

// Kinds returns the registered kinds sorted by name.
func (r *Registry) Kinds() []fields.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]fields.Kind, 0, len(r.templates))
	for kind := range r.templates {
		out = append(out, kind)
	}
	slices.Sort(out)
	return out
}

// Edit merges attributes into the template of kind.
func (r *Registry) Edit(kind fields.Kind, attributes attrs.Attributes) error {
	kind = normalize(kind)
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.templates[kind]
	if !ok {
		return fmt.Errorf("templates: edit %q: %w", kind, fields.ErrUnknownKind)
	}
	tpl.Attributes = attrs.Merge(tpl.Attributes, attributes)
	r.templates[kind] = tpl
	return nil
}

// EditAll merges attributes into every template whose kind is in filter. An
// empty filter edits nothing. Unregistered kinds in filter are skipped.
func (r *Registry) EditAll(attributes attrs.Attributes, filter ...fields.Kind) {
	if len(filter) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kind := range filter {
		kind = normalize(kind)
		tpl, ok := r.templates[kind]
		if !ok {
			continue
		}
		tpl.Attributes = attrs.Merge(tpl.Attributes, attributes)
		r.templates[kind] = tpl
	}
}

// Instantiate creates a detached element for kind in doc with the template
// attributes applied.
func (r *Registry) Instantiate(doc *dom.Document, kind fields.Kind) (*dom.Element, error) {
	tpl, ok := r.Template(kind)
	if !ok {
		return nil, fmt.Errorf("templates: %q: %w", kind, fields.ErrUnknownKind)
	}
	el := doc.CreateElement(tpl.Tag)
	if err := attrs.Apply(el, tpl.Attributes); err != nil {
		return nil, fmt.Errorf("templates: instantiate %q: %w", kind, err)
	}
	return el, nil
}

func cloneTemplate(src Template) Template {
	return Template{
		Tag:        src.Tag,
		Attributes: src.Attributes.Clone(),
	}
}

func normalize(kind fields.Kind) fields.Kind {
	return fields.Kind(strings.ToLower(strings.TrimSpace(string(kind))))
}
