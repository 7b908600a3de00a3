// Package render materialises a field registry into a live document. Each
// render clones the registered field trees, so rendering twice yields two
// independent containers under the mount point.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
	"github.com/goliatone/go-formbuilder/pkg/form"
)

// Options describe a single render.
type Options struct {
	// Mount receives the assembled form container.
	Mount *dom.Element
	// Config supplies wrapper templates and form attributes.
	Config config.Config
	// Values pre-populates rendered controls by field name.
	Values Values
	// Assembly configures the form container. Its Config and Registry are
	// set by the renderer.
	Assembly form.Assembly
	Logger   logrus.FieldLogger
}

// ResolveMount finds the mount element for selector. CSS and XPath selectors
// are accepted.
func ResolveMount(doc *dom.Document, selector string) (*dom.Element, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("render: %w", fields.ErrNoMount)
	}
	el, err := doc.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("render: mount %q: %w: %v", selector, fields.ErrMountNotFound, err)
	}
	if el == nil {
		return nil, fmt.Errorf("render: mount %q: %w", selector, fields.ErrMountNotFound)
	}
	return el, nil
}

// Render walks registry, appends the rendered fields into a new form
// container and attaches it to opts.Mount. The returned Form observes the
// rendered clones, not the registry originals.
func Render(doc *dom.Document, registry *fields.Registry, opts Options) (*form.Form, error) {
	if opts.Mount == nil {
		return nil, fmt.Errorf("render: %w", fields.ErrNoMount)
	}
	if opts.Mount.Document() != doc {
		return nil, fmt.Errorf("render: %w: %v", fields.ErrMountNotFound, dom.ErrForeignElement)
	}

	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	assembly := opts.Assembly
	assembly.Config = opts.Config
	assembly.Registry = fields.NewRegistry()
	if assembly.Logger == nil {
		assembly.Logger = logger
	}
	f := form.Assemble(doc, assembly)

	w := &walker{
		doc:    doc,
		values: opts.Values,
	}
	var err error
	if w.cell, err = prototype(doc, opts.Config.FieldWrapper()); err != nil {
		return nil, err
	}
	if w.group, err = prototype(doc, opts.Config.GroupWrapper()); err != nil {
		return nil, err
	}

	view, err := w.walk(f.Element(), registry.Entries(), true)
	if err != nil {
		return nil, err
	}
	for _, e := range view {
		f.Registry().AppendEntry(e)
	}

	if err := opts.Mount.AppendChild(f.Element()); err != nil {
		return nil, fmt.Errorf("render: attach to mount: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"entries": len(view),
		"mount":   opts.Mount.Tag(),
	}).Debug("form rendered")
	return f, nil
}

type walker struct {
	doc    *dom.Document
	values Values
	cell   *dom.Element
	group  *dom.Element
}

// walk appends entries into parent and returns the mirrored entries built
// from the clones. Only the outermost level wraps.
func (w *walker) walk(parent *dom.Element, entries []fields.Entry, wrap bool) ([]fields.Entry, error) {
	var view []fields.Entry
	for _, entry := range entries {
		switch e := entry.(type) {
		case nil:
			continue
		case fields.Leaf:
			if e.Field == nil {
				continue
			}
			clone := w.materialise(e.Field)
			if err := w.place(parent, wrap, clone.Element()); err != nil {
				return nil, err
			}
			view = append(view, fields.Leaf{Field: clone})
		case fields.LabeledLeaf:
			if e.Field == nil {
				continue
			}
			pair := fields.LabeledLeaf{Field: w.materialise(e.Field)}
			var nodes []*dom.Element
			if e.Label != nil {
				pair.Label = e.Label.Clone()
				nodes = append(nodes, pair.Label.Element())
			}
			nodes = append(nodes, pair.Field.Element())
			if err := w.place(parent, wrap, nodes...); err != nil {
				return nil, err
			}
			view = append(view, pair)
		case fields.Group:
			group, err := w.walkGroup(parent, e, wrap)
			if err != nil {
				return nil, err
			}
			view = append(view, group)
		}
	}
	return view, nil
}

func (w *walker) walkGroup(parent *dom.Element, g fields.Group, wrap bool) (fields.Group, error) {
	var container, cell *dom.Element
	if w.group != nil {
		container = w.group.CloneNode(false)
	}
	if wrap && w.cell != nil {
		cell = w.cell.CloneNode(false)
	}

	holder := parent
	switch {
	case container != nil:
		holder = container
	case cell != nil:
		holder = cell
	}

	inner, err := w.walk(holder, g.Entries, false)
	if err != nil {
		return fields.Group{}, err
	}

	if container != nil && cell != nil {
		if err := cell.AppendChild(container); err != nil {
			return fields.Group{}, fmt.Errorf("render: wrap group: %w", err)
		}
	}
	outer := cell
	if outer == nil {
		outer = container
	}
	if outer != nil {
		if err := parent.AppendChild(outer); err != nil {
			return fields.Group{}, fmt.Errorf("render: append group: %w", err)
		}
	}
	return fields.Group{Entries: inner}, nil
}

// place appends nodes into a fresh wrapper cell when wrapping, or directly
// into parent otherwise.
func (w *walker) place(parent *dom.Element, wrap bool, nodes ...*dom.Element) error {
	target := parent
	if wrap && w.cell != nil {
		target = w.cell.CloneNode(false)
	}
	for _, n := range nodes {
		if err := target.AppendChild(n); err != nil {
			return fmt.Errorf("render: append <%s>: %w", n.Tag(), err)
		}
	}
	if target != parent {
		if err := parent.AppendChild(target); err != nil {
			return fmt.Errorf("render: append wrapper: %w", err)
		}
	}
	return nil
}

// materialise clones f and applies its prefill.
func (w *walker) materialise(f *fields.Field) *fields.Field {
	clone := f.Clone()
	prefill(clone, w.values)
	for _, child := range clone.Children() {
		prefill(child, w.values)
	}
	return clone
}

func prefill(f *fields.Field, values Values) {
	name := f.Name()
	if name == "" {
		return
	}
	prefills, ok := values.Strings(name)
	if !ok {
		return
	}
	el := f.Element()
	switch f.Kind() {
	case fields.KindInput:
		switch strings.ToLower(el.GetAttribute("type")) {
		case "checkbox", "radio":
			setFlag(el, "checked", contains(prefills, el.GetAttribute("value")) || (len(prefills) == 1 && isTruthy(prefills[0]) && !el.HasAttribute("value")))
		default:
			el.SetAttribute("value", first(prefills))
		}
		el.ResetValue()
	case fields.KindTextarea:
		el.SetText(first(prefills))
		el.ResetValue()
	case fields.KindSelect:
		if !el.HasAttribute("multiple") && len(prefills) > 1 {
			prefills = prefills[:1]
		}
		for _, opt := range el.Children() {
			setFlag(opt, "selected", contains(prefills, optionValue(opt)))
		}
		el.ResetValue()
	}
}

func prototype(doc *dom.Document, w *config.Wrapper) (*dom.Element, error) {
	if w == nil {
		return nil, nil
	}
	el := doc.CreateElement(w.Tag)
	if err := attrs.Apply(el, attrs.Attributes(w.Attributes)); err != nil {
		return nil, fmt.Errorf("render: wrapper <%s>: %w", w.Tag, err)
	}
	return el, nil
}

func optionValue(opt *dom.Element) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}

func setFlag(el *dom.Element, key string, on bool) {
	if on {
		el.SetAttribute(key, "")
		return
	}
	el.RemoveAttribute(key)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}
