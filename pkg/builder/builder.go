// Package builder is the fluent entry point: it creates fields from
// templates, pairs labels, binds events, groups fields and renders the
// registry into the document.
package builder

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/events"
	"github.com/goliatone/go-formbuilder/pkg/fields"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Choice is one option of a select.
type Choice struct {
	Value string
	Label string
}

// Builder assembles a field registry and renders it.
type Builder struct {
	doc       *dom.Document
	cfg       config.Config
	templates *templates.Registry
	registry  *fields.Registry
	binder    *events.Binder
	validator *validation.Validator
	values    render.Values
	hidden    []form.HiddenField
	logger    logrus.FieldLogger
	ids       *idSet

	mount          *dom.Element
	onSubmit       form.SubmitFunc
	onValidated    form.ValidatedFunc
	preventDefault bool
	methodOverride bool

	errMu sync.Mutex
	err   error
}

// New constructs a Builder. Configuration overrides are merged over the
// defaults and validated.
func New(opts ...Option) (*Builder, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg, _, err := config.Resolve(o.overrides...)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}

	if o.doc == nil {
		o.doc = dom.NewDocument()
	}
	if o.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.logger = discard
	}
	if o.templates == nil {
		o.templates = templates.NewDefault()
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}

	b := &Builder{
		doc:       o.doc,
		cfg:       cfg,
		templates: o.templates,
		registry:  fields.NewRegistry(),
		binder: events.New(
			events.WithClock(o.clock),
			events.WithDelay(cfg.Debounce()),
			events.WithLogger(o.logger),
		),
		validator: validation.New(validation.WithLogger(o.logger)),
		values:    o.values,
		hidden:    o.hidden,
		logger:    o.logger,
		ids:       newIDSet(),

		methodOverride: o.override,
	}

	if o.mount != "" {
		if err := b.SetMount(o.mount); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MustNew is New for init-time wiring. It panics on error.
func MustNew(opts ...Option) *Builder {
	b, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Document returns the document fields are created in.
func (b *Builder) Document() *dom.Document { return b.doc }

// Config returns the resolved configuration.
func (b *Builder) Config() config.Config { return b.cfg }

// Registry returns the field registry.
func (b *Builder) Registry() *fields.Registry { return b.registry }

// Templates returns the template registry for editing.
func (b *Builder) Templates() *templates.Registry { return b.templates }

// Binder returns the event binder shared by the builder and its groups.
func (b *Builder) Binder() *events.Binder { return b.binder }

// Err returns the first error latched by a fluent chain.
func (b *Builder) Err() error {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.err
}

func (b *Builder) latch(err error) error {
	if err == nil {
		return nil
	}
	b.errMu.Lock()
	defer b.errMu.Unlock()
	if b.err == nil {
		b.err = err
	}
	return err
}

// CreateField instantiates the template of kind, applies decl and, when
// insert is true, appends the field to the registry.
func (b *Builder) CreateField(kind fields.Kind, decl Declaration, insert bool) (*fields.Field, error) {
	el, err := b.templates.Instantiate(b.doc, kind)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	f := fields.New(kind, el)
	validation.Attach(f)
	if decl != nil {
		if err := decl.apply(f); err != nil {
			return nil, fmt.Errorf("builder: create %s: %w", kind, err)
		}
	}
	if insert {
		b.registry.Append(f)
	}
	return f, nil
}

func (b *Builder) selection(f *fields.Field, err error) *Selection {
	return &Selection{b: b, field: f, err: b.latch(err)}
}

// Input creates an input of the given type.
func (b *Builder) Input(typ string, decl Declaration) *Selection {
	return b.selection(b.CreateField(fields.KindInput, withAttrs(decl, attrs.Attributes{"type": typ}), true))
}

// Textarea creates a textarea.
func (b *Builder) Textarea(decl Declaration) *Selection {
	return b.selection(b.CreateField(fields.KindTextarea, decl, true))
}

// Select creates a select whose options follow choices in order.
func (b *Builder) Select(decl Declaration, choices ...Choice) *Selection {
	options := make([]*fields.Field, 0, len(choices))
	for _, c := range choices {
		opt, err := b.CreateField(fields.KindOption, Attrs{"value": c.Value}, false)
		if err != nil {
			return b.selection(nil, err)
		}
		opt.Element().SetText(c.Label)
		options = append(options, opt)
	}
	return b.selection(b.CreateField(fields.KindSelect, withChildren(decl, options), true))
}

// SelectMap is Select over a value to label map. Options are sorted by
// value.
func (b *Builder) SelectMap(decl Declaration, choices map[string]string) *Selection {
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]Choice, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, Choice{Value: k, Label: choices[k]})
	}
	return b.Select(decl, ordered...)
}

// Button creates a submit button showing title.
func (b *Builder) Button(title string, decl Declaration) *Selection {
	f, err := b.CreateField(fields.KindButton, decl, true)
	if err == nil {
		f.Element().SetText(title)
		f.Element().SetAttribute("type", "submit")
	}
	return b.selection(f, err)
}

// Label creates a label for target and puts the pair in target's registry
// slot. A target without an id gets one synthesised from text.
func (b *Builder) Label(text string, target *fields.Field) (*fields.Field, error) {
	return b.label(text, target, false)
}

// label pairs target with a new label. The target id is only touched once
// the pair is in the registry; fresh forces a synthesised id.
func (b *Builder) label(text string, target *fields.Field, fresh bool) (*fields.Field, error) {
	if target == nil {
		return nil, b.latch(fmt.Errorf("builder: label %q: %w", text, fields.ErrFieldNotFound))
	}
	label, err := b.CreateField(fields.KindLabel, nil, false)
	if err != nil {
		return nil, b.latch(err)
	}
	label.Element().SetText(text)
	if err := b.registry.InsertLabelBefore(label, target); err != nil {
		return nil, b.latch(fmt.Errorf("builder: label %q: %w", text, err))
	}
	if fresh || target.ID() == "" {
		target.SetID(b.GenerateID(text))
	}
	label.Element().SetAttribute("for", target.ID())
	return label, nil
}

// GenerateID synthesises an id from text with the configured policy. Ids
// already handed out by this builder or its groups get a numeric suffix.
func (b *Builder) GenerateID(text string) string {
	return b.ids.claim(b.cfg.IDPolicy().Generate(text))
}

// UpdateField applies decl to the field registered under name. Groups
// resolve to their first named member.
func (b *Builder) UpdateField(name string, decl Declaration) (*fields.Field, error) {
	f, ok := b.registry.Resolve(name)
	if !ok || f == nil {
		return nil, fmt.Errorf("builder: update %q: %w", name, fields.ErrFieldNotFound)
	}
	if decl != nil {
		if err := decl.apply(f); err != nil {
			return nil, fmt.Errorf("builder: update %q: %w", name, err)
		}
	}
	return f, nil
}

// SelectValue marks the options of the select called name. One value
// selects that option and clears the others. Several values require a
// multiple select and select exactly that set. The select is left untouched
// when any value has no matching option.
func (b *Builder) SelectValue(name string, values ...string) error {
	f, ok := b.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("builder: select value %q: %w", name, fields.ErrFieldNotFound)
	}
	if f.Kind() != fields.KindSelect {
		return fmt.Errorf("builder: select value %q: %w: field is a %s", name, fields.ErrUsage, f.Kind())
	}
	if len(values) > 1 && !f.Element().HasAttribute("multiple") {
		return fmt.Errorf("builder: select value %q: %w: %d values for a single select", name, fields.ErrUsage, len(values))
	}

	options := f.Element().Children()
	want := make(map[string]struct{}, len(values))
	for _, v := range values {
		found := false
		for _, opt := range options {
			if optionValue(opt) == v {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("builder: select value %q: %w: %q", name, fields.ErrOptionNotFound, v)
		}
		want[v] = struct{}{}
	}

	for _, opt := range options {
		if _, ok := want[optionValue(opt)]; ok {
			opt.SetAttribute("selected", "")
		} else {
			opt.RemoveAttribute("selected")
		}
	}
	return nil
}

// Group builds a nested group through a child builder that shares the
// document, templates, binder and configuration. The group is appended as a
// single entry once fn succeeds.
func (b *Builder) Group(fn func(*Builder) error) error {
	if fn == nil {
		return nil
	}
	child := &Builder{
		doc:       b.doc,
		cfg:       b.cfg,
		templates: b.templates,
		registry:  fields.NewRegistry(),
		binder:    b.binder,
		validator: b.validator,
		values:    b.values,
		logger:    b.logger,
		ids:       b.ids,
	}
	if err := fn(child); err != nil {
		return b.latch(fmt.Errorf("builder: group: %w", err))
	}
	if err := child.Err(); err != nil {
		return b.latch(fmt.Errorf("builder: group: %w", err))
	}
	b.registry.AppendGroup(child.registry.Entries()...)
	return nil
}

// SetMount resolves selector (CSS, or XPath when it starts with "/") to the
// mount element.
func (b *Builder) SetMount(selector string) error {
	el, err := render.ResolveMount(b.doc, selector)
	if err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	b.mount = el
	return nil
}

// SetMountElement uses el as the mount element.
func (b *Builder) SetMountElement(el *dom.Element) {
	b.mount = el
}

// SetFieldWrapper replaces the per-field wrapper. An empty tag disables
// wrapping.
func (b *Builder) SetFieldWrapper(tag string, attributes attrs.Attributes) {
	b.cfg.Field.FieldWrapper = &config.Wrapper{Tag: tag, Attributes: attributes.Clone()}
}

// SetOnSubmit installs the submit callback. When preventDefault is true the
// default action is suppressed.
func (b *Builder) SetOnSubmit(cb form.SubmitFunc, preventDefault bool) {
	b.onSubmit = cb
	b.preventDefault = preventDefault
}

// SetOnValidated installs a callback receiving each validation report.
func (b *Builder) SetOnValidated(cb form.ValidatedFunc) {
	b.onValidated = cb
}

// Render materialises the registry under the mount point. It refuses to run
// while a fluent chain has latched an error.
func (b *Builder) Render() (*form.Form, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if b.mount == nil {
		return nil, fmt.Errorf("builder: %w", fields.ErrNoMount)
	}
	f, err := render.Render(b.doc, b.registry, render.Options{
		Mount:  b.mount,
		Config: b.cfg,
		Values: b.values,
		Assembly: form.Assembly{
			OnSubmit:       b.onSubmit,
			PreventDefault: b.preventDefault,
			MethodOverride: b.methodOverride,
			Hidden:         b.hidden,
			OnValidated:    b.onValidated,
			Validator:      b.validator,
		},
		Logger: b.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	return f, nil
}

func optionValue(opt *dom.Element) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return opt.Text()
}

type idSet struct {
	mu   sync.Mutex
	used map[string]int
}

func newIDSet() *idSet {
	return &idSet{used: make(map[string]int)}
}

func (s *idSet) claim(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.used[id]
	s.used[id] = n + 1
	if n == 0 {
		return id
	}
	for {
		n++
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := s.used[candidate]; !taken {
			s.used[candidate] = 1
			s.used[id] = n
			return candidate
		}
	}
}
