// Package form assembles the form container and drives the submit handshake:
// collect named values, hand them to the caller, validate and report whether
// the default action should run.
package form

import (
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// SubmitEvent is the event type that triggers the handshake.
const SubmitEvent = "submit"

// Value is one collected name/value pair.
type Value struct {
	Field *fields.Field `json:"-"`
	Name  string        `json:"name"`
	Value string        `json:"value"`
}

// SubmitFunc receives the raw submit event and the collected values in
// registry order.
type SubmitFunc func(evt *dom.Event, values []Value)

// ValidatedFunc receives the report of a validation pass.
type ValidatedFunc func(report validation.Report)

// Assembly configures Assemble.
type Assembly struct {
	Config config.Config
	// Registry holds the live fields submission reads from. The renderer
	// fills it with the clones it appends; a new one is created when nil.
	Registry       *fields.Registry
	OnSubmit       SubmitFunc
	PreventDefault bool
	// MethodOverride submits methods other than GET, POST and DIALOG as POST
	// with the verb in a hidden _method field. Off, form.method is applied
	// as configured.
	MethodOverride bool
	Hidden         []HiddenField
	OnValidated    ValidatedFunc
	Validator      *validation.Validator
	Logger         logrus.FieldLogger
}

// Form is an assembled container and its submit state.
type Form struct {
	el             *dom.Element
	registry       *fields.Registry
	onSubmit       SubmitFunc
	onValidated    ValidatedFunc
	preventDefault bool
	validate       bool
	validator      *validation.Validator
	logger         logrus.FieldLogger

	mu     sync.Mutex
	report *validation.Report
	values []Value
}

// Assemble creates the form element, applies the form attributes, appends
// hidden fields and wires the submit listener.
func Assemble(doc *dom.Document, a Assembly) *Form {
	logger := a.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	registry := a.Registry
	if registry == nil {
		registry = fields.NewRegistry()
	}
	validator := a.Validator
	if validator == nil {
		validator = validation.New(validation.WithLogger(logger))
	}

	el := doc.CreateElement("form")
	formAttrs := attrs.Attributes{}
	for key, value := range a.Config.Form {
		formAttrs[key] = value
	}
	hidden := append([]HiddenField(nil), a.Hidden...)
	if a.MethodOverride {
		method, override := resolveMethod(formAttrs["method"])
		formAttrs["method"] = method
		if override != "" {
			hidden = append(hidden, HiddenField{Name: MethodOverrideField, Value: override})
		}
	}
	if err := attrs.Apply(el, formAttrs); err != nil {
		logger.WithError(err).Warn("form: apply form attributes")
	}

	for _, h := range normalizeHidden(hidden) {
		input := doc.CreateElement("input")
		input.SetAttribute("type", "hidden")
		input.SetAttribute("name", h.Name)
		input.SetAttribute("value", h.Value)
		if err := el.AppendChild(input); err != nil {
			logger.WithError(err).Warn("form: append hidden field")
		}
	}

	f := &Form{
		el:             el,
		registry:       registry,
		onSubmit:       a.OnSubmit,
		onValidated:    a.OnValidated,
		preventDefault: a.PreventDefault,
		validate:       a.Config.ValidateForm,
		validator:      validator,
		logger:         logger,
	}
	el.AddEventListener(SubmitEvent, f.handleSubmit)
	return f
}

// Element returns the form container.
func (f *Form) Element() *dom.Element {
	return f.el
}

// Registry returns the live registry submission and validation read from.
func (f *Form) Registry() *fields.Registry {
	return f.registry
}

// Submit dispatches a submit event on the container and returns whether the
// default action would run.
func (f *Form) Submit() bool {
	return f.el.Dispatch(dom.NewEvent(SubmitEvent))
}

// Report returns the report of the latest validation pass.
func (f *Form) Report() (validation.Report, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.report == nil {
		return validation.Report{}, false
	}
	return *f.report, true
}

// Values returns the values collected by the latest submission.
func (f *Form) Values() []Value {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Value, len(f.values))
	copy(out, f.values)
	return out
}

// Collect reads the current value of every named leaf in registry order.
// Checkbox and radio inputs contribute only while checked.
func (f *Form) Collect() []Value {
	var out []Value
	for _, leaf := range f.registry.Leaves() {
		name := leaf.Name()
		if name == "" || unchecked(leaf) {
			continue
		}
		value := leaf.Value()
		if value == "undefined" {
			value = ""
		}
		out = append(out, Value{Field: leaf, Name: name, Value: value})
	}
	return out
}

// Validate runs the validator over the live fields and stores the report.
func (f *Form) Validate() validation.Report {
	report := f.validator.ValidateRegistry(f.registry)
	f.mu.Lock()
	f.report = &report
	f.mu.Unlock()
	return report
}

func (f *Form) handleSubmit(evt *dom.Event) {
	values := f.Collect()
	f.mu.Lock()
	f.values = values
	f.mu.Unlock()

	f.logger.WithFields(logrus.Fields{
		"fields": len(values),
		"action": strings.TrimSpace(f.el.GetAttribute("action")),
	}).Debug("form submitted")

	if f.onSubmit != nil {
		f.onSubmit(evt, values)
	}

	if f.validate {
		report := f.Validate()
		if !report.Valid {
			f.logger.WithField("errors", len(report.Errors)).Debug("form validation failed")
		}
		if f.onValidated != nil {
			f.onValidated(report)
		}
	}

	if f.preventDefault {
		evt.PreventDefault()
	}
}

func unchecked(f *fields.Field) bool {
	if f.Kind() != fields.KindInput {
		return false
	}
	el := f.Element()
	switch strings.ToLower(el.GetAttribute("type")) {
	case "checkbox", "radio":
		return !el.HasAttribute("checked")
	}
	return false
}
