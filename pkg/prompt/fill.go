package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
	"github.com/goliatone/go-formbuilder/pkg/form"
)

// Result is the outcome of a Fill session.
type Result struct {
	// Submitted reports whether the user confirmed the submission.
	Submitted bool
	// DefaultAction is the value returned by the submit dispatch.
	DefaultAction bool
}

var skippedInputTypes = map[string]struct{}{
	"hidden": {},
	"submit": {},
	"button": {},
	"reset":  {},
	"file":   {},
	"image":  {},
}

// Fill walks the named fields of f, prompts for each through d, stores the
// answers as live values and dispatches a keyup on every field so writing
// listeners observe the change. It asks for confirmation before submitting.
func Fill(ctx context.Context, f *form.Form, d Driver) (Result, error) {
	labels := labelTexts(f.Registry().Entries())

	for _, leaf := range f.Registry().Leaves() {
		if leaf.Name() == "" {
			continue
		}
		if err := ask(ctx, d, leaf, message(leaf, labels)); err != nil {
			return Result{}, err
		}
		leaf.Element().Dispatch(dom.NewEvent("keyup"))
	}

	ok, err := d.Confirm(ctx, ConfirmConfig{Message: "Submit form?", Default: true})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, nil
	}
	return Result{Submitted: true, DefaultAction: f.Submit()}, nil
}

func ask(ctx context.Context, d Driver, leaf *fields.Field, msg string) error {
	el := leaf.Element()
	switch leaf.Kind() {
	case fields.KindInput:
		typ := strings.ToLower(el.GetAttribute("type"))
		if _, skip := skippedInputTypes[typ]; skip {
			return nil
		}
		if typ == "checkbox" || typ == "radio" {
			checked, err := d.Confirm(ctx, ConfirmConfig{Message: msg, Default: el.HasAttribute("checked")})
			if err != nil {
				return err
			}
			if checked {
				el.SetAttribute("checked", "")
			} else {
				el.RemoveAttribute("checked")
			}
			return nil
		}
		cfg := InputConfig{
			Message:   msg,
			Default:   leaf.Value(),
			Help:      el.GetAttribute("placeholder"),
			Validator: checkerFor(leaf),
		}
		var (
			value string
			err   error
		)
		if typ == "password" {
			value, err = d.Password(ctx, cfg)
		} else {
			value, err = d.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		leaf.SetValue(value)
	case fields.KindTextarea:
		value, err := d.TextArea(ctx, TextAreaConfig{
			Message:   msg,
			Default:   leaf.Value(),
			Help:      el.GetAttribute("placeholder"),
			Validator: checkerFor(leaf),
		})
		if err != nil {
			return err
		}
		leaf.SetValue(value)
	case fields.KindSelect:
		return askSelect(ctx, d, el, msg)
	}
	return nil
}

func askSelect(ctx context.Context, d Driver, el *dom.Element, msg string) error {
	opts := optionElements(el)
	if len(opts) == 0 {
		return nil
	}
	labels := make([]string, len(opts))
	var selected []int
	current := el.Value()
	defaultIndex := 0
	for i, opt := range opts {
		labels[i] = strings.TrimSpace(opt.Text())
		if labels[i] == "" {
			labels[i] = optionValue(opt)
		}
		if opt.HasAttribute("selected") {
			selected = append(selected, i)
		}
		if optionValue(opt) == current {
			defaultIndex = i
		}
	}

	if el.HasAttribute("multiple") {
		picked, err := d.MultiSelect(ctx, SelectConfig{Message: msg, Options: labels, Defaults: selected})
		if err != nil {
			return err
		}
		chosen := make(map[int]struct{}, len(picked))
		for _, idx := range picked {
			chosen[idx] = struct{}{}
		}
		for i, opt := range opts {
			if _, ok := chosen[i]; ok {
				opt.SetAttribute("selected", "")
			} else {
				opt.RemoveAttribute("selected")
			}
		}
		return nil
	}

	idx, err := d.Select(ctx, SelectConfig{Message: msg, Options: labels, DefaultIndex: defaultIndex})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(opts) {
		return nil
	}
	el.SetValue(optionValue(opts[idx]))
	return nil
}

// checkerFor validates a candidate answer with the checks attached to leaf.
// A rejected candidate is left in place until the next answer overwrites it.
func checkerFor(leaf *fields.Field) func(string) error {
	if !leaf.Validatable() {
		return nil
	}
	return func(candidate string) error {
		leaf.SetValue(candidate)
		if res := leaf.Check(); !res.Valid {
			return errors.New(res.Message)
		}
		return nil
	}
}

func message(leaf *fields.Field, labels map[*fields.Field]string) string {
	if text := labels[leaf]; text != "" {
		return text
	}
	if placeholder := leaf.Element().GetAttribute("placeholder"); placeholder != "" {
		return placeholder
	}
	return leaf.Name()
}

func labelTexts(entries []fields.Entry) map[*fields.Field]string {
	out := make(map[*fields.Field]string)
	var walk func([]fields.Entry)
	walk = func(entries []fields.Entry) {
		for _, e := range entries {
			switch v := e.(type) {
			case fields.LabeledLeaf:
				if v.Label != nil && v.Field != nil {
					out[v.Field] = strings.TrimSpace(v.Label.Element().Text())
				}
			case fields.Group:
				walk(v.Entries)
			}
		}
	}
	walk(entries)
	return out
}

func optionElements(sel *dom.Element) []*dom.Element {
	var out []*dom.Element
	for _, child := range sel.Children() {
		switch child.Tag() {
		case "option":
			out = append(out, child)
		case "optgroup":
			out = append(out, optionElements(child)...)
		}
	}
	return out
}

func optionValue(opt *dom.Element) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}
