package builder

import (
	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// Declaration configures a field at creation or update time. The set is
// closed: Name, Attrs and Props.
type Declaration interface {
	apply(f *fields.Field) error
	with(extra attrs.Attributes) Declaration
}

// Name sets the name attribute only.
type Name string

// Attrs applies every pair through attrs.Apply.
type Attrs attrs.Attributes

// Props applies Attrs and appends pre-built Children, such as the options of
// a select.
type Props struct {
	Attrs    attrs.Attributes
	Children []*fields.Field
}

func (n Name) apply(f *fields.Field) error {
	if n == "" {
		return nil
	}
	return f.Apply(attrs.Attributes{"name": string(n)})
}

func (n Name) with(extra attrs.Attributes) Declaration {
	out := extra.Clone()
	if out == nil {
		out = attrs.Attributes{}
	}
	if n != "" {
		out["name"] = string(n)
	}
	return Attrs(out)
}

func (a Attrs) apply(f *fields.Field) error {
	return f.Apply(attrs.Attributes(a))
}

func (a Attrs) with(extra attrs.Attributes) Declaration {
	return Attrs(overlay(attrs.Attributes(a), extra))
}

func (p Props) apply(f *fields.Field) error {
	if err := f.Apply(p.Attrs); err != nil {
		return err
	}
	return f.AppendChildren(p.Children...)
}

func (p Props) with(extra attrs.Attributes) Declaration {
	return Props{
		Attrs:    overlay(p.Attrs, extra),
		Children: append([]*fields.Field(nil), p.Children...),
	}
}

// overlay copies base and replaces keys with extra without class merging.
func overlay(base, extra attrs.Attributes) attrs.Attributes {
	out := base.Clone()
	if out == nil {
		out = make(attrs.Attributes, len(extra))
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func withChildren(decl Declaration, children []*fields.Field) Declaration {
	switch d := decl.(type) {
	case nil:
		return Props{Children: children}
	case Name:
		return Props{Attrs: d.with(nil).(Attrs).toMap(), Children: children}
	case Attrs:
		return Props{Attrs: attrs.Attributes(d).Clone(), Children: children}
	case Props:
		return Props{
			Attrs:    d.Attrs.Clone(),
			Children: append(append([]*fields.Field(nil), d.Children...), children...),
		}
	default:
		return decl
	}
}

func withAttrs(decl Declaration, extra attrs.Attributes) Declaration {
	if decl == nil {
		return Attrs(extra.Clone())
	}
	return decl.with(extra)
}

func (a Attrs) toMap() attrs.Attributes {
	return attrs.Attributes(a).Clone()
}
