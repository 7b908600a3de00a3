package declare

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// KindGroup declares a nested group.
const KindGroup = "group"

// Apply creates every spec through b in order.
func Apply(b *builder.Builder, specs []FieldSpec) error {
	for i, spec := range specs {
		if err := applyOne(b, spec); err != nil {
			return fmt.Errorf("declare: field %d (%s %q): %w", i, spec.Kind, spec.Name, err)
		}
	}
	return nil
}

func applyOne(b *builder.Builder, spec FieldSpec) error {
	kind := strings.ToLower(strings.TrimSpace(spec.Kind))
	if kind == KindGroup {
		if spec.Label != "" {
			return fmt.Errorf("%w: groups take no label", fields.ErrUsage)
		}
		return b.Group(func(g *builder.Builder) error {
			return Apply(g, spec.Fields)
		})
	}

	decl := declaration(spec)
	var sel *builder.Selection
	switch fields.Kind(kind) {
	case fields.KindInput:
		typ := spec.Type
		if typ == "" {
			typ = "text"
		}
		sel = b.Input(typ, decl)
	case fields.KindTextarea:
		sel = b.Textarea(decl)
	case fields.KindSelect:
		choices := make([]builder.Choice, 0, len(spec.Options))
		for _, opt := range spec.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			choices = append(choices, builder.Choice{Value: opt.Value, Label: label})
		}
		sel = b.Select(decl, choices...)
	case fields.KindButton:
		title := spec.Title
		if title == "" {
			title = spec.Label
		}
		return b.Button(title, decl).Err()
	default:
		return fmt.Errorf("%q: %w", spec.Kind, fields.ErrUnknownKind)
	}

	if spec.Label != "" {
		sel = sel.LabelIt(spec.Label)
	}
	if err := sel.Err(); err != nil {
		return err
	}
	if len(spec.Selected) > 0 {
		if spec.Name == "" {
			return fmt.Errorf("%w: selected values need a named select", fields.ErrUsage)
		}
		if err := b.SelectValue(spec.Name, spec.Selected...); err != nil {
			return err
		}
	}
	return nil
}

func declaration(spec FieldSpec) builder.Declaration {
	out := make(builder.Attrs, len(spec.Attributes)+1)
	for k, v := range spec.Attributes {
		out[k] = v
	}
	if spec.Name != "" {
		out["name"] = spec.Name
	}
	return out
}
