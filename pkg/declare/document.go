// Package declare reads declarative form documents (JSON or YAML) and
// applies them through the builder.
package declare

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Document is a declarative form.
type Document struct {
	Config map[string]any    `json:"config" yaml:"config"`
	Values map[string]any    `json:"values" yaml:"values"`
	Hidden map[string]string `json:"hidden" yaml:"hidden"`
	Submit SubmitConfig      `json:"submit" yaml:"submit"`
	Fields []FieldSpec       `json:"fields" yaml:"fields"`
}

// SubmitConfig controls the submit handshake.
type SubmitConfig struct {
	PreventDefault bool `json:"preventDefault" yaml:"preventDefault"`
	MethodOverride bool `json:"methodOverride" yaml:"methodOverride"`
}

// FieldSpec declares one registry entry.
type FieldSpec struct {
	Kind       string            `json:"kind" yaml:"kind"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Label      string            `json:"label,omitempty" yaml:"label,omitempty"`
	Title      string            `json:"title,omitempty" yaml:"title,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Options    []OptionSpec      `json:"options,omitempty" yaml:"options,omitempty"`
	Selected   []string          `json:"selected,omitempty" yaml:"selected,omitempty"`
	Fields     []FieldSpec       `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// OptionSpec declares one select option.
type OptionSpec struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Parse decodes data as JSON, falling back to YAML. source names the input
// in errors.
func Parse(data []byte, source string) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("declare: %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("declare: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("declare: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses the document at path inside fsys.
func LoadFS(fsys fs.FS, path string) (Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("declare: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Options translates the document level settings into builder options.
func (d Document) Options() []builder.Option {
	var opts []builder.Option
	if d.Submit.MethodOverride {
		opts = append(opts, builder.WithMethodOverride())
	}
	if len(d.Config) > 0 {
		opts = append(opts, builder.WithConfig(config.Map(d.Config)))
	}
	if len(d.Values) > 0 {
		opts = append(opts, builder.WithValues(render.Values(d.Values)))
	}
	if len(d.Hidden) > 0 {
		names := make([]string, 0, len(d.Hidden))
		for name := range d.Hidden {
			names = append(names, name)
		}
		sort.Strings(names)
		hidden := make([]form.HiddenField, 0, len(names))
		for _, name := range names {
			hidden = append(hidden, form.Hidden(name, d.Hidden[name]))
		}
		opts = append(opts, builder.WithHidden(hidden...))
	}
	return opts
}

// Build creates a builder from the document settings plus opts and applies
// the field list. Later options win over document settings.
func Build(d Document, opts ...builder.Option) (*builder.Builder, error) {
	b, err := builder.New(append(d.Options(), opts...)...)
	if err != nil {
		return nil, err
	}
	if err := Apply(b, d.Fields); err != nil {
		return nil, err
	}
	b.SetOnSubmit(nil, d.Submit.PreventDefault)
	return b, nil
}
