// Package formbuilder re-exports the builder API and adds one-call helpers
// for rendering declarative form documents.
package formbuilder

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/declare"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type (
	// Builder aliases builder.Builder.
	Builder = builder.Builder
	// Option aliases builder.Option.
	Option = builder.Option
	// Declaration aliases builder.Declaration.
	Declaration = builder.Declaration
	Name        = builder.Name
	Attrs       = builder.Attrs
	Props       = builder.Props
	Choice      = builder.Choice

	Form   = form.Form
	Value  = form.Value
	Report = validation.Report
	Values = render.Values

	// Document aliases declare.Document for callers loading forms from
	// YAML or JSON.
	Document = declare.Document
)

// New exposes the builder constructor from the top-level module.
func New(options ...Option) (*Builder, error) {
	return builder.New(options...)
}

// MustNew panics when the builder cannot be created.
func MustNew(options ...Option) *Builder {
	return builder.MustNew(options...)
}

// Page is a parsed host page and the mount selector forms attach to.
type Page struct {
	Markup string
	Mount  string
}

func (p Page) resolve() (*dom.Document, string, error) {
	markup, mount := p.Markup, p.Mount
	if markup == "" {
		markup = DefaultPage()
	}
	if mount == "" {
		mount = DefaultMount
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, "", fmt.Errorf("formbuilder: %w", err)
	}
	return doc, mount, nil
}

// RenderDocument builds d on page and renders it once. It returns the
// serialised page together with the live form.
func RenderDocument(d Document, page Page, options ...Option) (string, *Form, error) {
	doc, mount, err := page.resolve()
	if err != nil {
		return "", nil, err
	}
	base := []Option{builder.WithDocument(doc), builder.WithMount(mount)}
	b, err := declare.Build(d, append(base, options...)...)
	if err != nil {
		return "", nil, err
	}
	f, err := b.Render()
	if err != nil {
		return "", nil, err
	}
	out, err := doc.HTML()
	if err != nil {
		return "", nil, err
	}
	return out, f, nil
}

// RenderFile loads a form document from path and renders it on page.
func RenderFile(path string, page Page, options ...Option) (string, *Form, error) {
	d, err := declare.LoadFile(path)
	if err != nil {
		return "", nil, err
	}
	return RenderDocument(d, page, options...)
}

// RenderFS loads a form document from fsys and renders it on page. Pass
// AssetsFS() to render the bundled samples.
func RenderFS(fsys fs.FS, path string, page Page, options ...Option) (string, *Form, error) {
	d, err := declare.LoadFS(fsys, path)
	if err != nil {
		return "", nil, err
	}
	return RenderDocument(d, page, options...)
}
