// Package testsupport holds helpers shared by package tests: page fixtures,
// builders mounted on them, XPath assertions and golden files.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/form"
)

// Page is a minimal document with a single mount point.
const Page = `<html><body><main id="app"></main></body></html>`

// MountSelector matches the mount point of Page.
const MountSelector = "#app"

// MustPage parses markup, failing the test on error. An empty markup yields
// Page.
func MustPage(t *testing.T, markup string) *dom.Document {
	t.Helper()
	if markup == "" {
		markup = Page
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

// MustBuilder returns a builder mounted on a fresh Page. Extra options are
// applied after the document and mount.
func MustBuilder(t *testing.T, opts ...builder.Option) *builder.Builder {
	t.Helper()
	base := []builder.Option{builder.WithDocument(MustPage(t, "")), builder.WithMount(MountSelector)}
	b, err := builder.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return b
}

// MustRender renders b and fails the test on any latched or render error.
func MustRender(t *testing.T, b *builder.Builder) *form.Form {
	t.Helper()
	f, err := b.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return f
}

// MustOuterHTML serialises el.
func MustOuterHTML(t *testing.T, el *dom.Element) string {
	t.Helper()
	markup, err := el.OuterHTML()
	if err != nil {
		t.Fatalf("outer html: %v", err)
	}
	return markup
}

// XPathCount returns how many nodes of doc match expr.
func XPathCount(t *testing.T, doc *dom.Document, expr string) int {
	t.Helper()
	nodes, err := htmlquery.QueryAll(doc.Root(), expr)
	if err != nil {
		t.Fatalf("xpath %q: %v", expr, err)
	}
	return len(nodes)
}

// XPathAttr returns the attribute of the first node matching expr, failing
// when nothing matches.
func XPathAttr(t *testing.T, doc *dom.Document, expr, attr string) string {
	t.Helper()
	node, err := htmlquery.Query(doc.Root(), expr)
	if err != nil {
		t.Fatalf("xpath %q: %v", expr, err)
	}
	if node == nil {
		t.Fatalf("xpath %q: no match", expr)
	}
	return htmlquery.SelectAttr(node, attr)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// AssertGolden compares got with the golden file at path, ignoring a trailing
// newline. With UPDATE_GOLDENS set it rewrites the file instead.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got+"\n")) {
		return
	}
	want := strings.TrimSuffix(MustReadGoldenString(t, path), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
