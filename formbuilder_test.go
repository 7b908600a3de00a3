package formbuilder_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/declare"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestRenderBundledContactForm(t *testing.T) {
	out, f, err := formbuilder.RenderFS(formbuilder.AssetsFS(), "forms/contact.yaml", formbuilder.Page{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<form action="/contact"`) {
		t.Fatalf("expected the form container in output, got %s", out)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "contact_form.golden"), testsupport.MustOuterHTML(t, f.Element()))

	doc := f.Element().Document()
	if got := testsupport.XPathCount(t, doc, "//main[@id='app']/form"); got != 1 {
		t.Fatalf("expected one form under the mount, got %d", got)
	}
	if got := testsupport.XPathCount(t, doc, "//form//label"); got != 4 {
		t.Fatalf("expected four labels, got %d", got)
	}
	for _, name := range []string{"name", "email", "topic", "message"} {
		id := testsupport.XPathAttr(t, doc, "//*[@name='"+name+"']", "id")
		if id == "" {
			t.Fatalf("field %s has no id", name)
		}
		if got := testsupport.XPathCount(t, doc, "//label[@for='"+id+"']"); got != 1 {
			t.Fatalf("expected one label for %s, got %d", id, got)
		}
	}
}

func TestRenderDocumentSubmitReport(t *testing.T) {
	d, err := formbuilderDocument()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, f, err := formbuilder.RenderDocument(d, formbuilder.Page{
		Markup: `<html><body><section class="slot"></section></body></html>`,
		Mount:  "section.slot",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, leaf := range f.Registry().Leaves() {
		if leaf.Name() == "email" {
			leaf.SetValue("not-an-email")
		}
	}
	if ok := f.Submit(); ok {
		t.Fatalf("expected the default action to be prevented")
	}
	report, present := f.Report()
	if !present || report.Valid {
		t.Fatalf("expected a failing report, got %+v (present=%v)", report, present)
	}
	want := map[string][]string{"email": {"pattern mismatch: expected /^.+@.+$/"}}
	if diff := cmp.Diff(want, report.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPageHasMount(t *testing.T) {
	doc := testsupport.MustPage(t, formbuilder.DefaultPage())
	el, err := doc.QuerySelector(formbuilder.DefaultMount)
	if err != nil || el == nil {
		t.Fatalf("expected the default mount in the bundled page, got %v, %v", el, err)
	}
}

func formbuilderDocument() (formbuilder.Document, error) {
	return declare.Parse([]byte(`{
  "submit": {"preventDefault": true},
  "fields": [
    {"kind": "input", "type": "email", "name": "email", "attributes": {"pattern": "^.+@.+$"}}
  ]
}`), "inline.json")
}
