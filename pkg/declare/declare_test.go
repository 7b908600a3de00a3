package declare_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/declare"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

const signupYAML = `
config:
  timeAfterWriting: 300
  form:
    action: /signup
values:
  email: someone@example.com
hidden:
  _csrf: tok
submit:
  preventDefault: true
fields:
  - kind: input
    type: email
    name: email
    label: Email
    attributes:
      pattern: "^.+@.+$"
      required: ""
  - kind: select
    name: plan
    label: Plan
    options:
      - value: free
        label: Free
      - value: pro
        label: Pro
    selected: [pro]
  - kind: group
    fields:
      - kind: input
        name: street
      - kind: textarea
        name: notes
  - kind: button
    title: Sign up
`

func TestParseYAMLAndJSON(t *testing.T) {
	fromYAML, err := declare.Parse([]byte(signupYAML), "signup.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if len(fromYAML.Fields) != 4 || fromYAML.Fields[2].Kind != "group" || len(fromYAML.Fields[2].Fields) != 2 {
		t.Fatalf("unexpected fields %+v", fromYAML.Fields)
	}

	fromJSON, err := declare.Parse([]byte(`{"fields":[{"kind":"textarea","name":"bio"}]}`), "bio.json")
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	want := []declare.FieldSpec{{Kind: "textarea", Name: "bio"}}
	if diff := cmp.Diff(want, fromJSON.Fields); diff != "" {
		t.Fatalf("json fields mismatch (-want +got):\n%s", diff)
	}

	if _, err := declare.Parse([]byte("  "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := declare.Parse([]byte("fields: [unclosed"), "bad.yaml"); err == nil {
		t.Fatalf("expected error for invalid document")
	}
}

func TestBuildAndRender(t *testing.T) {
	fsys := fstest.MapFS{"forms/signup.yaml": &fstest.MapFile{Data: []byte(signupYAML)}}
	doc, err := declare.LoadFS(fsys, "forms/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	page, err := dom.ParseString(`<html><body><div id="app"></div></body></html>`)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	b, err := declare.Build(doc, builder.WithDocument(page), builder.WithMount("#app"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if b.Config().TimeAfterWriting != 300 || b.Config().Form["action"] != "/signup" {
		t.Fatalf("document config not applied: %+v", b.Config())
	}

	f, err := b.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got []string
	for _, leaf := range f.Registry().Leaves() {
		got = append(got, string(leaf.Kind())+":"+leaf.Name()+"="+leaf.Value())
	}
	want := []string{
		"input:email=someone@example.com",
		"select:plan=pro",
		"input:street=",
		"textarea:notes=",
		"button:=",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered leaves mismatch (-want +got):\n%s", diff)
	}

	hidden, err := page.QuerySelector(`form input[name="_csrf"]`)
	if err != nil || hidden == nil || hidden.GetAttribute("value") != "tok" {
		t.Fatalf("hidden field missing: %v %v", hidden, err)
	}
	if f.Submit() {
		t.Fatalf("document asked for preventDefault")
	}
	if report, ok := f.Report(); !ok || !report.Valid {
		t.Fatalf("expected a valid report, got %+v", report)
	}
}

func TestApplyRejectsUnknownKinds(t *testing.T) {
	b := builder.MustNew()
	err := declare.Apply(b, []declare.FieldSpec{{Kind: "fieldset", Name: "x"}})
	if !errors.Is(err, fields.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	err = declare.Apply(b, []declare.FieldSpec{{Kind: "select", Name: "s", Options: []declare.OptionSpec{{Value: "a"}}, Selected: []string{"z"}}})
	if !errors.Is(err, fields.ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
}
