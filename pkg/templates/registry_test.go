package templates_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

func TestDefaultRegistryCoversBuiltinKinds(t *testing.T) {
	reg := templates.NewDefault()
	want := []fields.Kind{"button", "input", "label", "option", "select", "textarea"}
	if diff := cmp.Diff(want, reg.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestEditSingleKind(t *testing.T) {
	reg := templates.NewDefault()
	if err := reg.Edit(fields.KindInput, attrs.Attributes{"class": "form-control"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := reg.Edit(fields.KindInput, attrs.Attributes{"class": "wide"}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	el, err := reg.Instantiate(dom.NewDocument(), fields.KindInput)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if got := el.GetAttribute("class"); got != "form-control wide" {
		t.Fatalf("class = %q, want merged classes", got)
	}

	if err := reg.Edit("fieldset", attrs.Attributes{"class": "x"}); !errors.Is(err, fields.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestEditAllHonoursFilter(t *testing.T) {
	reg := templates.NewDefault()

	reg.EditAll(attrs.Attributes{"data-ignored": "1"})
	reg.EditAll(attrs.Attributes{"class": "form-control"}, fields.KindInput, fields.KindTextarea, "unknown")

	for _, kind := range fields.Kinds() {
		tpl, _ := reg.Template(kind)
		if _, ok := tpl.Attributes["data-ignored"]; ok {
			t.Fatalf("empty filter must not edit %s", kind)
		}
		edited := kind == fields.KindInput || kind == fields.KindTextarea
		if got := tpl.Attributes["class"] == "form-control"; got != edited {
			t.Fatalf("%s edited = %v, want %v", kind, got, edited)
		}
	}
}

func TestCloneIsolatesEdits(t *testing.T) {
	base := templates.NewDefault()
	clone := base.Clone()
	if err := clone.Edit(fields.KindButton, attrs.Attributes{"class": "btn"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	tpl, _ := base.Template(fields.KindButton)
	if len(tpl.Attributes) != 0 {
		t.Fatalf("base registry mutated: %v", tpl.Attributes)
	}
}

func TestInstantiateUnknownKind(t *testing.T) {
	_, err := templates.New().Instantiate(dom.NewDocument(), fields.KindInput)
	if !errors.Is(err, fields.ErrUnknownKind) || !errors.Is(err, fields.ErrUsage) {
		t.Fatalf("expected unknown kind usage error, got %v", err)
	}
}
