package fields_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

func newField(doc *dom.Document, kind fields.Kind, name string) *fields.Field {
	el := doc.CreateElement(string(kind))
	if name != "" {
		el.SetAttribute("name", name)
	}
	return fields.New(kind, el)
}

func names(entries []fields.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		switch v := e.(type) {
		case fields.Leaf:
			out = append(out, "leaf:"+v.Field.Name())
		case fields.LabeledLeaf:
			out = append(out, "pair:"+v.Field.Name())
		case fields.Group:
			out = append(out, "group:"+v.Named().Name())
		}
	}
	return out
}

func TestRegistryPreservesOrderAndReplacesLabelSlot(t *testing.T) {
	doc := dom.NewDocument()
	reg := fields.NewRegistry()

	first := newField(doc, fields.KindInput, "first")
	email := newField(doc, fields.KindInput, "email")
	last := newField(doc, fields.KindTextarea, "last")
	reg.Append(first)
	reg.Append(email)
	reg.Append(last)

	before, ok := reg.IndexOf("email")
	if !ok {
		t.Fatalf("email not found")
	}

	label := newField(doc, fields.KindLabel, "")
	if err := reg.InsertLabelBefore(label, email); err != nil {
		t.Fatalf("insert label: %v", err)
	}

	after, ok := reg.IndexOf("email")
	if !ok || after != before {
		t.Fatalf("label pair moved: before=%d after=%d", before, after)
	}
	if reg.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reg.Len())
	}

	want := []string{"leaf:first", "pair:email", "leaf:last"}
	if diff := cmp.Diff(want, names(reg.Entries())); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	pair := reg.Entries()[after].(fields.LabeledLeaf)
	if pair.Label != label || pair.Field != email {
		t.Fatalf("pair does not hold the label and field")
	}
}

func TestInsertLabelBeforeUnknownField(t *testing.T) {
	doc := dom.NewDocument()
	reg := fields.NewRegistry()
	stray := newField(doc, fields.KindInput, "stray")

	err := reg.InsertLabelBefore(newField(doc, fields.KindLabel, ""), stray)
	if !errors.Is(err, fields.ErrFieldNotFound) || !errors.Is(err, fields.ErrUsage) {
		t.Fatalf("expected ErrFieldNotFound usage error, got %v", err)
	}
}

func TestIndexOfResolvesGroupsAndDuplicates(t *testing.T) {
	doc := dom.NewDocument()
	reg := fields.NewRegistry()

	reg.Append(newField(doc, fields.KindButton, ""))
	reg.AppendGroup(
		fields.LabeledLeaf{Label: newField(doc, fields.KindLabel, ""), Field: newField(doc, fields.KindInput, "street")},
		fields.Leaf{Field: newField(doc, fields.KindInput, "city")},
	)
	reg.Append(newField(doc, fields.KindInput, "dup"))
	reg.Append(newField(doc, fields.KindInput, "dup"))

	tests := []struct {
		name  string
		index int
		found bool
	}{
		{name: "street", index: 1, found: true},
		{name: "city", found: false},
		{name: "dup", index: 2, found: true},
		{name: "missing", found: false},
		{name: "", found: false},
	}
	for _, tt := range tests {
		idx, ok := reg.IndexOf(tt.name)
		if ok != tt.found || (ok && idx != tt.index) {
			t.Fatalf("IndexOf(%q) = %d, %v; want %d, %v", tt.name, idx, ok, tt.index, tt.found)
		}
	}

	city, ok := reg.Lookup("city")
	if !ok || city.Name() != "city" {
		t.Fatalf("Lookup should search inside groups")
	}
	street, ok := reg.Resolve("street")
	if !ok || street.Name() != "street" {
		t.Fatalf("Resolve should return the group's first named member")
	}
}

func TestLeavesSkipLabelsAndNilEntries(t *testing.T) {
	doc := dom.NewDocument()
	reg := fields.NewRegistry()

	reg.Append(newField(doc, fields.KindInput, "a"))
	reg.AppendGroup(nil, fields.LabeledLeaf{
		Label: newField(doc, fields.KindLabel, ""),
		Field: newField(doc, fields.KindSelect, "b"),
	})
	reg.Append(newField(doc, fields.KindButton, ""))

	var got []string
	for _, f := range reg.Leaves() {
		got = append(got, string(f.Kind())+":"+f.Name())
	}
	want := []string{"input:a", "select:b", "button:"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldCheckSkipsButtons(t *testing.T) {
	doc := dom.NewDocument()
	failing := fields.CheckerFunc(func(*fields.Field) fields.CheckResult {
		return fields.CheckResult{Message: "nope"}
	})

	input := newField(doc, fields.KindInput, "x")
	input.AttachChecker(failing)
	if input.Check().Valid {
		t.Fatalf("expected attached checker to run")
	}

	button := newField(doc, fields.KindButton, "go")
	button.AttachChecker(failing)
	if button.Validatable() || !button.Check().Valid {
		t.Fatalf("buttons must never be validated")
	}
}

func TestFieldCloneRebindsChildren(t *testing.T) {
	doc := dom.NewDocument()
	sel := newField(doc, fields.KindSelect, "color")
	red := newField(doc, fields.KindOption, "")
	red.Element().SetAttribute("value", "r")
	if err := sel.AppendChildren(red); err != nil {
		t.Fatalf("append children: %v", err)
	}

	clone := sel.Clone()
	if clone.Element() == sel.Element() {
		t.Fatalf("clone must own a new element")
	}
	kids := clone.Children()
	if len(kids) != 1 || kids[0].Element() == red.Element() || kids[0].Element().GetAttribute("value") != "r" {
		t.Fatalf("clone children not rebound: %+v", kids)
	}
}

func TestErrorCategories(t *testing.T) {
	configErrs := []error{fields.ErrNoMount, fields.ErrMountNotFound}
	usageErrs := []error{fields.ErrUnknownEvent, fields.ErrUnknownKind, fields.ErrFieldNotFound, fields.ErrOptionNotFound}

	for _, err := range configErrs {
		if !errors.Is(err, fields.ErrConfiguration) || errors.Is(err, fields.ErrUsage) {
			t.Fatalf("%v should be a configuration error", err)
		}
	}
	for _, err := range usageErrs {
		if !errors.Is(err, fields.ErrUsage) || errors.Is(err, fields.ErrConfiguration) {
			t.Fatalf("%v should be a usage error", err)
		}
	}
}
