package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func field(doc *dom.Document, kind fields.Kind, name string, attributes map[string]string) *fields.Field {
	el := doc.CreateElement(string(kind))
	el.SetAttribute("name", name)
	for k, v := range attributes {
		el.SetAttribute(k, v)
	}
	f := fields.New(kind, el)
	validation.Attach(f)
	return f
}

func TestPatternChecks(t *testing.T) {
	doc := dom.NewDocument()

	tests := []struct {
		pattern string
		value   string
		valid   bool
		message string
	}{
		{pattern: "^.+@.+$", value: "a@b", valid: true},
		{pattern: "^.+@.+$", value: "bad", message: "pattern mismatch: expected /^.+@.+$/"},
		{pattern: "[a-z]+", value: "abc1", message: "pattern mismatch: expected /[a-z]+/"},
		{pattern: `\d{3}`, value: "123", valid: true},
		{pattern: "a|b", value: "ab", message: "pattern mismatch: expected /a|b/"},
		{pattern: "(", value: "x", message: "invalid pattern /(/"},
	}

	for _, tt := range tests {
		f := field(doc, fields.KindInput, "x", map[string]string{"pattern": tt.pattern})
		f.SetValue(tt.value)
		got := f.Check()
		if got.Valid != tt.valid {
			t.Fatalf("pattern %q value %q: valid = %v, want %v", tt.pattern, tt.value, got.Valid, tt.valid)
		}
		if !strings.HasPrefix(got.Message, tt.message) {
			t.Fatalf("pattern %q value %q: message = %q, want prefix %q", tt.pattern, tt.value, got.Message, tt.message)
		}
	}
}

func TestAbsentConstraintsAreValid(t *testing.T) {
	doc := dom.NewDocument()
	input := field(doc, fields.KindInput, "free", nil)
	area := field(doc, fields.KindTextarea, "notes", nil)
	sel := field(doc, fields.KindSelect, "color", nil)

	report := validation.Validate([]*fields.Field{input, area, sel})
	if !report.Valid || len(report.Errors) != 0 {
		t.Fatalf("expected valid report, got %+v", report)
	}
}

func TestRequiredAndLength(t *testing.T) {
	doc := dom.NewDocument()

	required := field(doc, fields.KindTextarea, "bio", map[string]string{"required": ""})
	short := field(doc, fields.KindInput, "nick", map[string]string{"minlength": "3"})
	short.SetValue("ab")
	long := field(doc, fields.KindInput, "code", map[string]string{"maxlength": "2"})
	long.SetValue("abc")
	emptyOptional := field(doc, fields.KindInput, "opt", map[string]string{"minlength": "3"})

	sel := field(doc, fields.KindSelect, "size", map[string]string{"required": ""})
	if err := sel.Element().SetInnerHTML(`<option value="">Pick</option><option value="m">M</option>`); err != nil {
		t.Fatalf("inner html: %v", err)
	}

	report := validation.Validate([]*fields.Field{required, short, long, emptyOptional, sel})
	if report.Valid {
		t.Fatalf("expected invalid report")
	}

	got := report.Messages()
	want := map[string][]string{
		"bio":  {"value is required"},
		"nick": {"value must be at least 3 characters"},
		"code": {"value must be at most 2 characters"},
		"size": {"value is required"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	sel.SetValue("m")
	if !sel.Check().Valid {
		t.Fatalf("select with a value should pass required")
	}
}

func TestButtonsAndUncheckedFieldsAreSkipped(t *testing.T) {
	doc := dom.NewDocument()
	button := field(doc, fields.KindButton, "go", map[string]string{"required": ""})
	plain := fields.New(fields.KindInput, doc.CreateElement("input"))
	plain.Element().SetAttribute("pattern", "x")

	if _, ok := validation.CheckerFor(fields.KindButton); ok {
		t.Fatalf("buttons must not have a checker")
	}
	report := validation.Validate([]*fields.Field{button, plain})
	if !report.Valid {
		t.Fatalf("expected skipped fields to leave the report valid, got %+v", report)
	}
}

func TestReportPreservesOrder(t *testing.T) {
	doc := dom.NewDocument()
	a := field(doc, fields.KindInput, "a", map[string]string{"required": ""})
	b := field(doc, fields.KindInput, "b", nil)
	c := field(doc, fields.KindInput, "c", map[string]string{"pattern": "z"})

	report := validation.Validate([]*fields.Field{a, b, c})
	var got []string
	for _, fe := range report.Errors {
		got = append(got, fe.Name)
		if fe.Field == nil {
			t.Fatalf("field reference missing for %s", fe.Name)
		}
	}
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Fatalf("error order mismatch (-want +got):\n%s", diff)
	}
}
