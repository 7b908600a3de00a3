package fields

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/attrs"
	"github.com/goliatone/go-formbuilder/pkg/dom"
)

// CheckResult is the outcome of a single field check. Message is empty for
// passing checks.
type CheckResult struct {
	Valid   bool
	Message string
}

// Checker inspects the live state of a field.
type Checker interface {
	Check(f *Field) CheckResult
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(f *Field) CheckResult

// Check implements Checker.
func (fn CheckerFunc) Check(f *Field) CheckResult {
	return fn(f)
}

// Validatable is implemented by fields that carry a check.
type Validatable interface {
	Check() CheckResult
}

// Field is a constructed form control backed by a DOM element.
type Field struct {
	kind     Kind
	el       *dom.Element
	checker  Checker
	children []*Field
}

// New wraps el as a field of kind.
func New(kind Kind, el *dom.Element) *Field {
	return &Field{kind: kind, el: el}
}

// Kind returns the field kind.
func (f *Field) Kind() Kind {
	return f.kind
}

// Element returns the backing element.
func (f *Field) Element() *dom.Element {
	return f.el
}

// Name returns the name attribute.
func (f *Field) Name() string {
	if f == nil || f.el == nil {
		return ""
	}
	return f.el.GetAttribute("name")
}

// ID returns the id attribute.
func (f *Field) ID() string {
	return f.el.ID()
}

// SetID assigns the id attribute.
func (f *Field) SetID(id string) {
	f.el.SetID(id)
}

// Value returns the live value of the control.
func (f *Field) Value() string {
	return f.el.Value()
}

// SetValue updates the live value of the control.
func (f *Field) SetValue(value string) {
	f.el.SetValue(value)
}

// Apply writes attribute declarations onto the field.
func (f *Field) Apply(a attrs.Attributes) error {
	if err := attrs.Apply(f.el, a); err != nil {
		return fmt.Errorf("fields: apply %s: %w", f.kind, err)
	}
	return nil
}

// AppendChildren nests pre-built fields (options under a select).
func (f *Field) AppendChildren(children ...*Field) error {
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := f.el.AppendChild(child.el); err != nil {
			return fmt.Errorf("fields: append %s to %s: %w", child.kind, f.kind, err)
		}
		f.children = append(f.children, child)
	}
	return nil
}

// Children returns the nested fields in insertion order.
func (f *Field) Children() []*Field {
	out := make([]*Field, len(f.children))
	copy(out, f.children)
	return out
}

// AttachChecker sets the validation capability.
func (f *Field) AttachChecker(c Checker) {
	f.checker = c
}

// Validatable reports whether the field takes part in validation. Buttons
// never do.
func (f *Field) Validatable() bool {
	return f != nil && f.checker != nil && f.kind != KindButton
}

// Check runs the attached checker. Fields without one are valid.
func (f *Field) Check() CheckResult {
	if !f.Validatable() {
		return CheckResult{Valid: true}
	}
	return f.checker.Check(f)
}

// Clone deep-copies the field and its element tree, listeners included. The
// checker is shared. Nested fields are re-bound to the cloned children.
func (f *Field) Clone() *Field {
	el := f.el.CloneTree()
	clone := &Field{kind: f.kind, el: el, checker: f.checker}
	if len(f.children) == 0 {
		return clone
	}
	byPosition := el.Children()
	original := f.el.Children()
	for _, child := range f.children {
		for i, candidate := range original {
			if candidate == child.el && i < len(byPosition) {
				clone.children = append(clone.children, &Field{
					kind:    child.kind,
					el:      byPosition[i],
					checker: child.checker,
				})
				break
			}
		}
	}
	return clone
}

var _ Validatable = (*Field)(nil)
