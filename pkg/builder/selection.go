package builder

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/events"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// Selection is the cursor returned by the field constructors. It holds the
// owning builder and the field just created. Once a step fails, later steps
// are skipped and the error stays available through Err.
type Selection struct {
	b     *Builder
	field *fields.Field
	err   error
}

// Field returns the selected field, or nil when creation failed.
func (s *Selection) Field() *fields.Field {
	return s.field
}

// Element returns the element of the selected field.
func (s *Selection) Element() *dom.Element {
	if s.field == nil {
		return nil
	}
	return s.field.Element()
}

// Err returns the first error of the chain.
func (s *Selection) Err() error {
	return s.err
}

// LabelIt synthesises an id for the field and pairs it with a label showing
// text.
func (s *Selection) LabelIt(text string) *Selection {
	if s.err != nil {
		return s
	}
	if _, err := s.b.label(text, s.field, true); err != nil {
		s.err = err
	}
	return s
}

// On binds cb to the event kind on the field.
func (s *Selection) On(kind string, cb events.Callback) *Selection {
	if s.err != nil {
		return s
	}
	if err := s.b.binder.Bind(s.field.Element(), kind, cb); err != nil {
		s.err = s.b.latch(fmt.Errorf("builder: %s on %s %q: %w", kind, s.field.Kind(), s.field.Name(), err))
	}
	return s
}
