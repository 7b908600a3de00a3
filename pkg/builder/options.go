package builder

import (
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// Option configures a Builder.
type Option func(*options)

type options struct {
	doc       *dom.Document
	overrides []config.Map
	values    render.Values
	clock     clockwork.Clock
	logger    logrus.FieldLogger
	templates *templates.Registry
	hidden    []form.HiddenField
	mount     string
	override  bool
}

// WithDocument renders into doc instead of a blank page.
func WithDocument(doc *dom.Document) Option {
	return func(o *options) {
		if doc != nil {
			o.doc = doc
		}
	}
}

// WithConfig layers overrides on top of the defaults. Repeated calls stack in
// order.
func WithConfig(overrides config.Map) Option {
	return func(o *options) {
		if len(overrides) > 0 {
			o.overrides = append(o.overrides, overrides)
		}
	}
}

// WithValues supplies the prefill values consulted at render time.
func WithValues(values render.Values) Option {
	return func(o *options) {
		o.values = values
	}
}

// WithClock replaces the clock used by the afterwriting debounce.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger routes debug records to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTemplates shares a template registry instead of a private copy of the
// defaults.
func WithTemplates(reg *templates.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.templates = reg
		}
	}
}

// WithHidden appends hidden fields to every rendered form.
func WithHidden(hidden ...form.HiddenField) Option {
	return func(o *options) {
		o.hidden = append(o.hidden, hidden...)
	}
}

// WithMount sets the mount selector. It is resolved on New.
func WithMount(selector string) Option {
	return func(o *options) {
		o.mount = selector
	}
}

// WithMethodOverride submits PUT, PATCH and DELETE forms as POST with the
// verb carried in a hidden _method field.
func WithMethodOverride() Option {
	return func(o *options) {
		o.override = true
	}
}
