// Package validation runs the checks attached to fields and aggregates them
// into a Report. Failures are data, never errors.
package validation

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// FieldError describes one failing field.
type FieldError struct {
	Field   *fields.Field `json:"-"`
	Name    string        `json:"name,omitempty"`
	Message string        `json:"message"`
}

// Report aggregates the outcome of a validation pass.
type Report struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Messages groups failure messages by field name. Unnamed fields are keyed
// by "". Messages are trimmed and de-duplicated per name.
func (r Report) Messages() map[string][]string {
	if len(r.Errors) == 0 {
		return nil
	}
	grouped := make(map[string][]string)
	for _, fe := range r.Errors {
		grouped[fe.Name] = append(grouped[fe.Name], fe.Message)
	}
	for name, messages := range grouped {
		if normalized := normalizeMessages(messages); normalized != nil {
			grouped[name] = normalized
		} else {
			delete(grouped, name)
		}
	}
	if len(grouped) == 0 {
		return nil
	}
	return grouped
}

// Option customises a Validator.
type Option func(*Validator)

// WithLogger routes debug records about failing fields to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator checks fields carrying a validation capability.
type Validator struct {
	logger logrus.FieldLogger
}

// New constructs a Validator.
func New(opts ...Option) *Validator {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	v := &Validator{logger: discard}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate checks every validatable field in order. Buttons and fields
// without a capability are skipped.
func (v *Validator) Validate(leaves []*fields.Field) Report {
	report := Report{Valid: true}
	for _, f := range leaves {
		if !f.Validatable() {
			continue
		}
		result := f.Check()
		if result.Valid {
			continue
		}
		report.Valid = false
		report.Errors = append(report.Errors, FieldError{
			Field:   f,
			Name:    f.Name(),
			Message: result.Message,
		})
		v.logger.WithFields(logrus.Fields{
			"field": f.Name(),
			"kind":  f.Kind(),
		}).Debug(result.Message)
	}
	return report
}

// ValidateRegistry validates the leaves of r.
func (v *Validator) ValidateRegistry(r *fields.Registry) Report {
	return v.Validate(r.Leaves())
}

// Validate runs a default Validator over leaves.
func Validate(leaves []*fields.Field) Report {
	return New().Validate(leaves)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
