// Package attrs applies attribute declarations to DOM elements. Two keys are
// reserved: "innerContent" replaces the element markup and "class" is merged
// into the existing class list instead of replacing it.
package attrs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/dom"
)

const (
	// InnerContent sets the markup of the element.
	InnerContent = "innerContent"
	// Class is merged with the current class list.
	Class = "class"
)

// Attributes maps attribute names to values.
type Attributes map[string]string

// Clone returns a copy of a. Nil stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge layers override on top of base and returns a new map. Class values are
// combined.
func Merge(base, override Attributes) Attributes {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := base.Clone()
	if out == nil {
		out = make(Attributes, len(override))
	}
	for _, key := range override.Keys() {
		value := override[key]
		if key == Class {
			out[key] = MergeClass(out[key], value)
			continue
		}
		out[key] = value
	}
	return out
}

// Apply writes attrs onto el in sorted key order and returns el's first
// failure. Empty keys are ignored.
func Apply(el *dom.Element, attrs Attributes) error {
	if el == nil {
		return nil
	}
	for _, key := range attrs.Keys() {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		value := attrs[key]
		switch name {
		case InnerContent:
			if err := el.SetInnerHTML(SanitizeMarkup(value)); err != nil {
				return fmt.Errorf("attrs: %s on <%s>: %w", InnerContent, el.Tag(), err)
			}
		case Class:
			el.SetAttribute(Class, MergeClass(el.GetAttribute(Class), value))
		default:
			el.SetAttribute(name, value)
		}
	}
	return nil
}

// MergeClass appends the class tokens of extra to existing, skipping tokens
// already present.
func MergeClass(existing, extra string) string {
	tokens := strings.Fields(existing)
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		seen[tok] = struct{}{}
	}
	for _, tok := range strings.Fields(extra) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// SanitizeMarkup strips scripts, event handler attributes and other active
// content from markup destined for innerContent.
func SanitizeMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return contentSanitizer().Sanitize(trimmed)
}

func contentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("span", "small", "strong", "em", "abbr", "i", "b")
		policy.AllowAttrs("class", "title", "aria-hidden").Globally()
		contentPolicy = policy
	})
	return contentPolicy
}
