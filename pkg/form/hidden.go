package form

import (
	"fmt"
	"sort"
	"strings"
)

// MethodOverrideField carries the original verb when a form is submitted as
// POST on behalf of PUT, PATCH or DELETE.
const MethodOverrideField = "_method"

// HiddenField is a hidden input appended to the form container before the
// rendered fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries an anti-forgery token under the name the backend
// expects ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField carries a version for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// normalizeHidden drops empty names, lets later fields win on collisions and
// sorts by name so rendering is deterministic.
func normalizeHidden(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}

// resolveMethod maps verbs browsers cannot submit onto POST. The second
// result is the verb to carry in MethodOverrideField, or "".
func resolveMethod(raw string) (string, string) {
	method := strings.ToUpper(strings.TrimSpace(raw))
	switch method {
	case "", "POST":
		return "POST", ""
	case "GET", "DIALOG":
		return method, ""
	default:
		return "POST", method
	}
}
