package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Values maps field names to prefill values. Names may be dotted paths into
// nested maps ("author.email") or index into slices ("tags.0").
type Values map[string]any

// Lookup returns the raw value for name. An exact key wins over a dotted
// path.
func (v Values) Lookup(name string) (any, bool) {
	if v == nil || name == "" {
		return nil, false
	}
	if value, ok := v[name]; ok {
		return value, true
	}
	return getPath(v, name)
}

// Strings returns the prefill for name as a list of strings. Slices yield
// one entry per element, scalars a single entry. Nil values are absent.
func (v Values) Strings(name string) ([]string, bool) {
	raw, ok := v.Lookup(name)
	if !ok || raw == nil {
		return nil, false
	}
	switch typed := raw.(type) {
	case []string:
		return append([]string(nil), typed...), true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, stringify(item))
		}
		return out, true
	default:
		return []string{stringify(raw)}, true
	}
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case Values:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}
