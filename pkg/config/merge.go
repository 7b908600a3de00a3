package config

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/maps"
)

// Map is a nested configuration mapping. Nested sections are map[string]any.
type Map map[string]any

// Merge returns base with override layered on top. Scalars in override
// replace those in base, nested mappings merge key by key. Neither input is
// mutated.
func Merge(base, override Map) Map {
	out := maps.Copy(normalizeMap(base))
	if out == nil {
		out = map[string]any{}
	}
	src := maps.Copy(normalizeMap(override))
	if len(src) > 0 {
		maps.Merge(src, out)
	}
	return Map(out)
}

// Section returns the nested mapping stored under key, or nil.
func (m Map) Section(key string) Map {
	if sub, ok := normalize(m[key]).(map[string]any); ok {
		return Map(sub)
	}
	return nil
}

// provider feeds an in-memory Map to koanf.
type provider Map

func (p provider) ReadBytes() ([]byte, error) {
	return nil, errors.New("config: map provider does not support ReadBytes")
}

func (p provider) Read() (map[string]any, error) {
	return maps.Copy(normalizeMap(Map(p))), nil
}

// normalizeMap converts typed nested maps (map[string]string, Map,
// map[any]any from YAML decoders) into map[string]any so they merge
// recursively instead of being replaced as scalars.
func normalizeMap(m Map) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(value any) any {
	switch v := value.(type) {
	case Map:
		return normalizeMap(v)
	case map[string]any:
		return normalizeMap(Map(v))
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return value
	}
}
