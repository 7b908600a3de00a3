package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads a YAML or JSON configuration file into a Map suitable for
// Resolve or Merge.
func Load(path string) (Map, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("config: path is required")
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return Map(k.Raw()), nil
}

// LoadBytes parses YAML or JSON configuration held in memory.
func LoadBytes(data []byte) (Map, error) {
	out, err := yaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return Map(normalizeMap(Map(out))), nil
}
