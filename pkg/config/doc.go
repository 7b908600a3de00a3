// Package config holds the builder configuration: built-in defaults, the
// recursive merge of caller overrides, file loading and the id synthesis
// policy used for generated labels.
package config
