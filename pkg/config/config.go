package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
)

// Recognised configuration keys.
const (
	KeyTimeAfterWriting     = "timeAfterWriting"
	KeyValidateForm         = "validateForm"
	KeyPrefixGeneratedID    = "prefixGeneratedId"
	KeyMaxLengthGeneratedID = "maxLengthGeneratedId"
	KeyField                = "field"
	KeyFieldWrapper         = "fieldWrapper"
	KeyGroup                = "group"
	KeyForm                 = "form"
)

// ErrInvalid wraps configuration that fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Wrapper describes an element cloned around rendered entries.
type Wrapper struct {
	Tag        string            `koanf:"tag" validate:"omitempty,max=64,excludesall=<>/ "`
	Attributes map[string]string `koanf:"attributes" validate:"dive,keys,required,endkeys"`
}

// Enabled reports whether the wrapper produces an element.
func (w *Wrapper) Enabled() bool {
	return w != nil && strings.TrimSpace(w.Tag) != ""
}

// FieldSection holds per-field layout settings.
type FieldSection struct {
	FieldWrapper *Wrapper `koanf:"fieldWrapper"`
}

// Config is the typed view of a merged configuration Map.
type Config struct {
	TimeAfterWriting     int               `koanf:"timeAfterWriting" validate:"gte=0"`
	ValidateForm         bool              `koanf:"validateForm"`
	PrefixGeneratedID    string            `koanf:"prefixGeneratedId"`
	MaxLengthGeneratedID int               `koanf:"maxLengthGeneratedId" validate:"gte=0"`
	Field                FieldSection      `koanf:"field"`
	Group                *Wrapper          `koanf:"group"`
	Form                 map[string]string `koanf:"form" validate:"dive,keys,required,endkeys"`
}

// Debounce returns the afterwriting delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.TimeAfterWriting) * time.Millisecond
}

// IDPolicy returns the id synthesis policy.
func (c Config) IDPolicy() IDPolicy {
	return IDPolicy{Prefix: c.PrefixGeneratedID, MaxLength: c.MaxLengthGeneratedID}
}

// FieldWrapper returns the per-field wrapper, or nil when disabled.
func (c Config) FieldWrapper() *Wrapper {
	if !c.Field.FieldWrapper.Enabled() {
		return nil
	}
	return c.Field.FieldWrapper
}

// GroupWrapper returns the group container, or nil when disabled.
func (c Config) GroupWrapper() *Wrapper {
	if !c.Group.Enabled() {
		return nil
	}
	return c.Group
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() Map {
	return Map{
		KeyTimeAfterWriting:     250,
		KeyValidateForm:         true,
		KeyPrefixGeneratedID:    "fb",
		KeyMaxLengthGeneratedID: 8,
		KeyField: map[string]any{
			KeyFieldWrapper: map[string]any{
				"tag":        "p",
				"attributes": map[string]any{},
			},
		},
		KeyGroup: map[string]any{
			"tag":        "div",
			"attributes": map[string]any{},
		},
		KeyForm: map[string]any{
			"method": "POST",
			"action": "#",
		},
	}
}

// Resolve layers overrides on top of the defaults, decodes the result and
// validates it.
func Resolve(overrides ...Map) (Config, Map, error) {
	k := koanf.New(".")
	if err := k.Load(provider(Defaults()), nil); err != nil {
		return Config{}, nil, fmt.Errorf("config: load defaults: %w", err)
	}
	for i, override := range overrides {
		if len(override) == 0 {
			continue
		}
		if err := k.Load(provider(override), nil); err != nil {
			return Config{}, nil, fmt.Errorf("config: load override %d: %w", i, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, nil, err
	}
	return cfg, Map(k.Raw()), nil
}

// MustResolve is Resolve for init-time wiring. It panics on error.
func MustResolve(overrides ...Map) Config {
	cfg, _, err := Resolve(overrides...)
	if err != nil {
		panic(err)
	}
	return cfg
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the struct constraints of cfg.
func Validate(cfg Config) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
