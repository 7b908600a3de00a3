package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/config"
)

func TestMergeIsIdempotent(t *testing.T) {
	overrides := []config.Map{
		{},
		{"timeAfterWriting": 500},
		{"validateForm": false, "form": map[string]any{"method": "GET"}},
		{"field": map[string]any{"fieldWrapper": map[string]any{"attributes": map[string]string{"class": "row"}}}},
	}

	for _, override := range overrides {
		once := config.Merge(config.Defaults(), override)
		twice := config.Merge(once, override)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("merge not idempotent for %v (-once +twice):\n%s", override, diff)
		}
	}
}

func TestMergeScalarsWinNestedMapsMerge(t *testing.T) {
	got := config.Merge(config.Defaults(), config.Map{
		"timeAfterWriting": 100,
		"form":             map[string]string{"action": "/signup"},
		"field": map[string]any{
			"fieldWrapper": map[string]any{"attributes": map[string]any{"class": "form-group"}},
		},
	})

	if got["timeAfterWriting"] != 100 {
		t.Fatalf("expected scalar override, got %v", got["timeAfterWriting"])
	}

	wantForm := config.Map{"method": "POST", "action": "/signup"}
	if diff := cmp.Diff(wantForm, got.Section("form")); diff != "" {
		t.Fatalf("form section mismatch (-want +got):\n%s", diff)
	}

	wrapper := got.Section("field").Section("fieldWrapper")
	wantWrapper := config.Map{"tag": "p", "attributes": map[string]any{"class": "form-group"}}
	if diff := cmp.Diff(wantWrapper, wrapper); diff != "" {
		t.Fatalf("wrapper section mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := config.Defaults()
	config.Merge(base, config.Map{"form": map[string]any{"method": "GET"}})
	if diff := cmp.Diff(config.Defaults(), base); diff != "" {
		t.Fatalf("base mutated (-want +got):\n%s", diff)
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, raw, err := config.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg.Debounce() != 250*time.Millisecond {
		t.Fatalf("debounce = %v, want 250ms", cfg.Debounce())
	}
	if !cfg.ValidateForm {
		t.Fatalf("validateForm should default to true")
	}
	if w := cfg.FieldWrapper(); w == nil || w.Tag != "p" {
		t.Fatalf("field wrapper = %+v, want tag p", w)
	}
	if w := cfg.GroupWrapper(); w == nil || w.Tag != "div" {
		t.Fatalf("group wrapper = %+v, want tag div", w)
	}
	if diff := cmp.Diff(map[string]string{"method": "POST", "action": "#"}, cfg.Form); diff != "" {
		t.Fatalf("form attributes mismatch (-want +got):\n%s", diff)
	}
	if raw["prefixGeneratedId"] != "fb" {
		t.Fatalf("raw map missing defaults: %v", raw)
	}
}

func TestResolveDisablesWrapper(t *testing.T) {
	cfg, _, err := config.Resolve(config.Map{
		"field": map[string]any{"fieldWrapper": map[string]any{"tag": ""}},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.FieldWrapper() != nil {
		t.Fatalf("expected wrapper to be disabled")
	}
}

func TestResolveRejectsInvalid(t *testing.T) {
	_, _, err := config.Resolve(config.Map{"timeAfterWriting": -1})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	_, _, err = config.Resolve(config.Map{
		"field": map[string]any{"fieldWrapper": map[string]any{"tag": "<p>"}},
	})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrapper tag, got %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "form.yaml")
	content := []byte("timeAfterWriting: 400\nform:\n  action: /save\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg, _, err := config.Resolve(loaded)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.TimeAfterWriting != 400 {
		t.Fatalf("timeAfterWriting = %d, want 400", cfg.TimeAfterWriting)
	}
	if cfg.Form["action"] != "/save" || cfg.Form["method"] != "POST" {
		t.Fatalf("form attributes = %v", cfg.Form)
	}
}

func TestIDPolicyGenerate(t *testing.T) {
	policy := config.IDPolicy{Prefix: "fb", MaxLength: 8}

	tests := map[string]string{
		"Email":          "fbemail",
		"Email Address":  "fbemailAdd",
		"Your name, ok?": "fbyourname",
		"":               "fb",
		"First_Name 2":   "fbfirst_Na",
		"Où est-il":      "fboestil",
	}
	for in, want := range tests {
		if got := policy.Generate(in); got != want {
			t.Fatalf("Generate(%q) = %q, want %q", in, got, want)
		}
	}
}
