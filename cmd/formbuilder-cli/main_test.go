package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const formYAML = `
fields:
  - kind: input
    name: city
    label: City
  - kind: button
    title: Go
`

func TestRenderCommandWritesPage(t *testing.T) {
	dir := t.TempDir()
	formPath := filepath.Join(dir, "form.yaml")
	if err := os.WriteFile(formPath, []byte(formYAML), 0o644); err != nil {
		t.Fatalf("write form: %v", err)
	}
	valuesPath := filepath.Join(dir, "values.yaml")
	if err := os.WriteFile(valuesPath, []byte("city: Lisbon\n"), 0o644); err != nil {
		t.Fatalf("write values: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("form:\n  action: /cities\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "--form", formPath, "--values", valuesPath, "--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		`<form action="/cities" method="POST">`,
		`<label for="fbcity">City</label>`,
		`value="Lisbon"`,
		`<button type="submit">Go</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderCommandRequiresForm(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing --form to fail")
	}
}
