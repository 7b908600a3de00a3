package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type stubDriver struct {
	inputs   []string
	selects  []int
	confirms []bool

	messages []string
	rejected []string
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	for len(s.inputs) > 0 {
		answer := s.inputs[0]
		s.inputs = s.inputs[1:]
		if cfg.Validator != nil {
			if err := cfg.Validator(answer); err != nil {
				s.rejected = append(s.rejected, err.Error())
				continue
			}
		}
		return answer, nil
	}
	return "", errors.New("stub: no input left")
}

func (s *stubDriver) Password(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *stubDriver) TextArea(ctx context.Context, cfg prompt.TextAreaConfig) (string, error) {
	return s.Input(ctx, prompt.InputConfig{Message: cfg.Message, Validator: cfg.Validator})
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	idx := s.selects[0]
	s.selects = s.selects[1:]
	return idx, nil
}

func (s *stubDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return nil, errors.New("stub: multi-select not scripted")
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.confirms) == 0 {
		return cfg.Default, nil
	}
	answer := s.confirms[0]
	s.confirms = s.confirms[1:]
	return answer, nil
}

func renderForm(t *testing.T) (*form.Form, *[]string) {
	t.Helper()
	b := testsupport.MustBuilder(t)

	var typed []string
	b.Input("text", builder.Attrs{"name": "name", "required": ""}).
		LabelIt("Name").
		On("writing", func(value string, _ *dom.Event) { typed = append(typed, value) })
	b.Select(builder.Name("color"),
		builder.Choice{Value: "r", Label: "Red"},
		builder.Choice{Value: "g", Label: "Green"},
	)
	b.Button("Send", builder.Name(""))
	b.SetOnSubmit(nil, true)
	if err := b.Err(); err != nil {
		t.Fatalf("build: %v", err)
	}

	return testsupport.MustRender(t, b), &typed
}

func TestFillPromptsAndSubmits(t *testing.T) {
	f, typed := renderForm(t)
	driver := &stubDriver{
		inputs:   []string{"", "Ada"},
		selects:  []int{1},
		confirms: []bool{true},
	}

	res, err := prompt.Fill(testsupport.Context(), f, driver)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !res.Submitted || res.DefaultAction {
		t.Fatalf("expected a prevented submission, got %+v", res)
	}

	if diff := cmp.Diff([]string{"Name", "color", "Submit form?"}, driver.messages); diff != "" {
		t.Fatalf("prompt messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"value is required"}, driver.rejected); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ada"}, *typed); diff != "" {
		t.Fatalf("writing callbacks mismatch (-want +got):\n%s", diff)
	}

	type pair struct{ Name, Value string }
	var got []pair
	for _, v := range f.Values() {
		got = append(got, pair{v.Name, v.Value})
	}
	if diff := cmp.Diff([]pair{{"name", "Ada"}, {"color", "g"}}, got); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
	report, ok := f.Report()
	if !ok || !report.Valid {
		t.Fatalf("expected a valid report, got %+v (present=%v)", report, ok)
	}
}

func TestFillDeclinedSubmission(t *testing.T) {
	f, _ := renderForm(t)
	driver := &stubDriver{
		inputs:   []string{"Ada"},
		selects:  []int{0},
		confirms: []bool{false},
	}

	res, err := prompt.Fill(testsupport.Context(), f, driver)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if res.Submitted {
		t.Fatalf("expected no submission, got %+v", res)
	}
	if len(f.Values()) != 0 {
		t.Fatalf("expected no collected values, got %v", f.Values())
	}
	if got := f.Collect()[0].Value; got != "Ada" {
		t.Fatalf("live value = %q, want Ada", got)
	}
}

func TestFillPropagatesDriverErrors(t *testing.T) {
	f, _ := renderForm(t)
	driver := &stubDriver{}
	if _, err := prompt.Fill(testsupport.Context(), f, driver); err == nil {
		t.Fatalf("expected driver error")
	}
}
