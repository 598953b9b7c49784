package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	textAreas    []string
	infoMessages []string
	defaults     []string
	inputPos     int
	selectPos    int
	textPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func certificate() model.Template {
	return model.Template{
		ID:      "atestado",
		Content: "Atesto que {{PATIENT}} ({{ROUTE}}) em {{DATE}}.\n{{NOTES}}",
		Variables: []model.Variable{
			{Name: "PATIENT", Label: "Patient", Required: true},
			{Name: "ROUTE", Label: "Route", Type: model.VariableTypeSelect, Options: []string{"oral", "topical"}},
			{Name: "DATE", Label: "Date", Type: model.VariableTypeDate},
			{Name: "NOTES", Label: "Notes", Type: model.VariableTypeTextarea},
		},
	}
}

func TestRender_PromptsEachVariableByType(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Maria", "31/01/2024"},
		selectIdx: []int{1},
		textAreas: []string{"line one\nline two"},
	}
	r := New(WithPromptDriver(driver))

	var collected map[string]string
	out, err := r.Render(context.Background(), certificate(), render.RenderOptions{
		OnValues: func(values map[string]string) { collected = values },
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "Atesto que Maria (topical) em 31/01/2024.\nline one\nline two"
	if got := string(out); got != want {
		t.Fatalf("output mismatch\nwant: %q\n got: %q", want, got)
	}
	if driver.inputPos != 2 || driver.selectPos != 1 || driver.textPos != 1 {
		t.Fatalf("prompts not consumed as expected")
	}
	if collected["ROUTE"] != "topical" {
		t.Fatalf("expected collected values, got %v", collected)
	}
}

func TestRender_RepromptsOnInvalidInput(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Maria", "31-01-2024", "2024-01-31"},
		selectIdx: []int{0},
		textAreas: []string{""},
	}
	r := New(WithPromptDriver(driver))

	if _, err := r.Render(context.Background(), certificate(), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{
		"! Patient is required",
		"! Date must be a date (YYYY-MM-DD or DD/MM/YYYY)",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_PrefillsAndShowsErrors(t *testing.T) {
	tmpl := model.Template{
		Content: "{{A}} {{B}}",
		Variables: []model.Variable{
			{Name: "A", Label: "A"},
			{Name: "B", Label: "B", Default: "fallback"},
		},
	}
	driver := &stubDriver{inputs: []string{"x", "y"}}
	r := New(WithPromptDriver(driver))

	_, err := r.Render(context.Background(), tmpl, render.RenderOptions{
		Values: map[string]string{"A": "prefilled"},
		Errors: map[string][]string{"A": {"A looks wrong"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"prefilled", "fallback"}, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"! A looks wrong"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	r := New(WithPromptDriver(driver))

	_, err := r.Render(context.Background(), certificate(), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	r := New(WithPromptDriver(driver), WithMaxAttempts(2))

	_, err := r.Render(context.Background(), certificate(), render.RenderOptions{})
	if !errors.Is(err, render.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
