package html_test

import (
	"io"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/renderers/html"
	"github.com/goliatone/go-docbind/pkg/testsupport"
)

func certificate() model.Template {
	return model.Template{
		ID:       "atestado-medico",
		Name:     "Atestado Médico",
		Category: "atestados",
		Content:  "Atesto que {{PACIENTE}} & acompanhante\ncompareceu em {{DATA}}.",
		Variables: []model.Variable{
			{Name: "PACIENTE", Label: "Paciente"},
			{Name: "DATA", Label: "Data", Type: model.VariableTypeDate},
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 31, 14, 30, 0, 0, time.UTC)
}

func TestBody_EscapesTextAndSanitisesValues(t *testing.T) {
	got := html.Body(certificate(), map[string]string{"PACIENTE": "<b>Maria</b> a < b"})
	want := "Atesto que Maria a &lt; b &amp; acompanhante\ncompareceu em <mark class=\"docbind-missing\">[Data]</mark>."
	if got != want {
		t.Fatalf("body mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderer_RenderLayout(t *testing.T) {
	renderer, err := html.New(html.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(testsupport.Context(), certificate(), render.RenderOptions{
		Values: map[string]string{"PACIENTE": "Maria", "DATA": "31/01/2024"},
		Theme:  testThemeConfig(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	page := string(out)
	for _, fragment := range []string{
		`<html lang="pt-BR">`,
		`<title>Atestado Médico</title>`,
		`<link rel="stylesheet" href="/themes/clinic/docbind.css">`,
		`<style>:root { --brand: #123456; }</style>`,
		`class="docbind docbind-atestado-medico"`,
		`data-theme="clinic"`,
		`data-variant="dark"`,
		`<div class="docbind-body">Atesto que Maria &amp; acompanhante` + "\n" + `compareceu em 31/01/2024.</div>`,
		`<time datetime="2024-01-31T14:30:00Z">31/01/2024 14:30</time>`,
	} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, page)
		}
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_RequestClockWins(t *testing.T) {
	renderer, err := html.New(html.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	out, err := renderer.Render(testsupport.Context(), certificate(), render.RenderOptions{Now: now})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `datetime="2025-06-01T08:00:00Z"`) {
		t.Fatalf("expected request timestamp in output:\n%s", out)
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{
		renderTemplateFunc: func(name string, data any, _ ...io.Writer) (string, error) {
			values := data.(map[string]any)
			return name + ":" + values["body"].(string), nil
		},
	}

	renderer, err := html.New(html.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	tmpl := model.Template{Content: "{{X}}", Variables: []model.Variable{{Name: "X", Label: "X"}}}
	out, err := renderer.Render(testsupport.Context(), tmpl, render.RenderOptions{Values: map[string]string{"X": "1"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "document:1" {
		t.Fatalf("unexpected output: %s", out)
	}
	if !stub.called {
		t.Fatalf("expected render template to be called")
	}
}

type stubTemplateRenderer struct {
	called             bool
	renderTemplateFunc func(name string, data any, out ...io.Writer) (string, error)
}

func (s *stubTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	s.called = true
	if s.renderTemplateFunc != nil {
		return s.renderTemplateFunc(name, data, out...)
	}
	return "", nil
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(input any, param any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}

func TestRenderer_ThemeCSSVarsKeepQuotedFonts(t *testing.T) {
	renderer, err := html.New(html.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := testThemeConfig()
	cfg.CSSVars = map[string]string{
		"--font-body":  `"Inter", sans-serif`,
		"--ink":        "#111",
		"--escape":     "red; } body { display: none",
		"--closer":     "</style><script>alert(1)</script>",
		"--bad name{}": "blue",
	}

	out, err := renderer.Render(testsupport.Context(), certificate(), render.RenderOptions{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	page := string(out)
	want := `<style>:root { --font-body: "Inter", sans-serif; --ink: #111; }</style>`
	if !strings.Contains(page, want) {
		t.Fatalf("expected %q in output:\n%s", want, page)
	}
	for _, rejected := range []string{"display: none", "alert(1)", "bad name", "&#34;"} {
		if strings.Contains(page, rejected) {
			t.Fatalf("unexpected %q in output:\n%s", rejected, page)
		}
	}
}

func testThemeConfig() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   "clinic",
		Variant: "dark",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		CSSVars: map[string]string{
			"--brand": "#123456",
		},
		AssetURL: func(key string) string {
			if key != "docbind.stylesheet" {
				return ""
			}
			return "/themes/clinic/docbind.css"
		},
	}
}
