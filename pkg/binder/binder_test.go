package binder_test

import (
	"html"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/placeholder"
)

func TestRender_ExampleScenario(t *testing.T) {
	content := "Paciente: {{NOME_PACIENTE}}, CPF: {{CPF}}"
	vars := []model.Variable{
		{Name: "NOME_PACIENTE", Label: "Nome do Paciente"},
		{Name: "CPF", Label: "CPF"},
	}

	got := binder.Render(content, vars, map[string]string{"NOME_PACIENTE": "Maria Silva"})
	if want := "Paciente: Maria Silva, CPF: [CPF]"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRender_FullyBoundIsIdempotent(t *testing.T) {
	content := "{{A}} e {{B}}, de novo {{A}}{{A}}"
	vars := []model.Variable{{Name: "A", Label: "A"}, {Name: "B", Label: "B"}}
	values := map[string]string{"A": "um", "B": "dois"}

	first := binder.Render(content, vars, values)
	second := binder.Render(content, vars, values)
	if first != second {
		t.Fatalf("render not deterministic: %q vs %q", first, second)
	}
	if want := "um e dois, de novo umum"; first != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, first)
	}
	if occ := placeholder.Scan(first, placeholder.Curly); len(occ) != 0 {
		t.Fatalf("placeholders remain: %+v", occ)
	}
}

func TestRender_FallbackPolicies(t *testing.T) {
	content := "{{DATA}} / {{DATA}} / {{CRM}}"
	vars := []model.Variable{
		{Name: "DATA", Label: "Data da Consulta"},
		{Name: "CRM", Label: ""},
	}
	values := map[string]string{"DATA": "   "}

	byLabel := binder.Render(content, vars, values)
	if want := "[Data da Consulta] / [Data da Consulta] / [CRM]"; byLabel != want {
		t.Fatalf("label fallback\nwant: %q\n got: %q", want, byLabel)
	}
	if strings.Contains(byLabel, "{{DATA}}") {
		t.Fatalf("raw token survived: %q", byLabel)
	}

	byName := binder.Render(content, vars, values, binder.WithFallback(binder.FallbackName))
	if want := "[DATA] / [DATA] / [CRM]"; byName != want {
		t.Fatalf("name fallback\nwant: %q\n got: %q", want, byName)
	}
}

func TestRender_PrefixNamesDoNotCrossContaminate(t *testing.T) {
	content := "{{NOME}} | {{NOME_PACIENTE}} | {{NOME}}_PACIENTE}}"
	vars := []model.Variable{
		{Name: "NOME", Label: "Nome"},
		{Name: "NOME_PACIENTE", Label: "Nome do Paciente"},
	}

	onlyLong := binder.Render(content, vars, map[string]string{"NOME_PACIENTE": "Maria"})
	if want := "[Nome] | Maria | [Nome]_PACIENTE}}"; onlyLong != want {
		t.Fatalf("binding long name\nwant: %q\n got: %q", want, onlyLong)
	}

	onlyShort := binder.Render(content, vars, map[string]string{"NOME": "Dr. João"})
	if want := "Dr. João | [Nome do Paciente] | Dr. João_PACIENTE}}"; onlyShort != want {
		t.Fatalf("binding short name\nwant: %q\n got: %q", want, onlyShort)
	}
}

func TestRender_LiteralNamesAndUndeclaredTokens(t *testing.T) {
	content := "{{DOSE (mg)*}} {{OUTRO}} {{{DOSE (mg)*}}}"
	vars := []model.Variable{{Name: "DOSE (mg)*", Label: "Dose"}}

	got := binder.Render(content, vars, map[string]string{"DOSE (mg)*": "500", "IGNORADO": "x"})
	if want := "500 {{OUTRO}} {500}"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRender_SquareSyntaxIsSinglePass(t *testing.T) {
	tmpl := model.Template{
		Syntax:  model.SyntaxSquare,
		Content: "Eu, [NOME], autorizo. Testemunha: [TESTEMUNHA]",
		Variables: []model.Variable{
			{Name: "NOME", Label: "Nome"},
			{Name: "TESTEMUNHA", Label: "TESTEMUNHA"},
		},
	}

	got := binder.RenderTemplate(tmpl, map[string]string{"NOME": "[TESTEMUNHA]"})
	if want := "Eu, [TESTEMUNHA], autorizo. Testemunha: [TESTEMUNHA]"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}

	curly := binder.Render(tmpl.Content, tmpl.Variables, map[string]string{"NOME": "Ana"})
	if curly != tmpl.Content {
		t.Fatalf("curly delimiters should not match square tokens: %q", curly)
	}
}

func TestRender_Escapers(t *testing.T) {
	content := "<b>{{NOME}}</b> & {{CPF}}"
	vars := []model.Variable{{Name: "NOME", Label: "Nome"}, {Name: "CPF", Label: "CPF"}}

	got := binder.Render(content, vars, map[string]string{"NOME": "<script>"},
		binder.WithTextEscaper(html.EscapeString),
		binder.WithValueEscaper(html.EscapeString),
		binder.WithFallbackMarker(func(text string) string { return "<mark>" + html.EscapeString(text) + "</mark>" }),
	)
	want := "&lt;b&gt;&lt;script&gt;&lt;/b&gt; &amp; <mark>[CPF]</mark>"
	if got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRender_NoVariables(t *testing.T) {
	if got := binder.Render("{{A}}", nil, map[string]string{"A": "x"}); got != "{{A}}" {
		t.Fatalf("expected content unchanged, got %q", got)
	}
}

func TestInsertPlaceholder(t *testing.T) {
	got := binder.InsertPlaceholder("Paciente: ", 10, "nome paciente")
	if want := "Paciente: {{NOME_PACIENTE}}"; got != want {
		t.Fatalf("insert mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestBindValues(t *testing.T) {
	vars := []model.Variable{
		{Name: "NOME_PACIENTE", Label: "Nome"},
		{Name: "VIA", Label: "Via", Default: "oral"},
		{Name: "DIAS", Label: "Dias", Required: true},
	}
	raw := map[string]string{
		"nome paciente": "ignored",
		"NOME_PACIENTE": "Maria",
		"via":           "",
		"extra":         "x",
	}

	got := binder.BindValues(vars, raw, binder.BindOptions{ApplyDefaults: true})
	want := model.Values{"NOME_PACIENTE": "Maria", "VIA": "oral"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bound values mismatch (-want +got):\n%s", diff)
	}

	kept := binder.BindValues(vars, raw, binder.BindOptions{KeepUnknown: true})
	if kept["EXTRA"] != "x" || kept["VIA"] != "" {
		t.Fatalf("unexpected values: %+v", kept)
	}

	if diff := cmp.Diff([]string{"DIAS"}, binder.Missing(vars, got)); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFallback(t *testing.T) {
	if f, err := binder.ParseFallback(""); err != nil || f != binder.FallbackLabel {
		t.Fatalf("empty fallback: %v %v", f, err)
	}
	if f, err := binder.ParseFallback(" NAME "); err != nil || f != binder.FallbackName {
		t.Fatalf("name fallback: %v %v", f, err)
	}
	if _, err := binder.ParseFallback("blank"); err == nil {
		t.Fatalf("expected error")
	}
}
