package orchestrator_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-docbind/pkg/orchestrator"
	"github.com/goliatone/go-docbind/pkg/testsupport"
)

func atestadoValues() map[string]string {
	return map[string]string{
		"nome paciente": "Maria Silva",
		"DOCUMENTO":     "RG 12.345.678-9",
		"data":          "15/10/2026",
		"CIDADE":        "São Paulo",
		"medico":        "Dr. João Souza",
		"CRM":           "123456-SP",
	}
}

func TestOrchestrator_Integration_BuiltinText(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		TemplateID:    "atestado-medico",
		Values:        atestadoValues(),
		Strict:        true,
		ApplyDefaults: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.ContentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}

	testsupport.AssertGolden(t, filepath.Join("testdata", "atestado_medico.golden.txt"), result.Output)
}

func TestOrchestrator_Integration_BuiltinHTML(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	result, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		TemplateID: "atestado-medico",
		Values:     atestadoValues(),
		Renderer:   "html",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(result.ContentType, "text/html") {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}

	html := string(result.Output)
	for _, fragment := range []string{
		"Maria Silva",
		"São Paulo",
		`<mark class="docbind-missing">[Dias de Afastamento]</mark>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
}
