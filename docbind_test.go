package docbind

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestRender_ExampleScenario(t *testing.T) {
	vars := []Variable{
		{Name: "NOME_PACIENTE", Label: "Nome do Paciente"},
		{Name: "DATA", Label: "Data"},
	}
	got := Render("Paciente: {{NOME_PACIENTE}} em {{DATA}}", vars, map[string]string{"NOME_PACIENTE": "Maria"})
	if want := "Paciente: Maria em [Data]"; got != want {
		t.Fatalf("render mismatch: want %q, got %q", want, got)
	}
}

func TestInsertPlaceholder(t *testing.T) {
	if got := InsertPlaceholder("Olá !", 5, "nome"); got != "Olá {{NOME}}!" {
		t.Fatalf("unexpected insert result %q", got)
	}
}

func TestGenerate_Builtin(t *testing.T) {
	out, err := Generate(context.Background(), "receita-simples", "", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected output")
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	entries, err := fs.ReadDir(BuiltinTemplates(), ".")
	if err != nil {
		t.Fatalf("read builtin dir: %v", err)
	}
	if len(entries) < 5 {
		t.Fatalf("expected at least five builtin templates, got %d", len(entries))
	}

	var found bool
	_ = fs.WalkDir(LayoutTemplates(), ".", func(path string, d fs.DirEntry, err error) error {
		if err == nil && strings.HasSuffix(path, "document.tpl") {
			found = true
		}
		return nil
	})
	if !found {
		t.Fatalf("expected document.tpl in layout templates")
	}
}
