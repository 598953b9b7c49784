package model_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-docbind/pkg/model"
)

func TestNormalizeTemplate(t *testing.T) {
	tmpl := model.Template{
		ID:      "atestado",
		Content: "Atesto que {{NOME_PACIENTE}} ...",
		Variables: []model.Variable{
			{Name: "nome paciente", Label: "Nome do Paciente"},
			{Name: "dias", Label: "Dias", Type: model.VariableTypeNumber},
		},
	}

	normalized, err := model.NormalizeTemplate(tmpl)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if normalized.Variables[0].Name != "NOME_PACIENTE" || normalized.Variables[1].Name != "DIAS" {
		t.Fatalf("unexpected names: %+v", normalized.Variables)
	}
	if tmpl.Variables[0].Name != "nome paciente" {
		t.Fatalf("input template mutated")
	}

	tmpl.Variables = append(tmpl.Variables, model.Variable{Name: "NOME_PACIENTE", Label: "Outro"})
	if _, err := model.NormalizeTemplate(tmpl); !errors.Is(err, model.ErrDuplicateVariable) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestNewStore_WithLabeler(t *testing.T) {
	store, err := model.NewStore(nil, model.WithLabeler(func(name string) string {
		return "label:" + name
	}))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	added := store.Adopt("crm")
	if len(added) != 1 || added[0].Label != "label:CRM" {
		t.Fatalf("unexpected adopted variables: %+v", added)
	}
}
