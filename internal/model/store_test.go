package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore_AddVariableCanonicalisesName(t *testing.T) {
	spaced, err := NewStore(Variable{Name: "nome  paciente", Label: "Nome do Paciente"})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	upper, err := NewStore(Variable{Name: "NOME_PACIENTE", Label: "Nome do Paciente"})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	got := spaced.ListVariables()
	want := upper.ListVariables()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("canonical variables mismatch (-want +got):\n%s", diff)
	}
	if got[0].Name != "NOME_PACIENTE" {
		t.Fatalf("expected canonical name NOME_PACIENTE, got %q", got[0].Name)
	}
	if got[0].Type != VariableTypeText {
		t.Fatalf("expected empty type to default to text, got %q", got[0].Type)
	}
}

func TestCanonicalName_UnicodeSpaces(t *testing.T) {
	cases := map[string]string{
		"nome\u00a0paciente":      "NOME_PACIENTE",
		"nome\u3000paciente":      "NOME_PACIENTE",
		"\u00a0 nome \t\u2003 cpf ": "NOME_CPF",
		"\u00a0\u3000":            "",
	}
	for in, want := range cases {
		if got := CanonicalName(in); got != want {
			t.Fatalf("CanonicalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStore_NonBreakingSpaceCollidesWithUnderscore(t *testing.T) {
	store, err := NewStore(Variable{Name: "nome\u00a0paciente", Label: "Nome do Paciente"})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	err = store.AddVariable(Variable{Name: "NOME_PACIENTE", Label: "Paciente"})
	if !errors.Is(err, ErrDuplicateVariable) {
		t.Fatalf("expected ErrDuplicateVariable, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected store to keep one variable, got %d", store.Len())
	}
	if _, ok := store.Variable("NOME_PACIENTE"); !ok {
		t.Fatalf("expected lookup by underscored name to succeed")
	}
}

func TestStore_AddVariableRejections(t *testing.T) {
	cases := []struct {
		name string
		def  Variable
		want error
	}{
		{name: "empty name", def: Variable{Name: "   ", Label: "Nome"}, want: ErrNameRequired},
		{name: "empty label", def: Variable{Name: "CPF", Label: " "}, want: ErrLabelRequired},
		{name: "duplicate after canonicalisation", def: Variable{Name: " cpf ", Label: "CPF"}, want: ErrDuplicateVariable},
		{name: "unknown type", def: Variable{Name: "PESO", Label: "Peso", Type: "weight"}, want: ErrInvalidType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewStore(Variable{Name: "CPF", Label: "CPF"})
			if err != nil {
				t.Fatalf("new store: %v", err)
			}

			err = store.AddVariable(tc.def)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var varErr *VariableError
			if !errors.As(err, &varErr) {
				t.Fatalf("expected *VariableError, got %T", err)
			}
			if store.Len() != 1 {
				t.Fatalf("rejected definition mutated the store: %d variables", store.Len())
			}
		})
	}
}

func TestStore_RemoveVariable(t *testing.T) {
	store, err := NewStore(
		Variable{Name: "NOME_PACIENTE", Label: "Nome"},
		Variable{Name: "CPF", Label: "CPF"},
		Variable{Name: "DATA", Label: "Data", Type: VariableTypeDate},
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	store.RemoveVariable("nome paciente")
	store.RemoveVariable("MISSING")

	names := make([]string, 0, store.Len())
	for _, v := range store.ListVariables() {
		names = append(names, v.Name)
	}
	if diff := cmp.Diff([]string{"CPF", "DATA"}, names); diff != "" {
		t.Fatalf("remaining variables mismatch (-want +got):\n%s", diff)
	}

	if _, ok := store.Variable("data"); !ok {
		t.Fatalf("expected lookup by canonical name after removal")
	}
	if err := store.AddVariable(Variable{Name: "Nome Paciente", Label: "Nome"}); err != nil {
		t.Fatalf("re-adding removed variable: %v", err)
	}
}

func TestStore_ListVariablesReturnsCopy(t *testing.T) {
	store, err := NewStore(Variable{
		Name:    "VIA",
		Label:   "Via",
		Type:    VariableTypeSelect,
		Options: []string{" oral ", "", "tópica"},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	listed := store.ListVariables()
	if diff := cmp.Diff([]string{"oral", "tópica"}, listed[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	listed[0].Options[0] = "mutated"
	listed[0].Label = "mutated"

	again, _ := store.Variable("VIA")
	if again.Label != "Via" || again.Options[0] != "oral" {
		t.Fatalf("store leaked internal state: %+v", again)
	}
}

func TestStore_Adopt(t *testing.T) {
	store, err := NewStore(Variable{Name: "CPF", Label: "CPF"})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	added := store.Adopt("data_retorno", "CPF", "", "dataRetorno")
	want := []Variable{
		{Name: "DATA_RETORNO", Label: "Data Retorno", Type: VariableTypeText},
		{Name: "DATARETORNO", Label: "Dataretorno", Type: VariableTypeText},
	}
	if diff := cmp.Diff(want, added); diff != "" {
		t.Fatalf("adopted variables mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 variables, got %d", store.Len())
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"NOME_PACIENTE":  "Nome Paciente",
		"dataNascimento": "Data Nascimento",
		"crm-medico":     "Crm Medico",
		"DOSE2":          "Dose 2",
		"":               "",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseVariableType(t *testing.T) {
	for _, kind := range VariableTypes() {
		got, err := ParseVariableType(" " + string(kind) + " ")
		if err != nil || got != kind {
			t.Fatalf("ParseVariableType(%q) = %q, %v", kind, got, err)
		}
	}
	if _, err := ParseVariableType("checkbox"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}
