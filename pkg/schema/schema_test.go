package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/render"
	"github.com/goliatone/go-docbind/pkg/schema"
)

func prescription() model.Template {
	return model.Template{
		ID:       "receita-simples",
		Name:     "Receita Simples",
		Category: "receitas",
		Variables: []model.Variable{
			{Name: "PATIENT_NAME", Label: "Patient Name", Required: true},
			{Name: "DATE", Label: "Date", Type: model.VariableTypeDate},
			{Name: "DOSE", Label: "Dose", Type: model.VariableTypeNumber},
			{Name: "ROUTE", Label: "Route", Type: model.VariableTypeSelect, Options: []string{"oral", "topical"}},
		},
	}
}

func TestValidate_AcceptsValidValues(t *testing.T) {
	values := model.Values{
		"PATIENT_NAME": "Maria Silva",
		"DATE":         "31/01/2024",
		"DOSE":         "2,5",
		"ROUTE":        "oral",
	}
	if verr := schema.Validate(prescription(), values); verr != nil {
		t.Fatalf("expected valid values, got %v", verr)
	}
}

func TestValidate_OptionalEmptyValuesAreSkipped(t *testing.T) {
	values := model.Values{"PATIENT_NAME": "Maria"}
	if verr := schema.Validate(prescription(), values); verr != nil {
		t.Fatalf("expected valid values, got %v", verr)
	}
}

func TestValidate_CollectsMessagesPerVariable(t *testing.T) {
	values := model.Values{
		"PATIENT_NAME": "   ",
		"DATE":         "2024-02-31",
		"dose":         "two",
		"ROUTE":        "intravenous",
	}

	verr := schema.Validate(prescription(), values)
	if verr == nil {
		t.Fatalf("expected validation errors")
	}
	if !errors.Is(verr.ErrOrNil(), render.ErrValidation) {
		t.Fatalf("expected ErrValidation")
	}

	want := map[string][]string{
		"PATIENT_NAME": {"Patient Name is required"},
		"DATE":         {"Date must be a date (YYYY-MM-DD or DD/MM/YYYY)"},
		"DOSE":         {"Dose must be a number"},
		"ROUTE":        {"Route must be one of: oral, topical"},
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesSchema_RequiredList(t *testing.T) {
	s := schema.ValuesSchema(prescription())
	if diff := cmp.Diff([]string{"PATIENT_NAME"}, s.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(s.Properties))
	}
	route := s.Properties["ROUTE"].Value
	if diff := cmp.Diff([]any{"oral", "topical"}, route.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDate(t *testing.T) {
	for _, value := range []string{"2024-01-31", "31/01/2024", " 31/01/2024 "} {
		got, err := schema.ParseDate(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if got.Format("2006-01-02") != "2024-01-31" {
			t.Fatalf("parse %q: got %s", value, got)
		}
	}
	if _, err := schema.ParseDate("31-01-2024"); !errors.Is(err, schema.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	got, err := schema.ParseNumber("2,5")
	if err != nil || got != 2.5 {
		t.Fatalf("expected 2.5, got %v (%v)", got, err)
	}
	if _, err := schema.ParseNumber("abc"); !errors.Is(err, schema.ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestDocument_DescribesRenderEndpoints(t *testing.T) {
	doc := schema.Document([]model.Template{prescription()}, schema.DocumentOptions{
		Renderers: []string{"html", "text"},
	})

	if doc.Info.Title != "docbind" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	item := doc.Paths.Find("/templates/receita-simples/render")
	if item == nil || item.Post == nil {
		t.Fatalf("expected render path for receita-simples")
	}
	if item.Post.OperationID != "render:receita-simples" {
		t.Fatalf("unexpected operation id %q", item.Post.OperationID)
	}
	if _, ok := doc.Components.Schemas["Values_receita-simples"]; !ok {
		t.Fatalf("expected values schema component")
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("marshal document: %v", err)
	}
}
