package validator

import "testing"

type dealInput struct {
	Title       string `json:"title" validate:"required"`
	Probability int    `json:"probability" validate:"min=0,max=100"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(dealInput{Probability: 120})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := FieldErrors(err)
	if fields["title"] != "required" {
		t.Fatalf("expected title=required, got %v", fields)
	}
	if fields["probability"] != "max=100" {
		t.Fatalf("expected probability=max=100, got %v", fields)
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if FieldErrors(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}
