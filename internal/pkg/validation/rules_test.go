package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestIsValidEmail(t *testing.T) {
	cases := map[string]bool{
		"ada@example.org":         true,
		"Ada.Lovelace@Example.IO": true,
		"no-at-sign":              false,
		"a@b":                     false,
		"":                        false,
	}
	for in, want := range cases {
		if got := IsValidEmail(in); got != want {
			t.Errorf("IsValidEmail(%q)=%v want %v", in, got, want)
		}
	}
}

func TestIsValidRating(t *testing.T) {
	for r := -1; r <= 6; r++ {
		want := r >= 0 && r <= 5
		if got := IsValidRating(r); got != want {
			t.Errorf("IsValidRating(%d)=%v want %v", r, got, want)
		}
	}
}

func TestStringValidation(t *testing.T) {
	if NewStringValidation("").Validate() {
		t.Error("required empty value must fail")
	}
	if !NewStringValidation("").WithRequired(false).Validate() {
		t.Error("optional empty value must pass")
	}
	if NewStringValidation("short").WithMinLength(PasswordMinLength).Validate() {
		t.Error("short password must fail")
	}
	if !NewStringValidation("9-1").WithPattern(CompiledPatterns.CatalogID).Validate() {
		t.Error("catalog id must match")
	}
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		t.Fatalf("RegisterRules: %v", err)
	}

	type payload struct {
		Category  string `validate:"esg_category"`
		Necessary string `validate:"necessity"`
		Status    string `validate:"review_status"`
		ID        string `validate:"catalog_id"`
	}

	ok := payload{Category: "social", Necessary: "not-sure", Status: "pending", ID: "14-3"}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	bad := payload{Category: "economic", Necessary: "maybe", Status: "archived", ID: "bad id"}
	err := v.Struct(bad)
	verrs, isVerr := err.(validator.ValidationErrors)
	if !isVerr || len(verrs) != 4 {
		t.Fatalf("expected 4 field errors, got %v", err)
	}
}
