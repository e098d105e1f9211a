package services

import (
	"strings"
	"testing"

	"buyerleads/pkg/models"
)

func validLead() models.CleanedLead {
	bhk := "Two"
	return models.CleanedLead{
		FullName:     "Rohan Mehta",
		Phone:        "9876543210",
		City:         "Chandigarh",
		PropertyType: "Apartment",
		BHK:          &bhk,
		Purpose:      "Buy",
		Timeline:     "ZeroToThree",
		Source:       "Website",
	}
}

func TestValidateLeadValid(t *testing.T) {
	lead := validLead()
	result := ValidateLead(&lead)
	if !result.IsValid {
		t.Fatalf("expected valid lead, got errors %v", result.Errors)
	}
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Errorf("expected clean result, got errors=%v warnings=%v", result.Errors, result.Warnings)
	}
}

func TestValidateLeadRequiredFields(t *testing.T) {
	lead := models.CleanedLead{}
	result := ValidateLead(&lead)
	if result.IsValid {
		t.Fatal("expected empty lead to be invalid")
	}

	for _, field := range []string{"fullName", "phone", "city", "propertyType", "purpose", "timeline", "source"} {
		if !hasError(result, field+" is required") {
			t.Errorf("missing %q error, got %v", field+" is required", result.Errors)
		}
	}
}

func TestValidateLeadPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"987654321012345", true},
		{"987654321", false},
		{"9876543210123456", false},
	}

	for _, test := range tests {
		lead := validLead()
		lead.Phone = test.phone
		result := ValidateLead(&lead)
		if result.IsValid != test.valid {
			t.Errorf("phone %q: valid=%v, expected %v (errors %v)", test.phone, result.IsValid, test.valid, result.Errors)
		}
	}
}

func TestValidateLeadBHKRequired(t *testing.T) {
	// An Apartment row whose BHK column was present but blank fails with
	// exactly one error.
	lead := validLead()
	empty := ""
	lead.BHK = &empty

	result := ValidateLead(&lead)
	if result.IsValid {
		t.Fatal("expected invalid lead")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	if result.Errors[0] != "bhk is required for Apartment properties" {
		t.Errorf("error = %q", result.Errors[0])
	}
}

func TestValidateLeadBHKClearedForPlot(t *testing.T) {
	lead := validLead()
	lead.PropertyType = "Plot"
	bhk := "Two"
	lead.BHK = &bhk

	result := ValidateLead(&lead)
	if !result.IsValid {
		t.Fatalf("expected valid lead, got %v", result.Errors)
	}
	if lead.BHK != nil {
		t.Errorf("BHK = %v, expected cleared to nil", lead.BHK)
	}
	if !hasWarningContaining(result, "does not apply to Plot") {
		t.Errorf("expected a cleared-BHK warning, got %v", result.Warnings)
	}
}

func TestValidateLeadBudgetOrdering(t *testing.T) {
	lead := validLead()
	min := int64(5000000)
	max := int64(3000000)
	lead.BudgetMin = &min
	lead.BudgetMax = &max

	result := ValidateLead(&lead)
	if result.IsValid {
		t.Fatal("expected invalid lead")
	}
	if !hasError(result, "budgetMax (3000000) must be greater than or equal to budgetMin (5000000)") {
		t.Errorf("errors = %v", result.Errors)
	}

	// Equal budgets are fine.
	max = min
	lead = validLead()
	lead.BudgetMin = &min
	lead.BudgetMax = &max
	if result := ValidateLead(&lead); !result.IsValid {
		t.Errorf("equal budgets rejected: %v", result.Errors)
	}
}

func TestValidateLeadFuzzyEnumWarns(t *testing.T) {
	// A value the cleaner left unmapped still gets a late fuzzy pass here.
	lead := validLead()
	lead.City = "chd"

	result := ValidateLead(&lead)
	if !result.IsValid {
		t.Fatalf("expected valid lead, got %v", result.Errors)
	}
	if lead.City != "Chandigarh" {
		t.Errorf("City = %q, expected Chandigarh", lead.City)
	}
	if !hasWarningContaining(result, `city: "chd" was mapped to "Chandigarh"`) {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateLeadUnknownEnum(t *testing.T) {
	lead := validLead()
	lead.City = "Mumbai"

	result := ValidateLead(&lead)
	if result.IsValid {
		t.Fatal("expected invalid lead")
	}
	if !hasError(result, "city must be one of: Chandigarh, Mohali, Zirakpur, Panchkula, Other") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestValidateLeadCleanerMappingsBecomeWarnings(t *testing.T) {
	lead := validLead()
	lead.Mappings = []models.EnumMapping{{Field: "city", From: "chd", To: "Chandigarh"}}

	result := ValidateLead(&lead)
	if !result.IsValid {
		t.Fatalf("expected valid lead, got %v", result.Errors)
	}
	if !hasWarningContaining(result, `city: "chd" was mapped to "Chandigarh"`) {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateLeadFieldLengths(t *testing.T) {
	lead := validLead()
	lead.FullName = "A"
	if result := ValidateLead(&lead); result.IsValid {
		t.Error("one-character name accepted")
	}

	lead = validLead()
	notes := strings.Repeat("x", 1001)
	lead.Notes = &notes
	result := ValidateLead(&lead)
	if result.IsValid || !hasError(result, "notes must be at most 1000 characters") {
		t.Errorf("long notes accepted: %v", result.Errors)
	}

	// Limits are character counts: a 27-rune Devanagari name is 81 bytes
	// but still well inside 80 characters.
	lead = validLead()
	lead.FullName = strings.Repeat("ल", 27)
	if result := ValidateLead(&lead); !result.IsValid {
		t.Errorf("27-rune multi-byte name rejected: %v", result.Errors)
	}

	lead = validLead()
	lead.FullName = strings.Repeat("ल", 81)
	if result := ValidateLead(&lead); result.IsValid {
		t.Error("81-rune name accepted")
	}

	lead = validLead()
	longNotes := strings.Repeat("न", 1000)
	lead.Notes = &longNotes
	if result := ValidateLead(&lead); !result.IsValid {
		t.Errorf("1000-rune multi-byte notes rejected: %v", result.Errors)
	}
}

func TestValidateLeadEmailShape(t *testing.T) {
	lead := validLead()
	bad := "not-an-email"
	lead.Email = &bad
	if result := ValidateLead(&lead); result.IsValid {
		t.Error("malformed email accepted")
	}

	lead = validLead()
	good := "rohan@example.com"
	lead.Email = &good
	if result := ValidateLead(&lead); !result.IsValid {
		t.Errorf("valid email rejected: %v", result.Errors)
	}
}

// Several violations on one row are all reported at once.
func TestValidateLeadCollectsAllErrors(t *testing.T) {
	lead := models.CleanedLead{
		FullName:     "X",
		Phone:        "123",
		City:         "Mumbai",
		PropertyType: "Apartment",
		Purpose:      "Buy",
		Timeline:     "ZeroToThree",
		Source:       "Website",
	}
	empty := ""
	lead.BHK = &empty

	result := ValidateLead(&lead)
	if result.IsValid {
		t.Fatal("expected invalid lead")
	}
	if len(result.Errors) < 4 {
		t.Errorf("expected at least 4 errors, got %v", result.Errors)
	}
}

func hasError(result models.ValidationResult, msg string) bool {
	for _, e := range result.Errors {
		if e == msg {
			return true
		}
	}
	return false
}

func hasWarningContaining(result models.ValidationResult, substr string) bool {
	for _, w := range result.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
