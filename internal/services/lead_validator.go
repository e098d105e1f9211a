package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"buyerleads/pkg/models"
)

var emailShapePattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var phoneDigitsPattern = regexp.MustCompile(`^\d{10,15}$`)

// enumCheck pairs a cleaned field value with its canonical label set.
type enumCheck struct {
	field   string
	value   string
	allowed []string
}

// ValidateLead applies every business rule to a cleaned lead and reports all
// violations at once; nothing short-circuits, so one row can carry several
// errors. Warnings describe auto-fixes (fuzzy enum mappings, BHK cleared on
// non-residential types) that were applied in place rather than rejecting
// the row.
func ValidateLead(lead *models.CleanedLead) models.ValidationResult {
	result := models.ValidationResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	// Required fields.
	required := []struct {
		name  string
		value string
	}{
		{"fullName", lead.FullName},
		{"phone", lead.Phone},
		{"city", lead.City},
		{"propertyType", lead.PropertyType},
		{"purpose", lead.Purpose},
		{"timeline", lead.Timeline},
		{"source", lead.Source},
	}
	for _, f := range required {
		if f.value == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s is required", f.name))
		}
	}

	if lead.Phone != "" && !phoneDigitsPattern.MatchString(lead.Phone) {
		result.Errors = append(result.Errors, fmt.Sprintf("phone must be 10-15 digits (got %q)", lead.Phone))
	}

	if lead.Email != nil && !emailShapePattern.MatchString(*lead.Email) {
		result.Errors = append(result.Errors, fmt.Sprintf("email %q is not a valid email address", *lead.Email))
	}

	// Mappings the cleaner already applied become warnings so the caller
	// can see the value was adjusted rather than taken verbatim.
	for _, m := range lead.Mappings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %q was mapped to %q", m.Field, m.From, m.To))
	}

	// Enum membership. A value the cleaner could not map but that still has
	// a late fuzzy match gets mapped here with a warning; a value with no
	// match at all is a hard error listing the allowed labels.
	checks := []enumCheck{
		{FieldCity, lead.City, models.CityValues},
		{FieldPropertyType, lead.PropertyType, models.PropertyTypeValues},
		{FieldPurpose, lead.Purpose, models.PurposeValues},
		{FieldTimeline, lead.Timeline, models.TimelineValues},
		{FieldSource, lead.Source, models.SourceValues},
	}
	if lead.BHK != nil && *lead.BHK != "" {
		checks = append(checks, enumCheck{FieldBHK, *lead.BHK, models.BHKValues})
	}
	if lead.Status != nil && *lead.Status != "" {
		checks = append(checks, enumCheck{FieldStatus, *lead.Status, models.StatusValues})
	}

	for _, check := range checks {
		if check.value == "" || containsValue(check.allowed, check.value) {
			continue
		}
		if mapped, ok := MatchEnum(check.field, check.value); ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %q was mapped to %q", check.field, check.value, mapped))
			setEnumField(lead, check.field, mapped)
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("%s must be one of: %s",
				check.field, strings.Join(check.allowed, ", ")))
		}
	}

	// BHK is required for residential property types and meaningless for
	// the rest; the latter is fixed up, not rejected.
	switch lead.PropertyType {
	case "Apartment", "Villa":
		if lead.BHK == nil || *lead.BHK == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("bhk is required for %s properties", lead.PropertyType))
		}
	case "Plot", "Office", "Retail":
		if lead.BHK != nil && *lead.BHK != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("bhk does not apply to %s properties and was cleared", lead.PropertyType))
			lead.BHK = nil
		}
	}

	if lead.BudgetMin != nil && lead.BudgetMax != nil && *lead.BudgetMax < *lead.BudgetMin {
		result.Errors = append(result.Errors, fmt.Sprintf("budgetMax (%d) must be greater than or equal to budgetMin (%d)",
			*lead.BudgetMax, *lead.BudgetMin))
	}

	// Length limits count characters, not bytes, so non-ASCII names are not
	// penalized for their UTF-8 width.
	if lead.Notes != nil && utf8.RuneCountInString(*lead.Notes) > 1000 {
		result.Errors = append(result.Errors, "notes must be at most 1000 characters")
	}

	if lead.FullName != "" {
		if n := utf8.RuneCountInString(lead.FullName); n < 2 || n > 80 {
			result.Errors = append(result.Errors, "fullName must be between 2 and 80 characters")
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func setEnumField(lead *models.CleanedLead, field, value string) {
	switch field {
	case FieldCity:
		lead.City = value
	case FieldPropertyType:
		lead.PropertyType = value
	case FieldPurpose:
		lead.Purpose = value
	case FieldTimeline:
		lead.Timeline = value
	case FieldSource:
		lead.Source = value
	case FieldBHK:
		lead.BHK = &value
	case FieldStatus:
		lead.Status = &value
	}
}
