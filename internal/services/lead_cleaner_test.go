package services

import (
	"reflect"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"9876543210", "9876543210"},
		{"+91 98765 43210", "9876543210"},
		{"919876543210", "9876543210"},
		{"91-9876-543-210", "9876543210"},
		{"(987) 654-3210", "9876543210"},
		{"9198765432", "9198765432"},     // 10 digits starting 91: not a country code
		{"9187654321098", "9187654321098"}, // 13 digits: prefix kept
		{"", ""},
		{"abc", ""},
	}

	for _, test := range tests {
		if got := NormalizePhone(test.input); got != test.expected {
			t.Errorf("NormalizePhone(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		input    string
		expected *int64
	}{
		{"50l", int64Ptr(5000000)},
		{"50L", int64Ptr(5000000)},
		{"1.2cr", int64Ptr(12000000)},
		{"2 Cr", int64Ptr(20000000)},
		{"₹50,00,000", int64Ptr(5000000)},
		{"Rs. 75000", int64Ptr(75000)},
		{"INR 75000", int64Ptr(75000)},
		{"75000", int64Ptr(75000)},
		{"", nil},
		{"unknown", nil},
		{"-5000", nil},
	}

	for _, test := range tests {
		got := ParseBudget(test.input)
		switch {
		case got == nil && test.expected != nil:
			t.Errorf("ParseBudget(%q) = nil, expected %d", test.input, *test.expected)
		case got != nil && test.expected == nil:
			t.Errorf("ParseBudget(%q) = %d, expected nil", test.input, *got)
		case got != nil && test.expected != nil && *got != *test.expected:
			t.Errorf("ParseBudget(%q) = %d, expected %d", test.input, *got, *test.expected)
		}
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"[]", []string{}},
		{"hot,nri", []string{"hot", "nri"}},
		{" hot , nri ", []string{"hot", "nri"}},
		{`["hot","follow-up"]`, []string{"hot", "follow-up"}},
		{"hot,,nri", []string{"hot", "nri"}},
		{"null,hot,undefined", []string{"hot"}},
		{`[broken json`, []string{"[broken json"}},
	}

	for _, test := range tests {
		got := ParseTags(test.input)
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("ParseTags(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestMatchEnum(t *testing.T) {
	tests := []struct {
		field    string
		input    string
		expected string
		ok       bool
	}{
		{FieldCity, "chandigarh", "Chandigarh", true},
		{FieldCity, "chd", "Chandigarh", true},
		{FieldCity, "CHD", "Chandigarh", true},
		{FieldCity, "greater mohali", "Mohali", true}, // containment fallback
		{FieldCity, "mumbai", "mumbai", false},
		{FieldPropertyType, "flat", "Apartment", true},
		{FieldPropertyType, "2bhk flat", "Apartment", true},
		{FieldBHK, "2", "Two", true},
		{FieldBHK, "studio", "Studio", true},
		{FieldPurpose, "purchase", "Buy", true},
		{FieldTimeline, "asap", "ZeroToThree", true},
		{FieldTimeline, "3-6m", "ThreeToSix", true},
		{FieldSource, "walk-in", "WalkIn", true},
		{FieldStatus, "lost", "Dropped", true},
	}

	for _, test := range tests {
		got, ok := MatchEnum(test.field, test.input)
		if got != test.expected || ok != test.ok {
			t.Errorf("MatchEnum(%q, %q) = (%q, %v), expected (%q, %v)",
				test.field, test.input, got, ok, test.expected, test.ok)
		}
	}
}

func TestCleanLeadRow(t *testing.T) {
	fields := map[string]string{
		"fullName":     "  Rohan Mehta  ",
		"phone":        "+91 98765 43210",
		"email":        "ROHAN@Example.com",
		"city":         "chd",
		"propertyType": "flat",
		"bhk":          "2",
		"purpose":      "purchase",
		"budgetMin":    "50l",
		"budgetMax":    "1.2cr",
		"timeline":     "asap",
		"source":       "walk-in",
		"status":       "new",
		"notes":        "prefers sector 17",
		"tags":         "hot,nri",
	}

	lead := CleanLeadRow(fields)

	if lead.FullName != "Rohan Mehta" {
		t.Errorf("FullName = %q", lead.FullName)
	}
	if lead.Phone != "9876543210" {
		t.Errorf("Phone = %q", lead.Phone)
	}
	if lead.Email == nil || *lead.Email != "rohan@example.com" {
		t.Errorf("Email = %v", lead.Email)
	}
	if lead.City != "Chandigarh" {
		t.Errorf("City = %q", lead.City)
	}
	if lead.PropertyType != "Apartment" {
		t.Errorf("PropertyType = %q", lead.PropertyType)
	}
	if lead.BHK == nil || *lead.BHK != "Two" {
		t.Errorf("BHK = %v", lead.BHK)
	}
	if lead.Purpose != "Buy" {
		t.Errorf("Purpose = %q", lead.Purpose)
	}
	if lead.BudgetMin == nil || *lead.BudgetMin != 5000000 {
		t.Errorf("BudgetMin = %v", lead.BudgetMin)
	}
	if lead.BudgetMax == nil || *lead.BudgetMax != 12000000 {
		t.Errorf("BudgetMax = %v", lead.BudgetMax)
	}
	if lead.Timeline != "ZeroToThree" {
		t.Errorf("Timeline = %q", lead.Timeline)
	}
	if lead.Source != "WalkIn" {
		t.Errorf("Source = %q", lead.Source)
	}
	if lead.Status == nil || *lead.Status != "New" {
		t.Errorf("Status = %v", lead.Status)
	}
	if !reflect.DeepEqual(lead.Tags, []string{"hot", "nri"}) {
		t.Errorf("Tags = %v", lead.Tags)
	}
	if len(lead.Mappings) == 0 {
		t.Error("expected alias mappings to be recorded")
	}
}

func TestCleanLeadRowIdempotent(t *testing.T) {
	// Cleaning already-canonical data changes nothing and records no
	// mappings, so a re-imported export round-trips untouched.
	fields := map[string]string{
		"fullName":     "Rohan Mehta",
		"phone":        "9876543210",
		"city":         "Chandigarh",
		"propertyType": "Apartment",
		"bhk":          "Two",
		"purpose":      "Buy",
		"timeline":     "ZeroToThree",
		"source":       "WalkIn",
		"status":       "New",
	}

	lead := CleanLeadRow(fields)
	if lead.City != "Chandigarh" || lead.PropertyType != "Apartment" || lead.Timeline != "ZeroToThree" {
		t.Errorf("canonical values changed: %+v", lead)
	}
	if len(lead.Mappings) != 0 {
		t.Errorf("expected no mappings for canonical input, got %v", lead.Mappings)
	}
}

func TestCleanLeadRowBHKDistinction(t *testing.T) {
	base := map[string]string{
		"fullName": "A", "phone": "9876543210", "purpose": "Buy",
		"city": "Mohali", "timeline": "Exploring", "source": "Website",
	}

	t.Run("blank bhk on apartment stays present-but-empty", func(t *testing.T) {
		fields := cloneFields(base)
		fields["propertyType"] = "Apartment"
		lead := CleanLeadRow(fields)
		if lead.BHK == nil || *lead.BHK != "" {
			t.Errorf("BHK = %v, expected pointer to empty string", lead.BHK)
		}
	})

	t.Run("blank bhk on plot becomes null", func(t *testing.T) {
		fields := cloneFields(base)
		fields["propertyType"] = "Plot"
		lead := CleanLeadRow(fields)
		if lead.BHK != nil {
			t.Errorf("BHK = %v, expected nil", lead.BHK)
		}
	})
}

func cloneFields(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func int64Ptr(v int64) *int64 {
	return &v
}
