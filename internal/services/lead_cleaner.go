package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"buyerleads/pkg/models"
)

// aliasEntry is one lookup key for an enum field. Alias tables are ordered
// slices, never maps: the fuzzy fallback takes the first containment match,
// so iteration order is part of the behavior.
type aliasEntry struct {
	key       string
	canonical string
}

// Enum field names as they appear in CSV headers and API payloads.
const (
	FieldCity         = "city"
	FieldPropertyType = "propertyType"
	FieldBHK          = "bhk"
	FieldPurpose      = "purpose"
	FieldTimeline     = "timeline"
	FieldSource       = "source"
	FieldStatus       = "status"
)

var cityAliases = []aliasEntry{
	{"chandigarh", "Chandigarh"},
	{"chd", "Chandigarh"},
	{"mohali", "Mohali"},
	{"sas nagar", "Mohali"},
	{"zirakpur", "Zirakpur"},
	{"panchkula", "Panchkula"},
	{"pkl", "Panchkula"},
	{"other", "Other"},
}

var propertyTypeAliases = []aliasEntry{
	{"apartment", "Apartment"},
	{"apt", "Apartment"},
	{"flat", "Apartment"},
	{"villa", "Villa"},
	{"house", "Villa"},
	{"plot", "Plot"},
	{"land", "Plot"},
	{"office", "Office"},
	{"commercial office", "Office"},
	{"retail", "Retail"},
	{"shop", "Retail"},
}

var bhkAliases = []aliasEntry{
	{"studio", "Studio"},
	{"0bhk", "Studio"},
	{"0", "Studio"},
	{"one", "One"},
	{"1bhk", "One"},
	{"1", "One"},
	{"two", "Two"},
	{"2bhk", "Two"},
	{"2", "Two"},
	{"three", "Three"},
	{"3bhk", "Three"},
	{"3", "Three"},
	{"four", "Four"},
	{"4bhk", "Four"},
	{"4", "Four"},
}

var purposeAliases = []aliasEntry{
	{"buy", "Buy"},
	{"purchase", "Buy"},
	{"rent", "Rent"},
	{"rental", "Rent"},
	{"lease", "Rent"},
}

var timelineAliases = []aliasEntry{
	{"zerotothree", "ZeroToThree"},
	{"0-3m", "ZeroToThree"},
	{"0-3", "ZeroToThree"},
	{"immediate", "ZeroToThree"},
	{"asap", "ZeroToThree"},
	{"threetosix", "ThreeToSix"},
	{"3-6m", "ThreeToSix"},
	{"3-6", "ThreeToSix"},
	{"morethansix", "MoreThanSix"},
	{">6m", "MoreThanSix"},
	{">6", "MoreThanSix"},
	{"6+", "MoreThanSix"},
	{"exploring", "Exploring"},
	{"browsing", "Exploring"},
	{"just looking", "Exploring"},
}

var sourceAliases = []aliasEntry{
	{"website", "Website"},
	{"web", "Website"},
	{"online", "Website"},
	{"referral", "Referral"},
	{"reference", "Referral"},
	{"walkin", "WalkIn"},
	{"walk-in", "WalkIn"},
	{"walk in", "WalkIn"},
	{"call", "Call"},
	{"phone", "Call"},
	{"other", "Other"},
}

var statusAliases = []aliasEntry{
	{"new", "New"},
	{"qualified", "Qualified"},
	{"contacted", "Contacted"},
	{"visited", "Visited"},
	{"negotiation", "Negotiation"},
	{"negotiating", "Negotiation"},
	{"converted", "Converted"},
	{"closed", "Converted"},
	{"dropped", "Dropped"},
	{"lost", "Dropped"},
}

var enumAliases = map[string][]aliasEntry{
	FieldCity:         cityAliases,
	FieldPropertyType: propertyTypeAliases,
	FieldBHK:          bhkAliases,
	FieldPurpose:      purposeAliases,
	FieldTimeline:     timelineAliases,
	FieldSource:       sourceAliases,
	FieldStatus:       statusAliases,
}

var nonDigitPattern = regexp.MustCompile(`\D`)

// MatchEnum maps a raw value onto a canonical enum label for the given
// field. It tries an exact alias-key match first, then a substring
// containment match in table order. The second return is false when nothing
// matched.
func MatchEnum(field, value string) (string, bool) {
	aliases, ok := enumAliases[field]
	if !ok {
		return value, false
	}

	needle := strings.ToLower(strings.TrimSpace(value))
	if needle == "" {
		return "", false
	}

	for _, entry := range aliases {
		if entry.key == needle {
			return entry.canonical, true
		}
	}
	// Fuzzy pass: first containment match wins.
	for _, entry := range aliases {
		if strings.Contains(needle, entry.key) || strings.Contains(entry.key, needle) {
			return entry.canonical, true
		}
	}
	return value, false
}

// CleanLeadRow normalizes one raw CSV row into a typed lead. It is a pure
// transformation: unmapped enum values stay as the original input so the
// validator can report them, and every alias or fuzzy mapping that was
// applied is recorded on the result.
func CleanLeadRow(fields map[string]string) models.CleanedLead {
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}

	lead := models.CleanedLead{
		FullName: get("fullName"),
		Phone:    NormalizePhone(get("phone")),
	}

	if email := strings.ToLower(get("email")); email != "" {
		lead.Email = &email
	}

	lead.City = cleanEnum(&lead, FieldCity, get("city"))
	lead.PropertyType = cleanEnum(&lead, FieldPropertyType, get("propertyType"))
	lead.Purpose = cleanEnum(&lead, FieldPurpose, get("purpose"))
	lead.Timeline = cleanEnum(&lead, FieldTimeline, get("timeline"))
	lead.Source = cleanEnum(&lead, FieldSource, get("source"))

	if status := cleanEnum(&lead, FieldStatus, get("status")); status != "" {
		lead.Status = &status
	}

	lead.BudgetMin = ParseBudget(get("budgetMin"))
	lead.BudgetMax = ParseBudget(get("budgetMax"))

	if notes := get("notes"); notes != "" {
		lead.Notes = &notes
	}

	lead.Tags = ParseTags(get("tags"))

	// BHK keeps the null/empty distinction: a blank value is only nulled
	// for property types that cannot have one, otherwise it stays an empty
	// string so validation reports the missing requirement.
	bhk := get("bhk")
	if bhk != "" {
		bhk = cleanEnum(&lead, FieldBHK, bhk)
		lead.BHK = &bhk
	} else if lead.PropertyType != "Plot" && lead.PropertyType != "Office" && lead.PropertyType != "Retail" {
		empty := ""
		lead.BHK = &empty
	}

	return lead
}

// cleanEnum maps value for field, recording the mapping when the input was
// not already the canonical label.
func cleanEnum(lead *models.CleanedLead, field, value string) string {
	if value == "" {
		return ""
	}
	mapped, ok := MatchEnum(field, value)
	if !ok {
		return value
	}
	if mapped != value {
		lead.Mappings = append(lead.Mappings, models.EnumMapping{Field: field, From: value, To: mapped})
	}
	return mapped
}

// NormalizePhone strips everything but digits and drops a leading Indian
// country code when the remainder is a plausible 10-digit number.
func NormalizePhone(value string) string {
	digits := nonDigitPattern.ReplaceAllString(value, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		return digits[2:]
	}
	return digits
}

// ParseBudget parses an Indian-format budget amount. "50l"/"50L" means 50
// lakhs, "1.2cr" means 1.2 crores, anything else is taken as a plain number
// after currency symbols, commas and spaces are removed. Unparseable input
// yields nil, which validation treats as absent rather than invalid.
func ParseBudget(value string) *int64 {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	for _, r := range []string{"₹", "rs.", "rs", "inr", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, r, "")
	}
	if cleaned == "" {
		return nil
	}

	multiplier := float64(1)
	switch {
	case strings.HasSuffix(cleaned, "cr"):
		multiplier = 10000000
		cleaned = strings.TrimSuffix(cleaned, "cr")
	case strings.HasSuffix(cleaned, "l"):
		multiplier = 100000
		cleaned = strings.TrimSuffix(cleaned, "l")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < 0 {
		return nil
	}

	result := int64(amount * multiplier)
	return &result
}

// ParseTags accepts either a JSON array or comma-separated text and returns
// trimmed, non-empty tags. Stray JSON artifacts left by spreadsheet editing
// ("null", "undefined", "[]") are filtered out.
func ParseTags(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == "[]" {
		return []string{}
	}

	var raw []string
	if strings.HasPrefix(value, "[") {
		if err := json.Unmarshal([]byte(value), &raw); err != nil {
			raw = strings.Split(value, ",")
		}
	} else {
		raw = strings.Split(value, ",")
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "null" || tag == "undefined" || tag == "[]" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
