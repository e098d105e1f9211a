package models

// DiagnosticLevel classifies a parser diagnostic
type DiagnosticLevel string

const (
	DiagnosticError   DiagnosticLevel = "error"
	DiagnosticWarning DiagnosticLevel = "warning"
)

// RowDiagnostic is a parser message tied to one input row. Row 0 means the
// diagnostic concerns the file as a whole.
type RowDiagnostic struct {
	Row     int             `json:"row"`
	Level   DiagnosticLevel `json:"level"`
	Message string          `json:"message"`
	Line    string          `json:"line,omitempty"`
}

// RawRow is one parsed CSV data row keyed by header name. Row carries the
// spreadsheet-style line number: the header is line 1, so the first data row
// is reported as row 2.
type RawRow struct {
	Row    int               `json:"row"`
	Line   string            `json:"line"`
	Fields map[string]string `json:"fields"`
}

// ParseResult is the output of the CSV parser
type ParseResult struct {
	Rows        []RawRow        `json:"rows"`
	Diagnostics []RowDiagnostic `json:"diagnostics"`
}

// EnumMapping records an alias or fuzzy match the cleaner applied to an
// enum field, so validation can surface it as a warning.
type EnumMapping struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// CleanedLead is one buyer row after normalization. Enum fields hold a
// canonical label when the cleaner could map the input and the original
// string otherwise, so validation reports unmapped values instead of
// silently dropping them. A non-nil empty BHK means the column was present
// but blank on a property type that requires it.
type CleanedLead struct {
	FullName     string
	Phone        string
	Email        *string
	City         string
	PropertyType string
	BHK          *string
	Purpose      string
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     string
	Source       string
	Status       *string
	Notes        *string
	Tags         []string

	Mappings []EnumMapping
}

// ValidationResult is the outcome of validating one cleaned lead. Errors
// block the row; warnings describe auto-fixes that were applied.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ImportRowError describes why a single row failed to import
type ImportRowError struct {
	Row    int               `json:"row"`
	Errors []string          `json:"errors"`
	Data   map[string]string `json:"data,omitempty"`
}

// ImportResult is the aggregate outcome of one CSV import. Field names are
// part of the API contract consumed by the UI.
type ImportResult struct {
	Success           bool             `json:"success"`
	TotalRows         int              `json:"totalRows"`
	SuccessfulImports int              `json:"successfulImports"`
	FailedImports     int              `json:"failedImports"`
	Errors            []ImportRowError `json:"errors"`
	Warnings          []string         `json:"warnings"`
}

// NewImportResult creates an empty result with non-nil slices so the JSON
// payload always carries arrays.
func NewImportResult() *ImportResult {
	return &ImportResult{
		Errors:   make([]ImportRowError, 0),
		Warnings: make([]string, 0),
	}
}
