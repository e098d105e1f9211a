package utils

import (
	"fmt"
	"strings"

	"buyerleads/pkg/models"
)

// formatCheckRows is how many leading data rows must match the header's
// column count before we trust the file's overall shape.
const formatCheckRows = 5

// defaultStatusValue is appended when a data row is exactly one column
// short. The status column is last in the documented template, so a single
// missing trailing value is assumed to be an omitted status.
const defaultStatusValue = "New"

// ParseLeadCSV turns raw CSV text into header-keyed rows. It never returns
// an error: structural problems come back as diagnostics, file-level ones at
// row 0, and files that fail a structural check yield zero rows.
func ParseLeadCSV(content string) *models.ParseResult {
	result := &models.ParseResult{
		Rows:        make([]models.RawRow, 0),
		Diagnostics: make([]models.RowDiagnostic, 0),
	}

	if strings.TrimSpace(content) == "" {
		result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
			Row: 0, Level: models.DiagnosticError, Message: "file is empty",
		})
		return result
	}

	// Blank lines are dropped everywhere, header included.
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
			Row: 0, Level: models.DiagnosticError,
			Message: "file must contain a header row and at least one data row",
		})
		return result
	}

	if !strings.Contains(lines[0], ",") {
		result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
			Row: 0, Level: models.DiagnosticError,
			Message: "header row is not comma-separated",
			Line:    lines[0],
		})
		return result
	}

	headers := SplitCSVLine(lines[0])
	dataLines := lines[1:]

	// Format pre-check: the first few data rows must match the header
	// exactly. A mismatch this early means the delimiter or quoting is
	// wrong for the whole file, so reject it with one aggregate error
	// instead of mangling every row.
	var mismatches []string
	for i, line := range dataLines {
		if i >= formatCheckRows {
			break
		}
		if n := len(SplitCSVLine(line)); n != len(headers) {
			mismatches = append(mismatches, fmt.Sprintf("row %d has %d columns", i+2, n))
		}
	}
	if len(mismatches) > 0 {
		result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
			Row: 0, Level: models.DiagnosticError,
			Message: fmt.Sprintf("invalid CSV format: %s, expected %d columns matching the header",
				strings.Join(mismatches, "; "), len(headers)),
		})
		return result
	}

	for i, line := range dataLines {
		rowNum := i + 2 // header is line 1
		values := SplitCSVLine(line)

		switch {
		case len(values) == len(headers)-1:
			// One short: assume the trailing status column was omitted.
			values = append(values, defaultStatusValue)
			result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
				Row: rowNum, Level: models.DiagnosticWarning,
				Message: fmt.Sprintf("row has %d columns, expected %d; assumed missing trailing status column and used %q",
					len(values)-1, len(headers), defaultStatusValue),
				Line: line,
			})
		case len(values) > len(headers):
			extra := len(values) - len(headers)
			values = values[:len(headers)]
			result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
				Row: rowNum, Level: models.DiagnosticWarning,
				Message: fmt.Sprintf("row has %d extra columns; they were ignored", extra),
				Line:    line,
			})
		case len(values) < len(headers)-1:
			missing := len(headers) - len(values)
			for len(values) < len(headers) {
				values = append(values, "")
			}
			result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
				Row: rowNum, Level: models.DiagnosticWarning,
				Message: fmt.Sprintf("row is missing %d columns; they were left empty", missing),
				Line:    line,
			})
		}

		fields := make(map[string]string, len(headers))
		for j, name := range headers {
			if j < len(values) {
				fields[name] = values[j]
			} else {
				fields[name] = ""
			}
		}

		result.Rows = append(result.Rows, models.RawRow{
			Row:    rowNum,
			Line:   line,
			Fields: fields,
		})
	}

	return result
}

// SplitCSVLine splits one CSV line on unquoted commas. Fields may be wrapped
// in double quotes, a doubled quote inside a quoted field is a literal quote,
// and every field is trimmed of surrounding whitespace.
func SplitCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// ValidateRequiredHeaders reports whether every required header appears as a
// key of the first parsed row, and which ones are absent. Zero rows means
// every header is missing.
func ValidateRequiredHeaders(rows []models.RawRow, required []string) (bool, []string) {
	if len(rows) == 0 {
		missing := make([]string, len(required))
		copy(missing, required)
		return false, missing
	}

	var missing []string
	for _, name := range required {
		if _, ok := rows[0].Fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return len(missing) == 0, missing
}
