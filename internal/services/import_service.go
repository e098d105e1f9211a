package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"buyerleads/internal/utils"
	"buyerleads/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// maxImportFileSize is the upload limit for a single CSV file.
	maxImportFileSize = 5 << 20
	// maxImportRows caps how many data rows a single import processes.
	maxImportRows = 1000
)

// requiredLeadHeaders are the columns a lead CSV must carry. Optional
// columns (email, bhk, budgets, notes, tags, status) may be absent.
var requiredLeadHeaders = []string{
	"fullName", "phone", "city", "propertyType", "purpose", "timeline", "source",
}

// BuyerStore is the persistence surface the importer needs
type BuyerStore interface {
	CreateMany(ctx context.Context, buyers []*models.Buyer) error
}

// ImportService runs CSV bulk imports end to end: file checks, parsing,
// per-row cleaning and validation, and a single transactional insert of the
// valid rows.
type ImportService struct {
	buyers  BuyerStore
	storage *StorageService
}

// NewImportService creates a new import service. storage may be nil when S3
// archival is not configured.
func NewImportService(buyers BuyerStore, storage *StorageService) *ImportService {
	return &ImportService{
		buyers:  buyers,
		storage: storage,
	}
}

// ImportFromFile imports buyer leads from an uploaded CSV file. The result
// always describes every row: valid rows are inserted in one transaction,
// invalid rows are reported individually, and a database failure marks the
// whole batch as failed.
func (s *ImportService) ImportFromFile(ctx context.Context, ownerID uuid.UUID, file multipart.File, header *multipart.FileHeader) *models.ImportResult {
	result := models.NewImportResult()

	if header.Size > maxImportFileSize {
		return fileError(result, fmt.Sprintf("file too large: maximum size is %dMB", maxImportFileSize>>20))
	}
	if header.Size == 0 {
		return fileError(result, "file is empty")
	}
	if !isCSVUpload(header) {
		return fileError(result, "only CSV files are accepted")
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return fileError(result, fmt.Sprintf("failed to read file: %v", err))
	}

	s.archiveAsync(ownerID, header.Filename, content)

	parsed := utils.ParseLeadCSV(string(content))

	rows := parsed.Rows
	if len(rows) > maxImportRows {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"file contains %d rows; only the first %d were processed", len(rows), maxImportRows))
		rows = rows[:maxImportRows]
	}

	// Parser warnings about rows past the cap describe rows that were never
	// processed, so they are dropped rather than reported.
	lastRow := 0
	if len(rows) > 0 {
		lastRow = rows[len(rows)-1].Row
	}
	for _, diag := range parsed.Diagnostics {
		switch diag.Level {
		case models.DiagnosticError:
			rowErr := models.ImportRowError{Row: diag.Row, Errors: []string{diag.Message}}
			if diag.Line != "" {
				rowErr.Data = map[string]string{"line": diag.Line}
			}
			result.Errors = append(result.Errors, rowErr)
		case models.DiagnosticWarning:
			if diag.Row > lastRow {
				continue
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: %s", diag.Row, diag.Message))
		}
	}

	if len(rows) == 0 {
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:    0,
				Errors: []string{"no valid data rows found in file"},
			})
		}
		return result
	}
	result.TotalRows = len(rows)

	if ok, missing := utils.ValidateRequiredHeaders(rows, requiredLeadHeaders); !ok {
		result.Errors = append(result.Errors, models.ImportRowError{
			Row:    0,
			Errors: []string{fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))},
		})
		result.FailedImports = result.TotalRows
		return result
	}

	staged := make([]*models.Buyer, 0, len(rows))
	stagedRows := 0
	for _, row := range rows {
		lead := CleanLeadRow(row.Fields)
		validation := ValidateLead(&lead)

		for _, warning := range validation.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: %s", row.Row, warning))
		}

		if !validation.IsValid {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:    row.Row,
				Errors: validation.Errors,
				Data:   row.Fields,
			})
			continue
		}

		staged = append(staged, buildBuyer(ownerID, &lead))
		stagedRows++
	}

	result.FailedImports = result.TotalRows - stagedRows

	if len(staged) > 0 {
		if err := s.buyers.CreateMany(ctx, staged); err != nil {
			log.Error().Err(err).Int("rows", len(staged)).Msg("Bulk insert failed, import rolled back")
			result.SuccessfulImports = 0
			result.FailedImports = result.TotalRows
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:    0,
				Errors: []string{fmt.Sprintf("database error: %v", err)},
			})
			return result
		}
		result.SuccessfulImports = stagedRows
	}

	result.Success = result.SuccessfulImports > 0

	log.Info().
		Str("owner_id", ownerID.String()).
		Int("total", result.TotalRows).
		Int("imported", result.SuccessfulImports).
		Int("failed", result.FailedImports).
		Msg("CSV import finished")

	return result
}

// buildBuyer converts a validated lead into a persistable buyer owned by the
// importing user.
func buildBuyer(ownerID uuid.UUID, lead *models.CleanedLead) *models.Buyer {
	buyer := &models.Buyer{
		FullName:     lead.FullName,
		Phone:        lead.Phone,
		Email:        lead.Email,
		City:         lead.City,
		PropertyType: lead.PropertyType,
		Purpose:      lead.Purpose,
		BudgetMin:    lead.BudgetMin,
		BudgetMax:    lead.BudgetMax,
		Timeline:     lead.Timeline,
		Source:       lead.Source,
		Status:       models.StatusNew,
		Notes:        lead.Notes,
		OwnerID:      ownerID,
	}
	if lead.Status != nil {
		buyer.Status = *lead.Status
	}
	// The cleaner keeps a present-but-blank BHK distinct from an absent one
	// for validation; persistence only stores real values.
	if lead.BHK != nil && *lead.BHK != "" {
		buyer.BHK = lead.BHK
	}
	buyer.SetTags(lead.Tags)
	return buyer
}

// archiveAsync stores the raw upload to S3 in the background when storage is
// configured. Archive failures never affect the import itself.
func (s *ImportService) archiveAsync(ownerID uuid.UUID, filename string, content []byte) {
	if s.storage == nil {
		return
	}
	data := make([]byte, len(content))
	copy(data, content)
	go func() {
		if _, err := s.storage.ArchiveImportFile(ownerID, filename, data); err != nil {
			log.Warn().Err(err).Str("filename", filename).Msg("Failed to archive import file")
		}
	}()
}

// isCSVUpload accepts files by extension or declared content type.
func isCSVUpload(header *multipart.FileHeader) bool {
	if strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		return true
	}
	return strings.Contains(strings.ToLower(header.Header.Get("Content-Type")), "csv")
}

// fileError marks the whole import as rejected before any rows were read.
func fileError(result *models.ImportResult, message string) *models.ImportResult {
	result.Errors = append(result.Errors, models.ImportRowError{
		Row:    0,
		Errors: []string{message},
	})
	return result
}
