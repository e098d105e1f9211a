package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"buyerleads/pkg/models"

	"github.com/google/uuid"
)

type memBuyerStore struct {
	created []*models.Buyer
	calls   int
	err     error
}

func (m *memBuyerStore) CreateMany(ctx context.Context, buyers []*models.Buyer) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, buyers...)
	return nil
}

// makeUpload builds a real multipart upload so the importer sees the same
// file/header pair a handler would hand it.
func makeUpload(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return file, header
}

const importHeader = "fullName,phone,city,propertyType,bhk,purpose,timeline,source"

func importRow(name, phone string) string {
	return fmt.Sprintf("%s,%s,Chandigarh,Apartment,Two,Buy,ZeroToThree,Website", name, phone)
}

func TestImportFromFilePartialSuccess(t *testing.T) {
	content := strings.Join([]string{
		importHeader,
		importRow("Rohan Mehta", "9876543210"),
		importRow("Bad Phone", "123"),
		importRow("Asha Verma", "9876543211"),
	}, "\n")

	store := &memBuyerStore{}
	svc := NewImportService(store, nil)
	ownerID := uuid.New()

	file, header := makeUpload(t, "leads.csv", content)
	defer file.Close()

	result := svc.ImportFromFile(context.Background(), ownerID, file, header)

	if !result.Success {
		t.Errorf("Success = false, expected true: %+v", result)
	}
	if result.TotalRows != 3 || result.SuccessfulImports != 2 || result.FailedImports != 1 {
		t.Errorf("totals = %d/%d/%d, expected 3/2/1",
			result.TotalRows, result.SuccessfulImports, result.FailedImports)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one row error, got %v", result.Errors)
	}
	// The bad row is the second data row, so row 3.
	rowErr := result.Errors[0]
	if rowErr.Row != 3 {
		t.Errorf("error row = %d, expected 3", rowErr.Row)
	}
	if rowErr.Data["fullName"] != "Bad Phone" {
		t.Errorf("error data = %v, expected the raw row fields", rowErr.Data)
	}

	if len(store.created) != 2 {
		t.Fatalf("store holds %d buyers, expected 2", len(store.created))
	}
	first := store.created[0]
	if first.OwnerID != ownerID {
		t.Errorf("OwnerID = %v, expected %v", first.OwnerID, ownerID)
	}
	if first.Status != "New" {
		t.Errorf("Status = %q, expected New", first.Status)
	}
	if first.City != "Chandigarh" || first.PropertyType != "Apartment" {
		t.Errorf("imported buyer = %+v", first)
	}
}

func TestImportFromFileMissingRequiredColumns(t *testing.T) {
	content := strings.Join([]string{
		"fullName,phone,city,propertyType,bhk,purpose,timeline", // no source
		"Rohan,9876543210,Chandigarh,Apartment,Two,Buy,ZeroToThree",
	}, "\n")

	store := &memBuyerStore{}
	svc := NewImportService(store, nil)

	file, header := makeUpload(t, "leads.csv", content)
	defer file.Close()

	result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)

	if result.Success {
		t.Error("expected failed import")
	}
	if result.TotalRows != 1 || result.FailedImports != 1 || result.SuccessfulImports != 0 {
		t.Errorf("totals = %d/%d/%d, expected 1/0/1",
			result.TotalRows, result.SuccessfulImports, result.FailedImports)
	}
	if !hasRowError(result, 0, "missing required columns: source") {
		t.Errorf("errors = %v", result.Errors)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, expected 0", store.calls)
	}
}

func TestImportFromFileRowCap(t *testing.T) {
	lines := []string{importHeader}
	for i := 0; i < 1005; i++ {
		lines = append(lines, importRow(fmt.Sprintf("Lead %d", i), fmt.Sprintf("98765%05d", i)))
	}
	// A malformed row past the cap: the parser warns about it, but the
	// import never processes it, so the warning must not surface.
	lines = append(lines, importRow("Beyond Cap", "9876599999")+",junk")

	store := &memBuyerStore{}
	svc := NewImportService(store, nil)

	file, header := makeUpload(t, "leads.csv", strings.Join(lines, "\n"))
	defer file.Close()

	result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)

	if result.TotalRows != 1000 {
		t.Errorf("TotalRows = %d, expected 1000", result.TotalRows)
	}
	if result.SuccessfulImports != 1000 {
		t.Errorf("SuccessfulImports = %d, expected 1000", result.SuccessfulImports)
	}
	if !hasWarningWith(result, "1006 rows") || !hasWarningWith(result, "first 1000") {
		t.Errorf("expected a cap warning naming both counts, got %v", result.Warnings)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "Row 1007") || strings.Contains(w, "extra columns") {
			t.Errorf("warning cites a row beyond the cap: %q", w)
		}
	}
}

func TestImportFromFileBulkInsertFailure(t *testing.T) {
	content := strings.Join([]string{
		importHeader,
		importRow("Rohan", "9876543210"),
		importRow("Asha", "9876543211"),
	}, "\n")

	store := &memBuyerStore{err: errors.New("connection reset")}
	svc := NewImportService(store, nil)

	file, header := makeUpload(t, "leads.csv", content)
	defer file.Close()

	result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)

	if result.Success {
		t.Error("expected failed import")
	}
	// The insert is atomic: a database failure fails every row, including
	// ones that validated cleanly.
	if result.SuccessfulImports != 0 || result.FailedImports != 2 {
		t.Errorf("totals = %d/%d, expected 0 successful and 2 failed",
			result.SuccessfulImports, result.FailedImports)
	}
	if !hasRowError(result, 0, "database error") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestImportFromFileRejectsBadUploads(t *testing.T) {
	store := &memBuyerStore{}
	svc := NewImportService(store, nil)

	t.Run("empty file", func(t *testing.T) {
		file, header := makeUpload(t, "leads.csv", "")
		defer file.Close()
		result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)
		if result.Success || !hasRowError(result, 0, "file is empty") {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("not a csv", func(t *testing.T) {
		file, header := makeUpload(t, "leads.xlsx", "some content")
		defer file.Close()
		result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)
		if result.Success || !hasRowError(result, 0, "only CSV files are accepted") {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		file, header := makeUpload(t, "leads.csv", strings.Repeat("x", 5<<20+1))
		defer file.Close()
		result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)
		if result.Success || !hasRowError(result, 0, "file too large") {
			t.Errorf("errors = %v", result.Errors)
		}
	})

	if store.calls != 0 {
		t.Errorf("store called %d times, expected 0", store.calls)
	}
}

func TestImportFromFileNoValidRows(t *testing.T) {
	content := strings.Join([]string{
		importHeader,
		importRow("Bad", "123"),
	}, "\n")

	store := &memBuyerStore{}
	svc := NewImportService(store, nil)

	file, header := makeUpload(t, "leads.csv", content)
	defer file.Close()

	result := svc.ImportFromFile(context.Background(), uuid.New(), file, header)

	if result.Success {
		t.Error("expected Success=false when nothing imported")
	}
	if result.SuccessfulImports != 0 || result.FailedImports != 1 {
		t.Errorf("totals = %d/%d, expected 0/1", result.SuccessfulImports, result.FailedImports)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, expected 0", store.calls)
	}
}

func hasRowError(result *models.ImportResult, row int, substr string) bool {
	for _, e := range result.Errors {
		if e.Row != row {
			continue
		}
		for _, msg := range e.Errors {
			if strings.Contains(msg, substr) {
				return true
			}
		}
	}
	return false
}

func hasWarningWith(result *models.ImportResult, substr string) bool {
	for _, w := range result.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
