package handlers

import (
	"net/http"

	"buyerleads/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BuyerImportHandler handles CSV bulk import of leads
type BuyerImportHandler struct {
	importService *services.ImportService
}

// NewBuyerImportHandler creates a new import handler
func NewBuyerImportHandler(importService *services.ImportService) *BuyerImportHandler {
	return &BuyerImportHandler{
		importService: importService,
	}
}

// Import godoc
// @Summary Import buyer leads from CSV
// @Description Bulk import leads from an uploaded CSV file. Valid rows are inserted in one transaction; the response reports every rejected row with its errors. The HTTP status is 200 even when individual rows fail.
// @Tags buyers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file to import (max 5MB, 1000 rows)"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /buyers/import [post]
// @Security BearerAuth
func (h *BuyerImportHandler) Import(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found"})
	}

	file, header, err := c.Request().FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file not found in request"})
	}
	defer file.Close()

	result := h.importService.ImportFromFile(c.Request().Context(), userID, file, header)

	return c.JSON(http.StatusOK, result)
}
