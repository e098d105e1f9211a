package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"buyerleads/internal/repo"
	"buyerleads/internal/services"
	"buyerleads/pkg/models"

	"github.com/labstack/echo/v4"
)

// BuyerExportHandler streams filtered leads as a CSV download
type BuyerExportHandler struct {
	buyerService *services.BuyerService
}

// NewBuyerExportHandler creates a new export handler
func NewBuyerExportHandler(buyerService *services.BuyerService) *BuyerExportHandler {
	return &BuyerExportHandler{
		buyerService: buyerService,
	}
}

// exportHeader mirrors the import file format, so an exported file can be
// re-imported without editing.
var exportHeader = []string{
	"fullName", "phone", "email", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// Export godoc
// @Summary Export buyer leads as CSV
// @Description Download every lead matching the current filters as a CSV file in the import format
// @Tags buyers
// @Produce text/csv
// @Param city query string false "Filter by city"
// @Param propertyType query string false "Filter by property type"
// @Param status query string false "Filter by status"
// @Param timeline query string false "Filter by timeline"
// @Param search query string false "Search in name, phone and email"
// @Success 200 {string} string "CSV file"
// @Failure 500 {object} map[string]string
// @Router /buyers/export [get]
// @Security BearerAuth
func (h *BuyerExportHandler) Export(c echo.Context) error {
	var filters repo.BuyerFilters
	if err := c.Bind(&filters); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query parameters"})
	}

	buyers, err := h.buyerService.ListAll(filters)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch leads"})
	}

	filename := fmt.Sprintf("buyers_%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Response().WriteHeader(http.StatusOK)

	writer := csv.NewWriter(c.Response().Writer)
	defer writer.Flush()

	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for i := range buyers {
		if err := writer.Write(exportRecord(&buyers[i])); err != nil {
			return err
		}
	}

	return nil
}

func exportRecord(b *models.Buyer) []string {
	return []string{
		b.FullName,
		b.Phone,
		strOrEmpty(b.Email),
		b.City,
		b.PropertyType,
		strOrEmpty(b.BHK),
		b.Purpose,
		intOrEmpty(b.BudgetMin),
		intOrEmpty(b.BudgetMax),
		b.Timeline,
		b.Source,
		strOrEmpty(b.Notes),
		strings.Join(b.TagList(), ","),
		b.Status,
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOrEmpty(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}
