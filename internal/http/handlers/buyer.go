package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"buyerleads/internal/repo"
	"buyerleads/internal/services"
	"buyerleads/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// BuyerHandler handles buyer lead endpoints
type BuyerHandler struct {
	buyerService *services.BuyerService
}

// NewBuyerHandler creates a new buyer handler
func NewBuyerHandler(buyerService *services.BuyerService) *BuyerHandler {
	return &BuyerHandler{
		buyerService: buyerService,
	}
}

// List godoc
// @Summary List buyer leads
// @Description Get a filtered, paginated page of leads ordered by most recently updated
// @Tags buyers
// @Produce json
// @Param city query string false "Filter by city"
// @Param propertyType query string false "Filter by property type"
// @Param status query string false "Filter by status"
// @Param timeline query string false "Filter by timeline"
// @Param search query string false "Search in name, phone and email"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} models.PaginationResult[models.Buyer]
// @Failure 500 {object} map[string]string
// @Router /buyers [get]
// @Security BearerAuth
func (h *BuyerHandler) List(c echo.Context) error {
	var filters repo.BuyerFilters
	if err := c.Bind(&filters); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query parameters"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	result, err := h.buyerService.List(filters, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch leads"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetByID godoc
// @Summary Get buyer lead by ID
// @Description Get a lead together with its recent change history
// @Tags buyers
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} models.BuyerDetail
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /buyers/{id} [get]
// @Security BearerAuth
func (h *BuyerHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
	}

	detail, err := h.buyerService.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "lead not found"})
	}

	return c.JSON(http.StatusOK, detail)
}

// Create godoc
// @Summary Create buyer lead
// @Description Create a new lead owned by the current user
// @Tags buyers
// @Accept json
// @Produce json
// @Param buyer body models.CreateBuyerRequest true "Lead data"
// @Success 201 {object} models.Buyer
// @Failure 400 {object} map[string]string
// @Router /buyers [post]
// @Security BearerAuth
func (h *BuyerHandler) Create(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found"})
	}

	var req models.CreateBuyerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if errs := validateLeadFields(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "details": errs})
	}

	buyer, err := h.buyerService.Create(userID, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, buyer)
}

// Update godoc
// @Summary Update buyer lead
// @Description Update an existing lead. The request must carry the updatedAt timestamp last read by the client; a mismatch is rejected as a stale write.
// @Tags buyers
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param buyer body models.UpdateBuyerRequest true "Lead data"
// @Success 200 {object} models.Buyer
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /buyers/{id} [put]
// @Security BearerAuth
func (h *BuyerHandler) Update(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found"})
	}
	role, _ := c.Get("user_role").(string)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
	}

	var req models.UpdateBuyerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if errs := validateLeadFields(&req.CreateBuyerRequest); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "details": errs})
	}

	buyer, err := h.buyerService.Update(id, userID, role, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrStaleRecord):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "lead not found"})
		default:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, buyer)
}

// Delete godoc
// @Summary Delete buyer lead
// @Description Delete a lead. Only the owner or an admin may delete.
// @Tags buyers
// @Param id path string true "Lead ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /buyers/{id} [delete]
// @Security BearerAuth
func (h *BuyerHandler) Delete(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found"})
	}
	role, _ := c.Get("user_role").(string)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
	}

	if err := h.buyerService.Delete(id, userID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "lead not found"})
		default:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// GetHistory godoc
// @Summary Get lead change history
// @Description Get the most recent changes recorded for a lead
// @Tags buyers
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {array} models.BuyerHistory
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /buyers/{id}/history [get]
// @Security BearerAuth
func (h *BuyerHandler) GetHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
	}

	detail, err := h.buyerService.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "lead not found"})
	}

	return c.JSON(http.StatusOK, detail.History)
}

// validateLeadFields runs the same enum and cross-field rules the CSV
// importer applies, so API writes and imports accept identical data.
func validateLeadFields(req *models.CreateBuyerRequest) []string {
	lead := models.CleanedLead{
		FullName:     req.FullName,
		Phone:        services.NormalizePhone(req.Phone),
		Email:        req.Email,
		City:         req.City,
		PropertyType: req.PropertyType,
		BHK:          req.BHK,
		Purpose:      req.Purpose,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       req.Status,
		Notes:        req.Notes,
		Tags:         req.Tags,
	}
	if lead.BHK == nil && (req.PropertyType == "Apartment" || req.PropertyType == "Villa") {
		empty := ""
		lead.BHK = &empty
	}

	validation := services.ValidateLead(&lead)
	if !validation.IsValid {
		return validation.Errors
	}

	// Validation canonicalizes enum aliases in place; persist the canonical
	// form, not what the client typed.
	req.Phone = lead.Phone
	req.City = lead.City
	req.PropertyType = lead.PropertyType
	req.Purpose = lead.Purpose
	req.Timeline = lead.Timeline
	req.Source = lead.Source
	if lead.BHK == nil {
		req.BHK = nil
	} else if *lead.BHK != "" {
		req.BHK = lead.BHK
	}
	req.Status = lead.Status
	return nil
}
