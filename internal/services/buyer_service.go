package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"buyerleads/internal/repo"
	"buyerleads/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrForbidden means the caller does not own the record and is not an admin
	ErrForbidden = errors.New("you can only modify your own leads")
	// ErrStaleRecord means the record changed since the caller last read it
	ErrStaleRecord = errors.New("record changed, please refresh")
)

// historyLimit is how many recent changes the detail view returns.
const historyLimit = 5

// BuyerService implements lead CRUD with ownership checks, concurrency
// control and change history.
type BuyerService struct {
	buyers  *repo.BuyerRepository
	history *repo.HistoryRepository
}

// NewBuyerService creates a new buyer service
func NewBuyerService(buyers *repo.BuyerRepository, history *repo.HistoryRepository) *BuyerService {
	return &BuyerService{
		buyers:  buyers,
		history: history,
	}
}

// Create creates a new lead owned by userID and records a creation entry in
// its history.
func (s *BuyerService) Create(userID uuid.UUID, req models.CreateBuyerRequest) (*models.Buyer, error) {
	buyer := &models.Buyer{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		City:         req.City,
		PropertyType: req.PropertyType,
		BHK:          req.BHK,
		Purpose:      req.Purpose,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       models.StatusNew,
		Notes:        req.Notes,
		OwnerID:      userID,
	}
	if req.Status != nil && *req.Status != "" {
		buyer.Status = *req.Status
	}
	buyer.SetTags(req.Tags)

	if err := s.buyers.Create(buyer); err != nil {
		return nil, err
	}

	s.recordHistory(buyer.ID, userID, map[string]models.FieldChange{
		"created": {Old: nil, New: buyer.FullName},
	})

	return buyer, nil
}

// Get returns a lead together with its most recent history entries.
func (s *BuyerService) Get(id uuid.UUID) (*models.BuyerDetail, error) {
	buyer, err := s.buyers.GetByID(id)
	if err != nil {
		return nil, err
	}

	history, err := s.history.ListByBuyer(id, historyLimit)
	if err != nil {
		return nil, err
	}

	return &models.BuyerDetail{Buyer: *buyer, History: history}, nil
}

// List returns a filtered page of leads
func (s *BuyerService) List(filters repo.BuyerFilters, limit, offset int) (*models.PaginationResult[models.Buyer], error) {
	return s.buyers.List(filters, limit, offset)
}

// Update applies req to the lead. Only the owner or an admin may update, and
// req.UpdatedAt must match the stored timestamp or the write is rejected as
// stale. Every changed field is recorded in the lead's history.
func (s *BuyerService) Update(id, userID uuid.UUID, role string, req models.UpdateBuyerRequest) (*models.Buyer, error) {
	buyer, err := s.buyers.GetByID(id)
	if err != nil {
		return nil, err
	}

	if buyer.OwnerID != userID && role != "admin" {
		return nil, ErrForbidden
	}

	if !buyer.UpdatedAt.Truncate(time.Millisecond).Equal(req.UpdatedAt.Truncate(time.Millisecond)) {
		return nil, ErrStaleRecord
	}

	diff := diffBuyer(buyer, req)

	buyer.FullName = req.FullName
	buyer.Phone = req.Phone
	buyer.Email = req.Email
	buyer.City = req.City
	buyer.PropertyType = req.PropertyType
	buyer.BHK = req.BHK
	buyer.Purpose = req.Purpose
	buyer.BudgetMin = req.BudgetMin
	buyer.BudgetMax = req.BudgetMax
	buyer.Timeline = req.Timeline
	buyer.Source = req.Source
	buyer.Notes = req.Notes
	if req.Status != nil && *req.Status != "" {
		buyer.Status = *req.Status
	}
	buyer.SetTags(req.Tags)

	if err := s.buyers.Update(buyer); err != nil {
		return nil, err
	}

	if len(diff) > 0 {
		s.recordHistory(buyer.ID, userID, diff)
	}

	return buyer, nil
}

// Delete removes a lead. Only the owner or an admin may delete.
func (s *BuyerService) Delete(id, userID uuid.UUID, role string) error {
	buyer, err := s.buyers.GetByID(id)
	if err != nil {
		return err
	}

	if buyer.OwnerID != userID && role != "admin" {
		return ErrForbidden
	}

	return s.buyers.Delete(id)
}

// ListAll returns every lead matching the filters, for export.
func (s *BuyerService) ListAll(filters repo.BuyerFilters) ([]models.Buyer, error) {
	return s.buyers.ListAll(filters)
}

// recordHistory persists a change diff. History failures are logged but do
// not fail the write that produced them.
func (s *BuyerService) recordHistory(buyerID, userID uuid.UUID, diff map[string]models.FieldChange) {
	data, err := json.Marshal(diff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode history diff")
		return
	}

	entry := &models.BuyerHistory{
		BuyerID:   buyerID,
		ChangedBy: userID,
		Diff:      string(data),
	}
	if err := s.history.Create(entry); err != nil {
		log.Error().Err(err).Str("buyer_id", buyerID.String()).Msg("Failed to record buyer history")
	}
}

// diffBuyer computes the field-level changes req would apply to buyer.
func diffBuyer(buyer *models.Buyer, req models.UpdateBuyerRequest) map[string]models.FieldChange {
	diff := make(map[string]models.FieldChange)

	compare := func(field string, oldVal, newVal interface{}) {
		if !reflect.DeepEqual(oldVal, newVal) {
			diff[field] = models.FieldChange{Old: oldVal, New: newVal}
		}
	}

	compare("fullName", buyer.FullName, req.FullName)
	compare("phone", buyer.Phone, req.Phone)
	compare("email", derefString(buyer.Email), derefString(req.Email))
	compare("city", buyer.City, req.City)
	compare("propertyType", buyer.PropertyType, req.PropertyType)
	compare("bhk", derefString(buyer.BHK), derefString(req.BHK))
	compare("purpose", buyer.Purpose, req.Purpose)
	compare("budgetMin", derefInt(buyer.BudgetMin), derefInt(req.BudgetMin))
	compare("budgetMax", derefInt(buyer.BudgetMax), derefInt(req.BudgetMax))
	compare("timeline", buyer.Timeline, req.Timeline)
	compare("source", buyer.Source, req.Source)
	compare("notes", derefString(buyer.Notes), derefString(req.Notes))

	if req.Status != nil && *req.Status != "" && *req.Status != buyer.Status {
		diff["status"] = models.FieldChange{Old: buyer.Status, New: *req.Status}
	}

	newTags := req.Tags
	if newTags == nil {
		newTags = []string{}
	}
	if !reflect.DeepEqual(buyer.TagList(), newTags) {
		diff["tags"] = models.FieldChange{Old: buyer.TagList(), New: newTags}
	}

	return diff
}

func derefString(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
