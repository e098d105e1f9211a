package repo

import (
	"buyerleads/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository handles buyer change-history data access
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create appends a history entry
func (r *HistoryRepository) Create(entry *models.BuyerHistory) error {
	return r.db.Create(entry).Error
}

// ListByBuyer returns the most recent history entries for a buyer
func (r *HistoryRepository) ListByBuyer(buyerID uuid.UUID, limit int) ([]models.BuyerHistory, error) {
	var entries []models.BuyerHistory
	err := r.db.Where("buyer_id = ?", buyerID).
		Order("changed_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
