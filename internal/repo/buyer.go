package repo

import (
	"context"

	"buyerleads/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuyerFilters represents filters for buyer list queries
type BuyerFilters struct {
	City         string `query:"city"`
	PropertyType string `query:"propertyType"`
	Status       string `query:"status"`
	Timeline     string `query:"timeline"`
	Search       string `query:"search"`
}

// BuyerRepository handles buyer lead data access
type BuyerRepository struct {
	db *gorm.DB
}

// NewBuyerRepository creates a new buyer repository
func NewBuyerRepository(db *gorm.DB) *BuyerRepository {
	return &BuyerRepository{db: db}
}

// GetByID gets a buyer by ID
func (r *BuyerRepository) GetByID(id uuid.UUID) (*models.Buyer, error) {
	var buyer models.Buyer
	err := r.db.Where("id = ?", id).First(&buyer).Error
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

// Create creates a new buyer
func (r *BuyerRepository) Create(buyer *models.Buyer) error {
	return r.db.Create(buyer).Error
}

// Update updates a buyer
func (r *BuyerRepository) Update(buyer *models.Buyer) error {
	return r.db.Save(buyer).Error
}

// Delete removes a buyer
func (r *BuyerRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Buyer{}).Error
}

// CreateMany inserts all buyers in a single transaction. Either every row is
// committed or none are; a bulk import never partially persists.
func (r *BuyerRepository) CreateMany(ctx context.Context, buyers []*models.Buyer) error {
	if len(buyers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(buyers, 200).Error
	})
}

// List lists buyers with pagination, most recently updated first
func (r *BuyerRepository) List(filters BuyerFilters, limit, offset int) (*models.PaginationResult[models.Buyer], error) {
	var buyers []models.Buyer
	var total int64

	query := r.applyFilters(r.db.Model(&models.Buyer{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&buyers).Error
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &models.PaginationResult[models.Buyer]{
		Data:       buyers,
		Total:      total,
		Page:       offset/limit + 1,
		PerPage:    limit,
		TotalPages: totalPages,
	}, nil
}

// ListAll returns every buyer matching the filters, for CSV export
func (r *BuyerRepository) ListAll(filters BuyerFilters) ([]models.Buyer, error) {
	var buyers []models.Buyer
	err := r.applyFilters(r.db.Model(&models.Buyer{}), filters).
		Order("updated_at DESC").
		Find(&buyers).Error
	return buyers, err
}

func (r *BuyerRepository) applyFilters(query *gorm.DB, filters BuyerFilters) *gorm.DB {
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}
	if filters.PropertyType != "" {
		query = query.Where("property_type = ?", filters.PropertyType)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Timeline != "" {
		query = query.Where("timeline = ?", filters.Timeline)
	}
	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", term, term, term)
	}
	return query
}
