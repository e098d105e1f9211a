package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical enum labels for buyer fields. These are the only values the
// validator accepts and the only values ever persisted; the cleaner maps
// free-text input onto them.
var (
	CityValues         = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	PropertyTypeValues = []string{"Apartment", "Villa", "Plot", "Office", "Retail"}
	BHKValues          = []string{"Studio", "One", "Two", "Three", "Four"}
	PurposeValues      = []string{"Buy", "Rent"}
	TimelineValues     = []string{"ZeroToThree", "ThreeToSix", "MoreThanSix", "Exploring"}
	SourceValues       = []string{"Website", "Referral", "WalkIn", "Call", "Other"}
	StatusValues       = []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"}
)

// StatusNew is the default status applied when a lead arrives without one.
const StatusNew = "New"

// Buyer represents a buyer lead
type Buyer struct {
	BaseModel
	FullName     string    `gorm:"not null" json:"fullName"`
	Phone        string    `gorm:"not null;index" json:"phone"`
	Email        *string   `json:"email,omitempty"`
	City         string    `gorm:"not null;index" json:"city"`
	PropertyType string    `gorm:"not null;index" json:"propertyType"`
	BHK          *string   `gorm:"column:bhk" json:"bhk,omitempty"`
	Purpose      string    `gorm:"not null" json:"purpose"`
	BudgetMin    *int64    `json:"budgetMin,omitempty"`
	BudgetMax    *int64    `json:"budgetMax,omitempty"`
	Timeline     string    `gorm:"not null;index" json:"timeline"`
	Source       string    `gorm:"not null" json:"source"`
	Status       string    `gorm:"default:'New';index" json:"status"`
	Notes        *string   `gorm:"type:text" json:"notes,omitempty"`
	Tags         string    `gorm:"type:text;default:'[]'" json:"tags"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
}

// TagList decodes the JSON-encoded tags column.
func (b *Buyer) TagList() []string {
	var tags []string
	if err := json.Unmarshal([]byte(b.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags encodes tags into the JSON column representation.
func (b *Buyer) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(tags)
	b.Tags = string(data)
}

// BuyerHistory records a field-level change to a buyer lead
type BuyerHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"buyerId"`
	ChangedBy uuid.UUID `gorm:"type:uuid;not null" json:"changedBy"`
	ChangedAt time.Time `gorm:"autoCreateTime" json:"changedAt"`
	Diff      string    `gorm:"type:text;not null" json:"diff"`
}

// BeforeCreate hook to generate UUID if not set
func (h *BuyerHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// FieldChange is one entry in a history diff
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// CreateBuyerRequest represents buyer creation data
type CreateBuyerRequest struct {
	FullName     string   `json:"fullName" validate:"required,min=2,max=80"`
	Phone        string   `json:"phone" validate:"required"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email"`
	City         string   `json:"city" validate:"required"`
	PropertyType string   `json:"propertyType" validate:"required"`
	BHK          *string  `json:"bhk,omitempty"`
	Purpose      string   `json:"purpose" validate:"required"`
	BudgetMin    *int64   `json:"budgetMin,omitempty" validate:"omitempty,gte=0"`
	BudgetMax    *int64   `json:"budgetMax,omitempty" validate:"omitempty,gte=0"`
	Timeline     string   `json:"timeline" validate:"required"`
	Source       string   `json:"source" validate:"required"`
	Status       *string  `json:"status,omitempty"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Tags         []string `json:"tags,omitempty"`
}

// UpdateBuyerRequest represents buyer update data. UpdatedAt must carry the
// timestamp the client last read; a mismatch rejects the write as stale.
type UpdateBuyerRequest struct {
	CreateBuyerRequest
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// BuyerDetail is a buyer together with its recent history
type BuyerDetail struct {
	Buyer   Buyer          `json:"buyer"`
	History []BuyerHistory `json:"history"`
}
