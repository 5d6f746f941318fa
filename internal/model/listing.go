package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing statuses.
const (
	ListingDraft     = "draft"
	ListingPublished = "published"
	ListingSold      = "sold"
)

// Listing is a marketplace offer (produce, livestock, equipment) visible to
// buyers once published. ReferencePrice is a best-effort snapshot from the
// external market feed at publish time.
type Listing struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title          string          `gorm:"not null"`
	Description    string
	Category       string          `gorm:"not null;index"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit           string          `gorm:"not null;default:'kg'"`
	Quantity       decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Status         string          `gorm:"not null;default:'draft';index"` // draft | published | sold
	ContactPhone   string
	ReferencePrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Listing) TableName() string { return "listings" }
