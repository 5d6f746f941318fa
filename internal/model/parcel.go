package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parcel is a plot of land crops are planted on.
type Parcel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	AreaHa    decimal.Decimal `gorm:"type:decimal(10,4);not null"` // hectares
	SoilNotes string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Parcel) TableName() string { return "parcels" }
