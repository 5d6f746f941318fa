package model

import (
	"time"

	"github.com/google/uuid"
)

// Crop statuses.
const (
	CropPlanted   = "planted"
	CropGrowing   = "growing"
	CropHarvested = "harvested"
	CropFailed    = "failed"
)

// Crop is one planting cycle on a parcel.
type Crop struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParcelID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name            string     `gorm:"not null"` // e.g. maize, cassava
	Variety         string
	PlantedAt       time.Time  `gorm:"not null"`
	ExpectedHarvest *time.Time
	Status          string     `gorm:"not null;default:'planted'"` // planted | growing | harvested | failed
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Parcel *Parcel `gorm:"foreignKey:ParcelID"`
}

func (Crop) TableName() string { return "crops" }
