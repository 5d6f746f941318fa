package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyLog records one day of observations for a batch. Mortality is the head
// count lost that day; recording it decrements the batch's CurrentCount inside
// the same transaction, and amending it applies the compensating delta.
type DailyLog struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LogDate   time.Time       `gorm:"not null"`
	Mortality int             `gorm:"not null;default:0"`
	FeedKg    decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	WaterL    decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	AvgWeight *decimal.Decimal `gorm:"type:decimal(8,3)"` // kg, optional sample weight
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Batch *Batch `gorm:"foreignKey:BatchID"`
}

func (DailyLog) TableName() string { return "daily_logs" }
