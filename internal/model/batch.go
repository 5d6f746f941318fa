package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch statuses.
const (
	BatchActive = "active"
	BatchClosed = "closed"
)

// Batch is a group of livestock raised together (e.g. 500 broilers started on
// the same day). CurrentCount follows the same accumulator discipline as
// InventoryItem.Quantity: it starts at InitialCount and is only mutated by
// daily-log mortality bookkeeping inside a transaction.
type Batch struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	Species      string    `gorm:"not null"` // e.g. broiler, layer, pig
	Breed        string
	StartedAt    time.Time `gorm:"not null"`
	InitialCount int       `gorm:"not null"`
	CurrentCount int       `gorm:"not null"`
	Status       string    `gorm:"not null;default:'active'"` // active | closed
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Batch) TableName() string { return "batches" }
