package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement directions.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// StockMovement is one stock-in or stock-out event against an inventory item.
// Quantity is the movement's magnitude and is always positive; the sign of its
// effect on the item is implied by Direction. Movements are never deleted —
// corrections go through the amend operation, which rewrites the fields below
// but preserves identity and item linkage.
type StockMovement struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction  string          `gorm:"not null"` // IN | OUT
	Quantity   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	OccurredAt time.Time       `gorm:"not null"`
	BatchID    *uuid.UUID      `gorm:"type:uuid;index"` // tag only, not validated
	Cost       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes      string
	ProofRef   string // reference into the external receipt store, never bytes
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Item *InventoryItem `gorm:"foreignKey:ItemID"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// SignedEffect is the delta this movement applies to its item's quantity:
// +Quantity for IN, -Quantity for OUT.
func (m *StockMovement) SignedEffect() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
