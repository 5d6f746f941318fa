package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item categories.
const (
	CategoryFeed       = "FEED"
	CategoryMedication = "MEDICATION"
	CategoryEquipment  = "EQUIPMENT"
	CategoryOther      = "OTHER"
)

// InventoryItem is a stock-tracked supply (feed bags, vaccine doses, tools).
// Quantity is a denormalized running total over the item's stock movements:
// it must equal the sum of all signed movement effects and is only ever
// written through the ledger transaction in InventoryService — never directly.
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"index;not null"`
	Category     string          `gorm:"not null"` // FEED | MEDICATION | EQUIPMENT | OTHER
	Quantity     decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Unit         string          `gorm:"not null;default:'kg'"`
	MinThreshold decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	MarketPrice  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (InventoryItem) TableName() string { return "inventory_items" }

// LowStock reports whether the item is at or below its configured threshold.
// Derived on every read, never stored.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinThreshold)
}
