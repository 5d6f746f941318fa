package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Finance entry kinds.
const (
	EntrySale    = "SALE"
	EntryExpense = "EXPENSE"
)

// FinanceEntry is a single sale or expense record. Entries are independent —
// there is no cross-record arithmetic invariant here; summaries are computed
// by aggregation at read time.
type FinanceEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind         string          `gorm:"not null;index"` // SALE | EXPENSE
	Category     string          `gorm:"not null"`       // e.g. livestock, feed, veterinary, fuel
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EntryDate    time.Time       `gorm:"not null;index"`
	Counterparty string          // buyer or supplier name
	BuyerEmail   string          // optional — triggers async receipt on sales
	BatchID      *uuid.UUID      `gorm:"type:uuid;index"` // tag only
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (FinanceEntry) TableName() string { return "finance_entries" }
