package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name         string           `json:"name"          validate:"required,min=2,max=120"`
	Category     string           `json:"category"      validate:"required,oneof=FEED MEDICATION EQUIPMENT OTHER"`
	Unit         string           `json:"unit"          validate:"required,max=20"`
	MinThreshold decimal.Decimal  `json:"min_threshold" validate:"min=0"`
	MarketPrice  *decimal.Decimal `json:"market_price"`
}

// UpdateItemRequest covers descriptive fields only — quantity is never edited
// directly, it moves exclusively through movements.
type UpdateItemRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	Category     *string          `json:"category"      validate:"omitempty,oneof=FEED MEDICATION EQUIPMENT OTHER"`
	Unit         *string          `json:"unit"          validate:"omitempty,max=20"`
	MinThreshold *decimal.Decimal `json:"min_threshold"`
	MarketPrice  *decimal.Decimal `json:"market_price"`
}

type AppendMovementRequest struct {
	Direction  string           `json:"direction"   validate:"required,oneof=IN OUT"`
	Quantity   decimal.Decimal  `json:"quantity"    validate:"required,gt=0"`
	OccurredAt string           `json:"occurred_at" validate:"required"` // RFC 3339 or 2006-01-02
	BatchID    *string          `json:"batch_id"    validate:"omitempty,uuid"`
	Cost       *decimal.Decimal `json:"cost"        validate:"omitempty,min=0"`
	Notes      string           `json:"notes"       validate:"max=500"`
	ProofRef   string           `json:"proof_ref"   validate:"max=300"`
}

// AmendMovementRequest rewrites an existing movement in place. All fields are
// required the same way as on append — an amend fully replaces the old values.
type AmendMovementRequest = AppendMovementRequest

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ItemFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type MovementFilter struct {
	ItemID    string `form:"item_id"   validate:"omitempty,uuid"`
	Direction string `form:"direction" validate:"omitempty,oneof=IN OUT"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Unit         string           `json:"unit"`
	MinThreshold decimal.Decimal  `json:"min_threshold"`
	MarketPrice  *decimal.Decimal `json:"market_price"`
	LowStock     bool             `json:"low_stock"`
	UpdatedAt    string           `json:"updated_at"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type MovementResponse struct {
	ID           string           `json:"id"`
	ItemID       string           `json:"item_id"`
	Direction    string           `json:"direction"`
	Quantity     decimal.Decimal  `json:"quantity"`
	OccurredAt   string           `json:"occurred_at"`
	BatchID      *string          `json:"batch_id"`
	Cost         *decimal.Decimal `json:"cost"`
	Notes        string           `json:"notes"`
	ProofRef     string           `json:"proof_ref"`
	ItemQuantity decimal.Decimal  `json:"item_quantity"` // item's on-hand after this operation
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// LowStockAlertResponse is one row of the alerts view.
type LowStockAlertResponse struct {
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	Unit         string          `json:"unit"`
}
