package dto

import "github.com/shopspring/decimal"

type CreateFinanceEntryRequest struct {
	Kind         string          `json:"kind"         validate:"required,oneof=SALE EXPENSE"`
	Category     string          `json:"category"     validate:"required,max=60"`
	Amount       decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	EntryDate    string          `json:"entry_date"   validate:"required"`
	Counterparty string          `json:"counterparty" validate:"max=120"`
	BuyerEmail   string          `json:"buyer_email"  validate:"omitempty,email"`
	BatchID      *string         `json:"batch_id"     validate:"omitempty,uuid"`
	Notes        string          `json:"notes"        validate:"max=500"`
}

type FinanceFilter struct {
	Kind     string `form:"kind"     validate:"omitempty,oneof=SALE EXPENSE"`
	Category string `form:"category"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type FinanceEntryResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	EntryDate    string          `json:"entry_date"`
	Counterparty string          `json:"counterparty"`
	BatchID      *string         `json:"batch_id"`
	Notes        string          `json:"notes"`
}

type FinanceListResponse struct {
	Data  []FinanceEntryResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// FinanceSummaryResponse aggregates a period: gross sales, gross expenses and
// the net result (sales - expenses).
type FinanceSummaryResponse struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}
