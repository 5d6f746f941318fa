package dto

import "github.com/shopspring/decimal"

type CreateListingRequest struct {
	Title        string          `json:"title"         validate:"required,min=3,max=140"`
	Description  string          `json:"description"   validate:"max=2000"`
	Category     string          `json:"category"      validate:"required,max=60"`
	Price        decimal.Decimal `json:"price"         validate:"required,gt=0"`
	Unit         string          `json:"unit"          validate:"required,max=20"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"required,gt=0"`
	ContactPhone string          `json:"contact_phone" validate:"max=30"`
}

type UpdateListingRequest struct {
	Title        *string          `json:"title"         validate:"omitempty,min=3,max=140"`
	Description  *string          `json:"description"   validate:"omitempty,max=2000"`
	Price        *decimal.Decimal `json:"price"         validate:"omitempty,gt=0"`
	Quantity     *decimal.Decimal `json:"quantity"      validate:"omitempty,gt=0"`
	ContactPhone *string          `json:"contact_phone" validate:"omitempty,max=30"`
}

type ListingFilter struct {
	Category string `form:"category"`
	Status   string `form:"status" validate:"omitempty,oneof=draft published sold"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ListingResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	Price          decimal.Decimal  `json:"price"`
	Unit           string           `json:"unit"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Status         string           `json:"status"`
	ContactPhone   string           `json:"contact_phone"`
	ReferencePrice *decimal.Decimal `json:"reference_price"`
	PublishedAt    *string          `json:"published_at"`
}

type ListingListResponse struct {
	Data  []ListingResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
