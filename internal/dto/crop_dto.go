package dto

import "github.com/shopspring/decimal"

type CreateParcelRequest struct {
	Name      string          `json:"name"       validate:"required,min=2,max=120"`
	AreaHa    decimal.Decimal `json:"area_ha"    validate:"required,gt=0"`
	SoilNotes string          `json:"soil_notes" validate:"max=500"`
}

type UpdateParcelRequest struct {
	Name      *string          `json:"name"       validate:"omitempty,min=2,max=120"`
	AreaHa    *decimal.Decimal `json:"area_ha"    validate:"omitempty,gt=0"`
	SoilNotes *string          `json:"soil_notes" validate:"omitempty,max=500"`
}

type ParcelResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	AreaHa    decimal.Decimal `json:"area_ha"`
	SoilNotes string          `json:"soil_notes"`
}

type CreateCropRequest struct {
	ParcelID        string  `json:"parcel_id"        validate:"required,uuid"`
	Name            string  `json:"name"             validate:"required,min=2,max=120"`
	Variety         string  `json:"variety"          validate:"max=120"`
	PlantedAt       string  `json:"planted_at"       validate:"required"`
	ExpectedHarvest *string `json:"expected_harvest"`
	Notes           string  `json:"notes"            validate:"max=500"`
}

type UpdateCropStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planted growing harvested failed"`
}

type CropFilter struct {
	ParcelID string `form:"parcel_id" validate:"omitempty,uuid"`
	Status   string `form:"status"    validate:"omitempty,oneof=planted growing harvested failed"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type CropResponse struct {
	ID              string  `json:"id"`
	ParcelID        string  `json:"parcel_id"`
	ParcelName      string  `json:"parcel_name"`
	Name            string  `json:"name"`
	Variety         string  `json:"variety"`
	PlantedAt       string  `json:"planted_at"`
	ExpectedHarvest *string `json:"expected_harvest"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes"`
}

type CropListResponse struct {
	Data  []CropResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
