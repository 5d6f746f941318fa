package dto

import "github.com/shopspring/decimal"

type CreateBatchRequest struct {
	Name         string `json:"name"          validate:"required,min=2,max=120"`
	Species      string `json:"species"       validate:"required,max=60"`
	Breed        string `json:"breed"         validate:"max=60"`
	StartedAt    string `json:"started_at"    validate:"required"`
	InitialCount int    `json:"initial_count" validate:"required,gt=0"`
	Notes        string `json:"notes"         validate:"max=500"`
}

type RecordDailyLogRequest struct {
	LogDate   string           `json:"log_date"   validate:"required"`
	Mortality int              `json:"mortality"  validate:"min=0"`
	FeedKg    decimal.Decimal  `json:"feed_kg"    validate:"min=0"`
	WaterL    decimal.Decimal  `json:"water_l"    validate:"min=0"`
	AvgWeight *decimal.Decimal `json:"avg_weight" validate:"omitempty,gt=0"`
	Notes     string           `json:"notes"      validate:"max=500"`
}

// AmendDailyLogRequest rewrites a log in place, same shape as recording.
type AmendDailyLogRequest = RecordDailyLogRequest

type BatchFilter struct {
	Status  string `form:"status" validate:"omitempty,oneof=active closed"`
	Species string `form:"species"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type BatchResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Species      string `json:"species"`
	Breed        string `json:"breed"`
	StartedAt    string `json:"started_at"`
	InitialCount int    `json:"initial_count"`
	CurrentCount int    `json:"current_count"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

type BatchListResponse struct {
	Data  []BatchResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type DailyLogResponse struct {
	ID         string           `json:"id"`
	BatchID    string           `json:"batch_id"`
	LogDate    string           `json:"log_date"`
	Mortality  int              `json:"mortality"`
	FeedKg     decimal.Decimal  `json:"feed_kg"`
	WaterL     decimal.Decimal  `json:"water_l"`
	AvgWeight  *decimal.Decimal `json:"avg_weight"`
	Notes      string           `json:"notes"`
	BatchCount int              `json:"batch_count"` // batch head count after this operation
}
