package service

import (
	"context"
	"fmt"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/google/uuid"
)

type CropService interface {
	CreateParcel(ctx context.Context, ownerID uuid.UUID, req dto.CreateParcelRequest) (*dto.ParcelResponse, error)
	ListParcels(ctx context.Context, ownerID uuid.UUID) ([]dto.ParcelResponse, error)
	UpdateParcel(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateParcelRequest) (*dto.ParcelResponse, error)
	DeleteParcel(ctx context.Context, ownerID, id uuid.UUID) error

	CreateCrop(ctx context.Context, ownerID uuid.UUID, req dto.CreateCropRequest) (*dto.CropResponse, error)
	GetCrop(ctx context.Context, ownerID, id uuid.UUID) (*dto.CropResponse, error)
	ListCrops(ctx context.Context, ownerID uuid.UUID, filter dto.CropFilter) (*dto.CropListResponse, error)
	UpdateCropStatus(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateCropStatusRequest) (*dto.CropResponse, error)
}

type cropService struct {
	crops repository.CropRepository
}

func NewCropService(crops repository.CropRepository) CropService {
	return &cropService{crops: crops}
}

// ── Parcels ───────────────────────────────────────────────────────────────────

func (s *cropService) CreateParcel(ctx context.Context, ownerID uuid.UUID, req dto.CreateParcelRequest) (*dto.ParcelResponse, error) {
	if !req.AreaHa.IsPositive() {
		return nil, invalid("area_ha", "must be greater than zero")
	}
	parcel := model.Parcel{
		OwnerID:   ownerID,
		Name:      req.Name,
		AreaHa:    req.AreaHa,
		SoilNotes: req.SoilNotes,
	}
	if err := s.crops.CreateParcel(ctx, &parcel); err != nil {
		return nil, translateDBError(err)
	}
	return parcelToResponse(&parcel), nil
}

func (s *cropService) ListParcels(ctx context.Context, ownerID uuid.UUID) ([]dto.ParcelResponse, error) {
	parcels, err := s.crops.ListParcels(ctx, ownerID)
	if err != nil {
		return nil, translateDBError(err)
	}
	data := make([]dto.ParcelResponse, 0, len(parcels))
	for i := range parcels {
		data = append(data, *parcelToResponse(&parcels[i]))
	}
	return data, nil
}

func (s *cropService) UpdateParcel(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateParcelRequest) (*dto.ParcelResponse, error) {
	parcel, err := s.crops.FindParcelByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	if req.Name != nil {
		parcel.Name = *req.Name
	}
	if req.AreaHa != nil {
		if !req.AreaHa.IsPositive() {
			return nil, invalid("area_ha", "must be greater than zero")
		}
		parcel.AreaHa = *req.AreaHa
	}
	if req.SoilNotes != nil {
		parcel.SoilNotes = *req.SoilNotes
	}
	if err := s.crops.UpdateParcel(ctx, parcel); err != nil {
		return nil, translateDBError(err)
	}
	return parcelToResponse(parcel), nil
}

// DeleteParcel refuses while crops reference the parcel, same rule as
// inventory items with movement history.
func (s *cropService) DeleteParcel(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.crops.FindParcelByID(ctx, ownerID, id); err != nil {
		return translateDBError(err)
	}
	n, err := s.crops.CountCropsOnParcel(ctx, id)
	if err != nil {
		return translateDBError(err)
	}
	if n > 0 {
		return invalid("parcel_id", fmt.Sprintf("parcel has %d crops recorded", n))
	}
	return translateDBError(s.crops.DeleteParcel(ctx, ownerID, id))
}

// ── Crops ─────────────────────────────────────────────────────────────────────

// legal status transitions; harvested and failed are terminal.
var cropTransitions = map[string][]string{
	model.CropPlanted: {model.CropGrowing, model.CropHarvested, model.CropFailed},
	model.CropGrowing: {model.CropHarvested, model.CropFailed},
}

func (s *cropService) CreateCrop(ctx context.Context, ownerID uuid.UUID, req dto.CreateCropRequest) (*dto.CropResponse, error) {
	parcelID, err := uuid.Parse(req.ParcelID)
	if err != nil {
		return nil, invalid("parcel_id", "must be a valid UUID")
	}
	parcel, err := s.crops.FindParcelByID(ctx, ownerID, parcelID)
	if err != nil {
		return nil, translateDBError(err)
	}

	plantedAt, err := parseDate("planted_at", req.PlantedAt)
	if err != nil {
		return nil, err
	}
	var expected *time.Time
	if req.ExpectedHarvest != nil && *req.ExpectedHarvest != "" {
		t, err := parseDate("expected_harvest", *req.ExpectedHarvest)
		if err != nil {
			return nil, err
		}
		if t.Before(plantedAt) {
			return nil, invalid("expected_harvest", "must not be before planted_at")
		}
		expected = &t
	}

	crop := model.Crop{
		OwnerID:         ownerID,
		ParcelID:        parcelID,
		Name:            req.Name,
		Variety:         req.Variety,
		PlantedAt:       plantedAt,
		ExpectedHarvest: expected,
		Status:          model.CropPlanted,
		Notes:           req.Notes,
	}
	if err := s.crops.CreateCrop(ctx, &crop); err != nil {
		return nil, translateDBError(err)
	}
	crop.Parcel = parcel
	return cropToResponse(&crop), nil
}

func (s *cropService) GetCrop(ctx context.Context, ownerID, id uuid.UUID) (*dto.CropResponse, error) {
	crop, err := s.crops.FindCropByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	return cropToResponse(crop), nil
}

func (s *cropService) ListCrops(ctx context.Context, ownerID uuid.UUID, filter dto.CropFilter) (*dto.CropListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	crops, total, err := s.crops.ListCrops(ctx, ownerID, filter)
	if err != nil {
		return nil, translateDBError(err)
	}
	data := make([]dto.CropResponse, 0, len(crops))
	for i := range crops {
		data = append(data, *cropToResponse(&crops[i]))
	}
	return &dto.CropListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *cropService) UpdateCropStatus(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateCropStatusRequest) (*dto.CropResponse, error) {
	crop, err := s.crops.FindCropByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}

	allowed := false
	for _, next := range cropTransitions[crop.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, invalid("status", fmt.Sprintf("cannot change from %s to %s", crop.Status, req.Status))
	}

	crop.Status = req.Status
	if err := s.crops.UpdateCrop(ctx, crop); err != nil {
		return nil, translateDBError(err)
	}
	return cropToResponse(crop), nil
}

func parcelToResponse(p *model.Parcel) *dto.ParcelResponse {
	return &dto.ParcelResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		AreaHa:    p.AreaHa,
		SoilNotes: p.SoilNotes,
	}
}

func cropToResponse(c *model.Crop) *dto.CropResponse {
	var expected *string
	if c.ExpectedHarvest != nil {
		s := c.ExpectedHarvest.Format("2006-01-02")
		expected = &s
	}
	parcelName := ""
	if c.Parcel != nil {
		parcelName = c.Parcel.Name
	}
	return &dto.CropResponse{
		ID:              c.ID.String(),
		ParcelID:        c.ParcelID.String(),
		ParcelName:      parcelName,
		Name:            c.Name,
		Variety:         c.Variety,
		PlantedAt:       c.PlantedAt.Format("2006-01-02"),
		ExpectedHarvest: expected,
		Status:          c.Status,
		Notes:           c.Notes,
	}
}
