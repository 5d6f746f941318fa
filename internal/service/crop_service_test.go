package service

import (
	"context"
	"testing"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CropRepository stub ────────────────────────────────────────────

type stubCropRepo struct {
	parcels map[uuid.UUID]*model.Parcel
	crops   map[uuid.UUID]*model.Crop
}

var _ repository.CropRepository = (*stubCropRepo)(nil)

func newStubCropRepo() *stubCropRepo {
	return &stubCropRepo{
		parcels: make(map[uuid.UUID]*model.Parcel),
		crops:   make(map[uuid.UUID]*model.Crop),
	}
}

func (r *stubCropRepo) CreateParcel(_ context.Context, p *model.Parcel) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.parcels[p.ID] = &cp
	return nil
}

func (r *stubCropRepo) FindParcelByID(_ context.Context, ownerID, id uuid.UUID) (*model.Parcel, error) {
	p, ok := r.parcels[id]
	if !ok || p.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubCropRepo) ListParcels(_ context.Context, ownerID uuid.UUID) ([]model.Parcel, error) {
	var result []model.Parcel
	for _, p := range r.parcels {
		if p.OwnerID == ownerID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubCropRepo) UpdateParcel(_ context.Context, p *model.Parcel) error {
	cp := *p
	r.parcels[p.ID] = &cp
	return nil
}

func (r *stubCropRepo) DeleteParcel(_ context.Context, ownerID, id uuid.UUID) error {
	p, ok := r.parcels[id]
	if !ok || p.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.parcels, id)
	return nil
}

func (r *stubCropRepo) CountCropsOnParcel(_ context.Context, parcelID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.crops {
		if c.ParcelID == parcelID {
			n++
		}
	}
	return n, nil
}

func (r *stubCropRepo) CreateCrop(_ context.Context, c *model.Crop) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	cp.Parcel = nil
	r.crops[c.ID] = &cp
	return nil
}

func (r *stubCropRepo) FindCropByID(_ context.Context, ownerID, id uuid.UUID) (*model.Crop, error) {
	c, ok := r.crops[id]
	if !ok || c.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if p, ok := r.parcels[c.ParcelID]; ok {
		pcp := *p
		cp.Parcel = &pcp
	}
	return &cp, nil
}

func (r *stubCropRepo) ListCrops(_ context.Context, ownerID uuid.UUID, _ dto.CropFilter) ([]model.Crop, int64, error) {
	var result []model.Crop
	for _, c := range r.crops {
		if c.OwnerID == ownerID {
			result = append(result, *c)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubCropRepo) UpdateCrop(_ context.Context, c *model.Crop) error {
	cp := *c
	cp.Parcel = nil
	r.crops[c.ID] = &cp
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func newCropFixture(t *testing.T) (CropService, *stubCropRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newStubCropRepo()
	svc := NewCropService(repo)

	owner := uuid.New()
	parcel, err := svc.CreateParcel(context.Background(), owner, dto.CreateParcelRequest{
		Name:   "North field",
		AreaHa: decimal.NewFromFloat(2.5),
	})
	require.NoError(t, err)
	return svc, repo, owner, uuid.MustParse(parcel.ID)
}

func TestCreateCrop_RequiresOwnedParcel(t *testing.T) {
	svc, _, owner, parcelID := newCropFixture(t)

	resp, err := svc.CreateCrop(context.Background(), owner, dto.CreateCropRequest{
		ParcelID:  parcelID.String(),
		Name:      "maize",
		PlantedAt: "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CropPlanted, resp.Status)
	assert.Equal(t, "North field", resp.ParcelName)

	// Foreign parcel is invisible.
	_, err = svc.CreateCrop(context.Background(), uuid.New(), dto.CreateCropRequest{
		ParcelID:  parcelID.String(),
		Name:      "maize",
		PlantedAt: "2026-03-01",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCropStatusTransitions(t *testing.T) {
	svc, _, owner, parcelID := newCropFixture(t)

	crop, err := svc.CreateCrop(context.Background(), owner, dto.CreateCropRequest{
		ParcelID:  parcelID.String(),
		Name:      "maize",
		PlantedAt: "2026-03-01",
	})
	require.NoError(t, err)
	cropID := uuid.MustParse(crop.ID)

	resp, err := svc.UpdateCropStatus(context.Background(), owner, cropID, dto.UpdateCropStatusRequest{Status: model.CropGrowing})
	require.NoError(t, err)
	assert.Equal(t, model.CropGrowing, resp.Status)

	resp, err = svc.UpdateCropStatus(context.Background(), owner, cropID, dto.UpdateCropStatusRequest{Status: model.CropHarvested})
	require.NoError(t, err)
	assert.Equal(t, model.CropHarvested, resp.Status)

	// Harvested is terminal.
	_, err = svc.UpdateCropStatus(context.Background(), owner, cropID, dto.UpdateCropStatusRequest{Status: model.CropGrowing})
	assert.True(t, IsValidationError(err))
}

func TestDeleteParcel_BlockedByCrops(t *testing.T) {
	svc, repo, owner, parcelID := newCropFixture(t)

	_, err := svc.CreateCrop(context.Background(), owner, dto.CreateCropRequest{
		ParcelID:  parcelID.String(),
		Name:      "cassava",
		PlantedAt: "2026-03-01",
	})
	require.NoError(t, err)

	err = svc.DeleteParcel(context.Background(), owner, parcelID)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, repo.parcels, parcelID)
}

func TestCreateCrop_HarvestBeforePlantingRejected(t *testing.T) {
	svc, _, owner, parcelID := newCropFixture(t)

	expected := "2026-02-01"
	_, err := svc.CreateCrop(context.Background(), owner, dto.CreateCropRequest{
		ParcelID:        parcelID.String(),
		Name:            "maize",
		PlantedAt:       "2026-03-01",
		ExpectedHarvest: &expected,
	})
	assert.True(t, IsValidationError(err))
}
