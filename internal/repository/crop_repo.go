package repository

import (
	"context"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CropRepository interface {
	CreateParcel(ctx context.Context, p *model.Parcel) error
	FindParcelByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Parcel, error)
	ListParcels(ctx context.Context, ownerID uuid.UUID) ([]model.Parcel, error)
	UpdateParcel(ctx context.Context, p *model.Parcel) error
	DeleteParcel(ctx context.Context, ownerID, id uuid.UUID) error
	CountCropsOnParcel(ctx context.Context, parcelID uuid.UUID) (int64, error)

	CreateCrop(ctx context.Context, c *model.Crop) error
	FindCropByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Crop, error)
	ListCrops(ctx context.Context, ownerID uuid.UUID, filter dto.CropFilter) ([]model.Crop, int64, error)
	UpdateCrop(ctx context.Context, c *model.Crop) error
}

type cropRepo struct{ db *gorm.DB }

func NewCropRepository(db *gorm.DB) CropRepository { return &cropRepo{db: db} }

func (r *cropRepo) CreateParcel(ctx context.Context, p *model.Parcel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *cropRepo) FindParcelByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Parcel, error) {
	var p model.Parcel
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *cropRepo) ListParcels(ctx context.Context, ownerID uuid.UUID) ([]model.Parcel, error) {
	var parcels []model.Parcel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&parcels).Error
	return parcels, err
}

func (r *cropRepo) UpdateParcel(ctx context.Context, p *model.Parcel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *cropRepo) DeleteParcel(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Parcel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cropRepo) CountCropsOnParcel(ctx context.Context, parcelID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("parcel_id = ?", parcelID).
		Count(&n).Error
	return n, err
}

func (r *cropRepo) CreateCrop(ctx context.Context, c *model.Crop) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cropRepo) FindCropByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Crop, error) {
	var c model.Crop
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Preload("Parcel").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cropRepo) ListCrops(ctx context.Context, ownerID uuid.UUID, filter dto.CropFilter) ([]model.Crop, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("owner_id = ?", ownerID).
		Preload("Parcel")
	if filter.ParcelID != "" {
		q = q.Where("parcel_id = ?", filter.ParcelID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var crops []model.Crop
	err := q.Order("planted_at DESC").Offset(offset).Limit(filter.Limit).Find(&crops).Error
	return crops, total, err
}

func (r *cropRepo) UpdateCrop(ctx context.Context, c *model.Crop) error {
	return r.db.WithContext(ctx).Save(c).Error
}
