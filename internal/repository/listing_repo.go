package repository

import (
	"context"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Listing, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter dto.ListingFilter) ([]model.Listing, int64, error)
	// ListPublished is the public marketplace view — no owner scope.
	ListPublished(ctx context.Context, filter dto.ListingFilter) ([]model.Listing, int64, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type listingRepo struct{ db *gorm.DB }

func NewListingRepository(db *gorm.DB) ListingRepository { return &listingRepo{db: db} }

func (r *listingRepo) Create(ctx context.Context, l *model.Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listingRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Listing, error) {
	var l model.Listing
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter dto.ListingFilter) ([]model.Listing, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Listing{}).Where("owner_id = ?", ownerID)
	return r.list(q, filter)
}

func (r *listingRepo) ListPublished(ctx context.Context, filter dto.ListingFilter) ([]model.Listing, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Listing{}).Where("status = ?", model.ListingPublished)
	return r.list(q, filter)
}

func (r *listingRepo) list(q *gorm.DB, filter dto.ListingFilter) ([]model.Listing, int64, error) {
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var listings []model.Listing
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&listings).Error
	return listings, total, err
}

func (r *listingRepo) Update(ctx context.Context, l *model.Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *listingRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, model.ListingDraft).
		Delete(&model.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
