package repository

import (
	"context"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinanceRepository interface {
	Create(ctx context.Context, e *model.FinanceEntry) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.FinanceEntry, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.FinanceFilter) ([]model.FinanceEntry, int64, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// SumByKind totals entry amounts of one kind within [from, to].
	SumByKind(ctx context.Context, ownerID uuid.UUID, kind string, from, to time.Time) (decimal.Decimal, error)
}

type financeRepo struct{ db *gorm.DB }

func NewFinanceRepository(db *gorm.DB) FinanceRepository { return &financeRepo{db: db} }

func (r *financeRepo) Create(ctx context.Context, e *model.FinanceEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *financeRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.FinanceEntry, error) {
	var e model.FinanceEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *financeRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.FinanceFilter) ([]model.FinanceEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.FinanceEntry{}).Where("owner_id = ?", ownerID)
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != "" {
		q = q.Where("entry_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("entry_date <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var entries []model.FinanceEntry
	err := q.Order("entry_date DESC").Offset(offset).Limit(filter.Limit).Find(&entries).Error
	return entries, total, err
}

func (r *financeRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.FinanceEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *financeRepo) SumByKind(ctx context.Context, ownerID uuid.UUID, kind string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.FinanceEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND kind = ? AND entry_date BETWEEN ? AND ?", ownerID, kind, from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
