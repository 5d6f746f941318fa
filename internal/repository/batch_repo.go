package repository

import (
	"context"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchRepository is the data-access contract for livestock batches and their
// daily logs. Head-count mutations mirror the inventory ledger: lock the
// batch row, then write count and log in the same transaction.
type BatchRepository interface {
	Create(ctx context.Context, b *model.Batch) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Batch, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.BatchFilter) ([]model.Batch, int64, error)
	Update(ctx context.Context, b *model.Batch) error

	FindLogByID(ctx context.Context, ownerID, id uuid.UUID) (*model.DailyLog, error)
	ListLogs(ctx context.Context, ownerID, batchID uuid.UUID) ([]model.DailyLog, error)

	// Used inside the head-count transaction.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Batch, error)
	SetCountTx(tx *gorm.DB, id uuid.UUID, count int) error
	CreateLogTx(tx *gorm.DB, l *model.DailyLog) error
	SaveLogTx(tx *gorm.DB, l *model.DailyLog) error
	FindLogByIDTx(tx *gorm.DB, id uuid.UUID) (*model.DailyLog, error)

	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) Create(ctx context.Context, b *model.Batch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *batchRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.BatchFilter) ([]model.Batch, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Batch{}).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Species != "" {
		q = q.Where("species = ?", filter.Species)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var batches []model.Batch
	err := q.Order("started_at DESC").Offset(offset).Limit(filter.Limit).Find(&batches).Error
	return batches, total, err
}

func (r *batchRepo) Update(ctx context.Context, b *model.Batch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *batchRepo) FindLogByID(ctx context.Context, ownerID, id uuid.UUID) (*model.DailyLog, error) {
	var l model.DailyLog
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *batchRepo) ListLogs(ctx context.Context, ownerID, batchID uuid.UUID) ([]model.DailyLog, error) {
	var logs []model.DailyLog
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND batch_id = ?", ownerID, batchID).
		Order("log_date DESC").
		Find(&logs).Error
	return logs, err
}

func (r *batchRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) SetCountTx(tx *gorm.DB, id uuid.UUID, count int) error {
	return tx.Model(&model.Batch{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_count": count,
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
}

func (r *batchRepo) CreateLogTx(tx *gorm.DB, l *model.DailyLog) error {
	return tx.Create(l).Error
}

func (r *batchRepo) SaveLogTx(tx *gorm.DB, l *model.DailyLog) error {
	return tx.Save(l).Error
}

func (r *batchRepo) FindLogByIDTx(tx *gorm.DB, id uuid.UUID) (*model.DailyLog, error) {
	var l model.DailyLog
	if err := tx.Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *batchRepo) DB() *gorm.DB { return r.db }
