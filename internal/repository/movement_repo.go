package repository

import (
	"context"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementRepository is the data-access contract for stock movements.
// Movements are append-and-amend only: there is no delete.
type MovementRepository interface {
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.StockMovement, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)

	// Used inside the ledger transaction — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	SaveTx(tx *gorm.DB, m *model.StockMovement) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.StockMovement, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movementRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("owner_id = ?", ownerID).
		Preload("Item")
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.Direction != "" {
		q = q.Where("direction = ?", filter.Direction)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var movements []model.StockMovement
	err := q.Order("occurred_at DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&movements).Error
	return movements, total, err
}

func (r *movementRepo) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("item_id = ?", itemID).
		Count(&n).Error
	return n, err
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) SaveTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Save(m).Error
}

func (r *movementRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.StockMovement, error) {
	var m model.StockMovement
	if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
