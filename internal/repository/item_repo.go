package repository

import (
	"context"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository is the data-access contract for inventory items. Services
// depend on this interface, not the GORM implementation, so unit tests can
// swap in in-memory stubs.
type ItemRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryItem, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.ItemFilter) ([]model.InventoryItem, int64, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]model.InventoryItem, error)
	ListAllLowStock(ctx context.Context) ([]model.InventoryItem, error)

	// FindForUpdateTx reads the item inside tx holding a row-level lock
	// (SELECT … FOR UPDATE). Conflicting ledger operations on the same item
	// serialize behind this lock.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)

	// SetQuantityTx overwrites the item's quantity inside tx and touches
	// updated_at. Callers must hold the row lock from FindForUpdateTx.
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) List(ctx context.Context, ownerID uuid.UUID, filter dto.ItemFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventoryItem{}).Where("owner_id = ?", ownerID)

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("quantity <= min_threshold")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND quantity <= min_threshold", ownerID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// ListAllLowStock spans every owner — used by the background alert scan.
func (r *itemRepo) ListAllLowStock(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity <= min_threshold").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	return tx.Model(&model.InventoryItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   qty,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
