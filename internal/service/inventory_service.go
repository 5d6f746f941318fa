package service

import (
	"context"
	"fmt"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateItem(ctx context.Context, ownerID uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, ownerID, id uuid.UUID) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, ownerID uuid.UUID, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	UpdateItem(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error

	AppendMovement(ctx context.Context, ownerID, itemID uuid.UUID, req dto.AppendMovementRequest) (*dto.MovementResponse, error)
	AmendMovement(ctx context.Context, ownerID, movementID uuid.UUID, req dto.AmendMovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, ownerID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	LowStockItems(ctx context.Context, ownerID uuid.UUID) ([]dto.LowStockAlertResponse, error)
}

type inventoryService struct {
	items      repository.ItemRepository
	movements  repository.MovementRepository
	dispatcher *worker.Dispatcher
	alertEmail string
}

func NewInventoryService(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) InventoryService {
	return &inventoryService{
		items:      items,
		movements:  movements,
		dispatcher: dispatcher,
		alertEmail: alertEmail,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateItem(ctx context.Context, ownerID uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if req.MinThreshold.IsNegative() {
		return nil, invalid("min_threshold", "must not be negative")
	}

	item := model.InventoryItem{
		OwnerID:      ownerID,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		MinThreshold: req.MinThreshold,
		MarketPrice:  req.MarketPrice,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, translateDBError(err)
	}
	return itemToResponse(&item), nil
}

func (s *inventoryService) GetItem(ctx context.Context, ownerID, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	return itemToResponse(item), nil
}

func (s *inventoryService) ListItems(ctx context.Context, ownerID uuid.UUID, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	items, total, err := s.items.List(ctx, ownerID, filter)
	if err != nil {
		return nil, translateDBError(err)
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateItem edits descriptive fields only. Quantity is off limits here: it is
// a ledger accumulator and moves exclusively through Append/AmendMovement.
func (s *inventoryService) UpdateItem(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.MinThreshold != nil {
		if req.MinThreshold.IsNegative() {
			return nil, invalid("min_threshold", "must not be negative")
		}
		item.MinThreshold = *req.MinThreshold
	}
	if req.MarketPrice != nil {
		item.MarketPrice = req.MarketPrice
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, translateDBError(err)
	}
	return itemToResponse(item), nil
}

// DeleteItem removes an item that has no ledger history. Items with recorded
// movements are never deleted so the audit trail stays intact.
func (s *inventoryService) DeleteItem(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, ownerID, id); err != nil {
		return translateDBError(err)
	}
	n, err := s.movements.CountByItem(ctx, id)
	if err != nil {
		return translateDBError(err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %d movements recorded", ErrItemHasMovements, n)
	}
	return translateDBError(s.items.Delete(ctx, ownerID, id))
}

// ── Stock ledger ──────────────────────────────────────────────────────────────
//
// AppendMovement and AmendMovement are the only writers of item.Quantity. Both
// run read-compute-write inside one transaction holding a row lock on the item
// (SELECT ... FOR UPDATE), so concurrent operations on the same item serialize
// and each one computes from the quantity the previous one committed.

func (s *inventoryService) AppendMovement(ctx context.Context, ownerID, itemID uuid.UUID, req dto.AppendMovementRequest) (*dto.MovementResponse, error) {
	mov, err := s.movementFromRequest(ownerID, itemID, req)
	if err != nil {
		return nil, err
	}

	// Ownership check before entering the transaction.
	owned, err := s.items.FindByID(ctx, ownerID, itemID)
	if err != nil {
		return nil, translateDBError(err)
	}
	wasLow := owned.LowStock()

	var after model.InventoryItem
	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		item, err := s.items.FindForUpdateTx(tx, itemID)
		if err != nil {
			return err
		}

		newQty := item.Quantity.Add(mov.SignedEffect())
		if newQty.IsNegative() {
			return fmt.Errorf("%w: item %s has %s, movement needs %s",
				ErrInsufficientStock, item.Name, item.Quantity, mov.Quantity)
		}

		if err := s.movements.CreateTx(tx, mov); err != nil {
			return err
		}
		if err := s.items.SetQuantityTx(tx, itemID, newQty); err != nil {
			return err
		}

		after = *item
		after.Quantity = newQty
		return nil
	})
	if txErr != nil {
		return nil, translateDBError(txErr)
	}

	s.notifyIfCrossedThreshold(ctx, wasLow, &after)
	return movementToResponse(mov, after.Quantity), nil
}

// AmendMovement rewrites an existing movement in place and reconciles the
// item's quantity with a single compensating delta: revert the old signed
// effect, apply the new one. No replay of the movement history is needed.
func (s *inventoryService) AmendMovement(ctx context.Context, ownerID, movementID uuid.UUID, req dto.AmendMovementRequest) (*dto.MovementResponse, error) {
	existing, err := s.movements.FindByID(ctx, ownerID, movementID)
	if err != nil {
		return nil, translateDBError(err)
	}

	replacement, err := s.movementFromRequest(ownerID, existing.ItemID, req)
	if err != nil {
		return nil, err
	}

	owned, err := s.items.FindByID(ctx, ownerID, existing.ItemID)
	if err != nil {
		return nil, translateDBError(err)
	}
	wasLow := owned.LowStock()

	var amended *model.StockMovement
	var after model.InventoryItem
	txErr := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		// Lock the item first, then re-read the movement under that lock so a
		// concurrent amend of the same movement cannot interleave.
		item, err := s.items.FindForUpdateTx(tx, existing.ItemID)
		if err != nil {
			return err
		}
		current, err := s.movements.FindByIDTx(tx, movementID)
		if err != nil {
			return err
		}

		newQty := item.Quantity.
			Sub(current.SignedEffect()).
			Add(replacement.SignedEffect())
		if newQty.IsNegative() {
			return fmt.Errorf("%w: amending movement %s would leave item %s at %s",
				ErrInsufficientStock, movementID, item.Name, newQty)
		}

		// Rewrite fields in place — identity and item linkage never change.
		current.Direction = replacement.Direction
		current.Quantity = replacement.Quantity
		current.OccurredAt = replacement.OccurredAt
		current.BatchID = replacement.BatchID
		current.Cost = replacement.Cost
		current.Notes = replacement.Notes
		current.ProofRef = replacement.ProofRef

		if err := s.movements.SaveTx(tx, current); err != nil {
			return err
		}
		if err := s.items.SetQuantityTx(tx, item.ID, newQty); err != nil {
			return err
		}

		amended = current
		after = *item
		after.Quantity = newQty
		return nil
	})
	if txErr != nil {
		return nil, translateDBError(txErr)
	}

	s.notifyIfCrossedThreshold(ctx, wasLow, &after)
	return movementToResponse(amended, after.Quantity), nil
}

func (s *inventoryService) ListMovements(ctx context.Context, ownerID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.movements.List(ctx, ownerID, filter)
	if err != nil {
		return nil, translateDBError(err)
	}

	data := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		m := &movements[i]
		onHand := m.Quantity
		if m.Item != nil {
			onHand = m.Item.Quantity
		}
		data = append(data, *movementToResponse(m, onHand))
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) LowStockItems(ctx context.Context, ownerID uuid.UUID) ([]dto.LowStockAlertResponse, error) {
	items, err := s.items.ListLowStock(ctx, ownerID)
	if err != nil {
		return nil, translateDBError(err)
	}
	alerts := make([]dto.LowStockAlertResponse, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, dto.LowStockAlertResponse{
			ItemID:       item.ID.String(),
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			MinThreshold: item.MinThreshold,
			Unit:         item.Unit,
		})
	}
	return alerts, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// movementFromRequest validates the request and builds an unsaved movement.
// All validation happens here, before any data-store access.
func (s *inventoryService) movementFromRequest(ownerID, itemID uuid.UUID, req dto.AppendMovementRequest) (*model.StockMovement, error) {
	if req.Direction != model.DirectionIn && req.Direction != model.DirectionOut {
		return nil, invalid("direction", "must be IN or OUT")
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid("quantity", "must be greater than zero")
	}
	if req.Cost != nil && req.Cost.IsNegative() {
		return nil, invalid("cost", "must not be negative")
	}

	occurredAt, err := parseDate("occurred_at", req.OccurredAt)
	if err != nil {
		return nil, err
	}

	var batchID *uuid.UUID
	if req.BatchID != nil && *req.BatchID != "" {
		// Tag only: the id is parsed for shape but not checked against the
		// batches table.
		id, err := uuid.Parse(*req.BatchID)
		if err != nil {
			return nil, invalid("batch_id", "must be a valid UUID")
		}
		batchID = &id
	}

	return &model.StockMovement{
		OwnerID:    ownerID,
		ItemID:     itemID,
		Direction:  req.Direction,
		Quantity:   req.Quantity,
		OccurredAt: occurredAt,
		BatchID:    batchID,
		Cost:       req.Cost,
		Notes:      req.Notes,
		ProofRef:   req.ProofRef,
	}, nil
}

// notifyIfCrossedThreshold enqueues a low-stock alert when the operation moved
// the item from above its threshold to at-or-below it. Best effort: a queue
// failure never fails the committed ledger operation.
func (s *inventoryService) notifyIfCrossedThreshold(ctx context.Context, wasLow bool, item *model.InventoryItem) {
	if s.dispatcher == nil || wasLow || !item.LowStock() {
		return
	}
	_, _ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.AlertJobPayload{
		ItemID:       item.ID.String(),
		ItemName:     item.Name,
		Quantity:     item.Quantity.String(),
		MinThreshold: item.MinThreshold.String(),
		Unit:         item.Unit,
		ToEmail:      s.alertEmail,
	})
}

func itemToResponse(item *model.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		Category:     item.Category,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		MinThreshold: item.MinThreshold,
		MarketPrice:  item.MarketPrice,
		LowStock:     item.LowStock(),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}

func movementToResponse(m *model.StockMovement, itemQuantity decimal.Decimal) *dto.MovementResponse {
	var batchID *string
	if m.BatchID != nil {
		s := m.BatchID.String()
		batchID = &s
	}
	return &dto.MovementResponse{
		ID:           m.ID.String(),
		ItemID:       m.ItemID.String(),
		Direction:    m.Direction,
		Quantity:     m.Quantity,
		OccurredAt:   m.OccurredAt.Format(time.RFC3339),
		BatchID:      batchID,
		Cost:         m.Cost,
		Notes:        m.Notes,
		ProofRef:     m.ProofRef,
		ItemQuantity: itemQuantity,
	}
}
