package service

import (
	"context"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/worker"

	"github.com/google/uuid"
)

type FinanceService interface {
	CreateEntry(ctx context.Context, ownerID uuid.UUID, req dto.CreateFinanceEntryRequest) (*dto.FinanceEntryResponse, error)
	GetEntry(ctx context.Context, ownerID, id uuid.UUID) (*dto.FinanceEntryResponse, error)
	ListEntries(ctx context.Context, ownerID uuid.UUID, filter dto.FinanceFilter) (*dto.FinanceListResponse, error)
	DeleteEntry(ctx context.Context, ownerID, id uuid.UUID) error
	Summary(ctx context.Context, ownerID uuid.UUID, from, to string) (*dto.FinanceSummaryResponse, error)
}

type financeService struct {
	entries    repository.FinanceRepository
	dispatcher *worker.Dispatcher
	farmName   string
}

func NewFinanceService(entries repository.FinanceRepository, dispatcher *worker.Dispatcher, farmName string) FinanceService {
	return &financeService{entries: entries, dispatcher: dispatcher, farmName: farmName}
}

func (s *financeService) CreateEntry(ctx context.Context, ownerID uuid.UUID, req dto.CreateFinanceEntryRequest) (*dto.FinanceEntryResponse, error) {
	if req.Kind != model.EntrySale && req.Kind != model.EntryExpense {
		return nil, invalid("kind", "must be SALE or EXPENSE")
	}
	if !req.Amount.IsPositive() {
		return nil, invalid("amount", "must be greater than zero")
	}
	entryDate, err := parseDate("entry_date", req.EntryDate)
	if err != nil {
		return nil, err
	}

	var batchID *uuid.UUID
	if req.BatchID != nil && *req.BatchID != "" {
		id, err := uuid.Parse(*req.BatchID)
		if err != nil {
			return nil, invalid("batch_id", "must be a valid UUID")
		}
		batchID = &id
	}

	entry := model.FinanceEntry{
		OwnerID:      ownerID,
		Kind:         req.Kind,
		Category:     req.Category,
		Amount:       req.Amount,
		EntryDate:    entryDate,
		Counterparty: req.Counterparty,
		BuyerEmail:   req.BuyerEmail,
		BatchID:      batchID,
		Notes:        req.Notes,
	}
	if err := s.entries.Create(ctx, &entry); err != nil {
		return nil, translateDBError(err)
	}

	// Async receipt for sales with a buyer email. Best effort: the entry is
	// already committed, a queue hiccup must not undo it.
	if s.dispatcher != nil && entry.Kind == model.EntrySale && entry.BuyerEmail != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			EntryID:    entry.ID.String(),
			OwnerID:    entry.OwnerID.String(),
			BuyerEmail: entry.BuyerEmail,
			FarmName:   s.farmName,
		})
	}

	return entryToResponse(&entry), nil
}

func (s *financeService) GetEntry(ctx context.Context, ownerID, id uuid.UUID) (*dto.FinanceEntryResponse, error) {
	entry, err := s.entries.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	return entryToResponse(entry), nil
}

func (s *financeService) ListEntries(ctx context.Context, ownerID uuid.UUID, filter dto.FinanceFilter) (*dto.FinanceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	entries, total, err := s.entries.List(ctx, ownerID, filter)
	if err != nil {
		return nil, translateDBError(err)
	}
	data := make([]dto.FinanceEntryResponse, 0, len(entries))
	for i := range entries {
		data = append(data, *entryToResponse(&entries[i]))
	}
	return &dto.FinanceListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *financeService) DeleteEntry(ctx context.Context, ownerID, id uuid.UUID) error {
	return translateDBError(s.entries.Delete(ctx, ownerID, id))
}

// Summary aggregates sales and expenses over [from, to]. Defaults to the
// current month when the bounds are empty.
func (s *financeService) Summary(ctx context.Context, ownerID uuid.UUID, from, to string) (*dto.FinanceSummaryResponse, error) {
	now := time.Now().UTC()
	fromT := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	toT := now
	var err error
	if from != "" {
		if fromT, err = parseDate("from", from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if toT, err = parseDate("to", to); err != nil {
			return nil, err
		}
	}
	if toT.Before(fromT) {
		return nil, invalid("to", "must not be before from")
	}

	sales, err := s.entries.SumByKind(ctx, ownerID, model.EntrySale, fromT, toT)
	if err != nil {
		return nil, translateDBError(err)
	}
	expenses, err := s.entries.SumByKind(ctx, ownerID, model.EntryExpense, fromT, toT)
	if err != nil {
		return nil, translateDBError(err)
	}

	return &dto.FinanceSummaryResponse{
		From:     fromT.Format("2006-01-02"),
		To:       toT.Format("2006-01-02"),
		Sales:    sales,
		Expenses: expenses,
		Net:      sales.Sub(expenses),
	}, nil
}

func entryToResponse(e *model.FinanceEntry) *dto.FinanceEntryResponse {
	var batchID *string
	if e.BatchID != nil {
		s := e.BatchID.String()
		batchID = &s
	}
	return &dto.FinanceEntryResponse{
		ID:           e.ID.String(),
		Kind:         e.Kind,
		Category:     e.Category,
		Amount:       e.Amount,
		EntryDate:    e.EntryDate.Format("2006-01-02"),
		Counterparty: e.Counterparty,
		BatchID:      batchID,
		Notes:        e.Notes,
	}
}
