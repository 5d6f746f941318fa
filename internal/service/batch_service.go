package service

import (
	"context"
	"fmt"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchService interface {
	CreateBatch(ctx context.Context, ownerID uuid.UUID, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	GetBatch(ctx context.Context, ownerID, id uuid.UUID) (*dto.BatchResponse, error)
	ListBatches(ctx context.Context, ownerID uuid.UUID, filter dto.BatchFilter) (*dto.BatchListResponse, error)
	CloseBatch(ctx context.Context, ownerID, id uuid.UUID) (*dto.BatchResponse, error)

	RecordDailyLog(ctx context.Context, ownerID, batchID uuid.UUID, req dto.RecordDailyLogRequest) (*dto.DailyLogResponse, error)
	AmendDailyLog(ctx context.Context, ownerID, logID uuid.UUID, req dto.AmendDailyLogRequest) (*dto.DailyLogResponse, error)
	ListDailyLogs(ctx context.Context, ownerID, batchID uuid.UUID) ([]dto.DailyLogResponse, error)
}

type batchService struct {
	batches repository.BatchRepository
}

func NewBatchService(batches repository.BatchRepository) BatchService {
	return &batchService{batches: batches}
}

func (s *batchService) CreateBatch(ctx context.Context, ownerID uuid.UUID, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if req.InitialCount <= 0 {
		return nil, invalid("initial_count", "must be greater than zero")
	}
	startedAt, err := parseDate("started_at", req.StartedAt)
	if err != nil {
		return nil, err
	}

	batch := model.Batch{
		OwnerID:      ownerID,
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		StartedAt:    startedAt,
		InitialCount: req.InitialCount,
		CurrentCount: req.InitialCount,
		Status:       model.BatchActive,
		Notes:        req.Notes,
	}
	if err := s.batches.Create(ctx, &batch); err != nil {
		return nil, translateDBError(err)
	}
	return batchToResponse(&batch), nil
}

func (s *batchService) GetBatch(ctx context.Context, ownerID, id uuid.UUID) (*dto.BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	return batchToResponse(batch), nil
}

func (s *batchService) ListBatches(ctx context.Context, ownerID uuid.UUID, filter dto.BatchFilter) (*dto.BatchListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	batches, total, err := s.batches.List(ctx, ownerID, filter)
	if err != nil {
		return nil, translateDBError(err)
	}
	data := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		data = append(data, *batchToResponse(&batches[i]))
	}
	return &dto.BatchListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *batchService) CloseBatch(ctx context.Context, ownerID, id uuid.UUID) (*dto.BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	if batch.Status == model.BatchClosed {
		return nil, invalid("status", "batch is already closed")
	}
	batch.Status = model.BatchClosed
	if err := s.batches.Update(ctx, batch); err != nil {
		return nil, translateDBError(err)
	}
	return batchToResponse(batch), nil
}

// ── Daily logs ────────────────────────────────────────────────────────────────
//
// Head count follows the same ledger discipline as inventory quantities:
// recording a log decrements CurrentCount by the mortality inside one
// transaction under a row lock, and amending applies a compensating delta
// (revert the old mortality, apply the new).

func (s *batchService) RecordDailyLog(ctx context.Context, ownerID, batchID uuid.UUID, req dto.RecordDailyLogRequest) (*dto.DailyLogResponse, error) {
	dailyLog, err := s.logFromRequest(ownerID, batchID, req)
	if err != nil {
		return nil, err
	}

	batch, err := s.batches.FindByID(ctx, ownerID, batchID)
	if err != nil {
		return nil, translateDBError(err)
	}
	if batch.Status == model.BatchClosed {
		return nil, invalid("batch_id", "batch is closed")
	}

	var countAfter int
	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		locked, err := s.batches.FindForUpdateTx(tx, batchID)
		if err != nil {
			return err
		}

		newCount := locked.CurrentCount - dailyLog.Mortality
		if newCount < 0 {
			return fmt.Errorf("%w: batch %s has %d head, log reports %d dead",
				ErrInsufficientHeadCount, locked.Name, locked.CurrentCount, dailyLog.Mortality)
		}

		if err := s.batches.CreateLogTx(tx, dailyLog); err != nil {
			return err
		}
		if err := s.batches.SetCountTx(tx, batchID, newCount); err != nil {
			return err
		}
		countAfter = newCount
		return nil
	})
	if txErr != nil {
		return nil, translateDBError(txErr)
	}

	return logToResponse(dailyLog, countAfter), nil
}

func (s *batchService) AmendDailyLog(ctx context.Context, ownerID, logID uuid.UUID, req dto.AmendDailyLogRequest) (*dto.DailyLogResponse, error) {
	existing, err := s.batches.FindLogByID(ctx, ownerID, logID)
	if err != nil {
		return nil, translateDBError(err)
	}

	replacement, err := s.logFromRequest(ownerID, existing.BatchID, req)
	if err != nil {
		return nil, err
	}

	var amended *model.DailyLog
	var countAfter int
	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		batch, err := s.batches.FindForUpdateTx(tx, existing.BatchID)
		if err != nil {
			return err
		}
		// Closing freezes the batch: its logs and head count are final.
		if batch.Status == model.BatchClosed {
			return invalid("batch_id", "batch is closed")
		}
		current, err := s.batches.FindLogByIDTx(tx, logID)
		if err != nil {
			return err
		}

		newCount := batch.CurrentCount + current.Mortality - replacement.Mortality
		if newCount < 0 {
			return fmt.Errorf("%w: amending log %s would leave batch %s at %d head",
				ErrInsufficientHeadCount, logID, batch.Name, newCount)
		}

		current.LogDate = replacement.LogDate
		current.Mortality = replacement.Mortality
		current.FeedKg = replacement.FeedKg
		current.WaterL = replacement.WaterL
		current.AvgWeight = replacement.AvgWeight
		current.Notes = replacement.Notes

		if err := s.batches.SaveLogTx(tx, current); err != nil {
			return err
		}
		if err := s.batches.SetCountTx(tx, batch.ID, newCount); err != nil {
			return err
		}

		amended = current
		countAfter = newCount
		return nil
	})
	if txErr != nil {
		return nil, translateDBError(txErr)
	}

	return logToResponse(amended, countAfter), nil
}

func (s *batchService) ListDailyLogs(ctx context.Context, ownerID, batchID uuid.UUID) ([]dto.DailyLogResponse, error) {
	batch, err := s.batches.FindByID(ctx, ownerID, batchID)
	if err != nil {
		return nil, translateDBError(err)
	}
	logs, err := s.batches.ListLogs(ctx, ownerID, batchID)
	if err != nil {
		return nil, translateDBError(err)
	}
	data := make([]dto.DailyLogResponse, 0, len(logs))
	for i := range logs {
		data = append(data, *logToResponse(&logs[i], batch.CurrentCount))
	}
	return data, nil
}

func (s *batchService) logFromRequest(ownerID, batchID uuid.UUID, req dto.RecordDailyLogRequest) (*model.DailyLog, error) {
	if req.Mortality < 0 {
		return nil, invalid("mortality", "must not be negative")
	}
	if req.FeedKg.IsNegative() {
		return nil, invalid("feed_kg", "must not be negative")
	}
	if req.WaterL.IsNegative() {
		return nil, invalid("water_l", "must not be negative")
	}
	if req.AvgWeight != nil && !req.AvgWeight.IsPositive() {
		return nil, invalid("avg_weight", "must be greater than zero")
	}
	logDate, err := parseDate("log_date", req.LogDate)
	if err != nil {
		return nil, err
	}

	return &model.DailyLog{
		OwnerID:   ownerID,
		BatchID:   batchID,
		LogDate:   logDate,
		Mortality: req.Mortality,
		FeedKg:    req.FeedKg,
		WaterL:    req.WaterL,
		AvgWeight: req.AvgWeight,
		Notes:     req.Notes,
	}, nil
}

func batchToResponse(b *model.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:           b.ID.String(),
		Name:         b.Name,
		Species:      b.Species,
		Breed:        b.Breed,
		StartedAt:    b.StartedAt.Format("2006-01-02"),
		InitialCount: b.InitialCount,
		CurrentCount: b.CurrentCount,
		Status:       b.Status,
		Notes:        b.Notes,
	}
}

func logToResponse(l *model.DailyLog, batchCount int) *dto.DailyLogResponse {
	return &dto.DailyLogResponse{
		ID:         l.ID.String(),
		BatchID:    l.BatchID.String(),
		LogDate:    l.LogDate.Format("2006-01-02"),
		Mortality:  l.Mortality,
		FeedKg:     l.FeedKg,
		WaterL:     l.WaterL,
		AvgWeight:  l.AvgWeight,
		Notes:      l.Notes,
		BatchCount: batchCount,
	}
}
