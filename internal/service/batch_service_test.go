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

// ── In-memory BatchRepository stub ───────────────────────────────────────────

type stubBatchRepo struct {
	batches map[uuid.UUID]*model.Batch
	logs    map[uuid.UUID]*model.DailyLog
}

var _ repository.BatchRepository = (*stubBatchRepo)(nil)

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{
		batches: make(map[uuid.UUID]*model.Batch),
		logs:    make(map[uuid.UUID]*model.DailyLog),
	}
}

func (r *stubBatchRepo) Create(_ context.Context, b *model.Batch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *stubBatchRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Batch, error) {
	b, ok := r.batches[id]
	if !ok || b.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBatchRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.BatchFilter) ([]model.Batch, int64, error) {
	var result []model.Batch
	for _, b := range r.batches {
		if b.OwnerID == ownerID {
			result = append(result, *b)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubBatchRepo) Update(_ context.Context, b *model.Batch) error {
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *stubBatchRepo) FindLogByID(_ context.Context, ownerID, id uuid.UUID) (*model.DailyLog, error) {
	l, ok := r.logs[id]
	if !ok || l.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubBatchRepo) ListLogs(_ context.Context, ownerID, batchID uuid.UUID) ([]model.DailyLog, error) {
	var result []model.DailyLog
	for _, l := range r.logs {
		if l.OwnerID == ownerID && l.BatchID == batchID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (r *stubBatchRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBatchRepo) SetCountTx(_ *gorm.DB, id uuid.UUID, count int) error {
	b, ok := r.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.CurrentCount = count
	return nil
}

func (r *stubBatchRepo) CreateLogTx(_ *gorm.DB, l *model.DailyLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *stubBatchRepo) SaveLogTx(_ *gorm.DB, l *model.DailyLog) error {
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *stubBatchRepo) FindLogByIDTx(_ *gorm.DB, id uuid.UUID) (*model.DailyLog, error) {
	l, ok := r.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

// ── Tests ────────────────────────────────────────────────────────────────────

func newBatchFixture(t *testing.T) (BatchService, *stubBatchRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newStubBatchRepo()
	svc := NewBatchService(repo)

	owner := uuid.New()
	resp, err := svc.CreateBatch(context.Background(), owner, dto.CreateBatchRequest{
		Name:         "Broilers March",
		Species:      "broiler",
		StartedAt:    "2026-03-01",
		InitialCount: 500,
	})
	require.NoError(t, err)
	return svc, repo, owner, uuid.MustParse(resp.ID)
}

func logReq(mortality int) dto.RecordDailyLogRequest {
	return dto.RecordDailyLogRequest{
		LogDate:   "2026-03-05",
		Mortality: mortality,
		FeedKg:    decimal.NewFromInt(120),
		WaterL:    decimal.NewFromInt(300),
	}
}

func TestCreateBatch_StartsAtInitialCount(t *testing.T) {
	_, repo, _, batchID := newBatchFixture(t)

	b := repo.batches[batchID]
	assert.Equal(t, 500, b.InitialCount)
	assert.Equal(t, 500, b.CurrentCount)
	assert.Equal(t, model.BatchActive, b.Status)
}

func TestRecordDailyLog_MortalityDecrementsCount(t *testing.T) {
	svc, repo, owner, batchID := newBatchFixture(t)

	resp, err := svc.RecordDailyLog(context.Background(), owner, batchID, logReq(12))
	require.NoError(t, err)

	assert.Equal(t, 488, resp.BatchCount)
	assert.Equal(t, 488, repo.batches[batchID].CurrentCount)
}

func TestRecordDailyLog_MortalityExceedingCountRejected(t *testing.T) {
	svc, repo, owner, batchID := newBatchFixture(t)

	_, err := svc.RecordDailyLog(context.Background(), owner, batchID, logReq(501))
	require.ErrorIs(t, err, ErrInsufficientHeadCount)

	assert.Equal(t, 500, repo.batches[batchID].CurrentCount)
	assert.Empty(t, repo.logs)
}

func TestRecordDailyLog_ClosedBatchRejected(t *testing.T) {
	svc, _, owner, batchID := newBatchFixture(t)

	_, err := svc.CloseBatch(context.Background(), owner, batchID)
	require.NoError(t, err)

	_, err = svc.RecordDailyLog(context.Background(), owner, batchID, logReq(1))
	assert.True(t, IsValidationError(err))
}

func TestAmendDailyLog_CompensatingDelta(t *testing.T) {
	svc, repo, owner, batchID := newBatchFixture(t)

	rec, err := svc.RecordDailyLog(context.Background(), owner, batchID, logReq(12))
	require.NoError(t, err)

	// 488 head; mortality 12 → 5 restores 7.
	resp, err := svc.AmendDailyLog(context.Background(), owner, uuid.MustParse(rec.ID), logReq(5))
	require.NoError(t, err)

	assert.Equal(t, 495, resp.BatchCount)
	assert.Equal(t, 495, repo.batches[batchID].CurrentCount)
	assert.Equal(t, 5, repo.logs[uuid.MustParse(rec.ID)].Mortality)
}

func TestAmendDailyLog_RejectedWhenCountWouldGoNegative(t *testing.T) {
	svc, repo, owner, batchID := newBatchFixture(t)

	rec, err := svc.RecordDailyLog(context.Background(), owner, batchID, logReq(12))
	require.NoError(t, err)

	_, err = svc.AmendDailyLog(context.Background(), owner, uuid.MustParse(rec.ID), logReq(600))
	require.ErrorIs(t, err, ErrInsufficientHeadCount)

	// Untouched on rejection.
	assert.Equal(t, 488, repo.batches[batchID].CurrentCount)
	assert.Equal(t, 12, repo.logs[uuid.MustParse(rec.ID)].Mortality)
}

func TestAmendDailyLog_ClosedBatchRejected(t *testing.T) {
	svc, repo, owner, batchID := newBatchFixture(t)

	rec, err := svc.RecordDailyLog(context.Background(), owner, batchID, logReq(10))
	require.NoError(t, err)

	_, err = svc.CloseBatch(context.Background(), owner, batchID)
	require.NoError(t, err)

	_, err = svc.AmendDailyLog(context.Background(), owner, uuid.MustParse(rec.ID), logReq(100))
	assert.True(t, IsValidationError(err))

	// Frozen: neither the log nor the head count moved.
	assert.Equal(t, 10, repo.logs[uuid.MustParse(rec.ID)].Mortality)
	assert.Equal(t, 490, repo.batches[batchID].CurrentCount)
}

func TestCloseBatch_AlreadyClosedRejected(t *testing.T) {
	svc, _, owner, batchID := newBatchFixture(t)

	_, err := svc.CloseBatch(context.Background(), owner, batchID)
	require.NoError(t, err)

	_, err = svc.CloseBatch(context.Background(), owner, batchID)
	assert.True(t, IsValidationError(err))
}
