package service

import (
	"context"
	"testing"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory FinanceRepository stub ─────────────────────────────────────────

type stubFinanceRepo struct {
	entries map[uuid.UUID]*model.FinanceEntry
}

var _ repository.FinanceRepository = (*stubFinanceRepo)(nil)

func newStubFinanceRepo() *stubFinanceRepo {
	return &stubFinanceRepo{entries: make(map[uuid.UUID]*model.FinanceEntry)}
}

func (r *stubFinanceRepo) Create(_ context.Context, e *model.FinanceEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *stubFinanceRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.FinanceEntry, error) {
	e, ok := r.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubFinanceRepo) List(_ context.Context, ownerID uuid.UUID, _ dto.FinanceFilter) ([]model.FinanceEntry, int64, error) {
	var result []model.FinanceEntry
	for _, e := range r.entries {
		if e.OwnerID == ownerID {
			result = append(result, *e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubFinanceRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	e, ok := r.entries[id]
	if !ok || e.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *stubFinanceRepo) SumByKind(_ context.Context, ownerID uuid.UUID, kind string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.entries {
		if e.OwnerID != ownerID || e.Kind != kind {
			continue
		}
		if e.EntryDate.Before(from) || e.EntryDate.After(to) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreateEntry_And_Summary(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewFinanceService(repo, nil, "Test Farm")
	owner := uuid.New()

	entries := []dto.CreateFinanceEntryRequest{
		{Kind: model.EntrySale, Category: "livestock", Amount: decimal.NewFromInt(1200), EntryDate: "2026-03-10"},
		{Kind: model.EntrySale, Category: "produce", Amount: decimal.NewFromInt(300), EntryDate: "2026-03-15"},
		{Kind: model.EntryExpense, Category: "feed", Amount: decimal.NewFromInt(450), EntryDate: "2026-03-12"},
		// Outside the summary window.
		{Kind: model.EntrySale, Category: "produce", Amount: decimal.NewFromInt(9999), EntryDate: "2026-05-01"},
	}
	for _, req := range entries {
		_, err := svc.CreateEntry(context.Background(), owner, req)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background(), owner, "2026-03-01", "2026-03-31")
	require.NoError(t, err)

	assert.True(t, summary.Sales.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.Expenses.Equal(decimal.NewFromInt(450)))
	assert.True(t, summary.Net.Equal(decimal.NewFromInt(1050)))
}

func TestCreateEntry_Validation(t *testing.T) {
	svc := NewFinanceService(newStubFinanceRepo(), nil, "")
	owner := uuid.New()

	cases := []dto.CreateFinanceEntryRequest{
		{Kind: "TRANSFER", Category: "x", Amount: decimal.NewFromInt(10), EntryDate: "2026-03-10"},
		{Kind: model.EntrySale, Category: "x", Amount: decimal.Zero, EntryDate: "2026-03-10"},
		{Kind: model.EntrySale, Category: "x", Amount: decimal.NewFromInt(10), EntryDate: "soon"},
	}
	for _, req := range cases {
		_, err := svc.CreateEntry(context.Background(), owner, req)
		assert.True(t, IsValidationError(err), "expected validation error for %+v", req)
	}
}

func TestSummary_InvertedRangeRejected(t *testing.T) {
	svc := NewFinanceService(newStubFinanceRepo(), nil, "")

	_, err := svc.Summary(context.Background(), uuid.New(), "2026-03-31", "2026-03-01")
	assert.True(t, IsValidationError(err))
}

func TestEntries_OwnerScoped(t *testing.T) {
	repo := newStubFinanceRepo()
	svc := NewFinanceService(repo, nil, "")
	owner := uuid.New()

	resp, err := svc.CreateEntry(context.Background(), owner, dto.CreateFinanceEntryRequest{
		Kind: model.EntrySale, Category: "produce", Amount: decimal.NewFromInt(10), EntryDate: "2026-03-10",
	})
	require.NoError(t, err)

	_, err = svc.GetEntry(context.Background(), uuid.New(), uuid.MustParse(resp.ID))
	assert.ErrorIs(t, err, ErrNotFound)
}
