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

// ── In-memory ListingRepository stub ─────────────────────────────────────────

type stubListingRepo struct {
	listings map[uuid.UUID]*model.Listing
}

var _ repository.ListingRepository = (*stubListingRepo)(nil)

func newStubListingRepo() *stubListingRepo {
	return &stubListingRepo{listings: make(map[uuid.UUID]*model.Listing)}
}

func (r *stubListingRepo) Create(_ context.Context, l *model.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *stubListingRepo) FindByID(_ context.Context, ownerID, id uuid.UUID) (*model.Listing, error) {
	l, ok := r.listings[id]
	if !ok || l.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubListingRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _ dto.ListingFilter) ([]model.Listing, int64, error) {
	var result []model.Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			result = append(result, *l)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubListingRepo) ListPublished(_ context.Context, _ dto.ListingFilter) ([]model.Listing, int64, error) {
	var result []model.Listing
	for _, l := range r.listings {
		if l.Status == model.ListingPublished {
			result = append(result, *l)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubListingRepo) Update(_ context.Context, l *model.Listing) error {
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *stubListingRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	l, ok := r.listings[id]
	if !ok || l.OwnerID != ownerID || l.Status != model.ListingDraft {
		return gorm.ErrRecordNotFound
	}
	delete(r.listings, id)
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func newListingFixture(t *testing.T) (ListingService, *stubListingRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newStubListingRepo()
	// No market feed client wired: publish must still work without a quote.
	svc := NewListingService(repo, nil, nil)

	owner := uuid.New()
	resp, err := svc.CreateListing(context.Background(), owner, dto.CreateListingRequest{
		Title:    "Maize, new harvest",
		Category: "maize",
		Price:    decimal.NewFromInt(25),
		Unit:     "kg",
		Quantity: decimal.NewFromInt(800),
	})
	require.NoError(t, err)
	return svc, repo, owner, uuid.MustParse(resp.ID)
}

func TestPublish_DraftBecomesVisible(t *testing.T) {
	svc, repo, owner, id := newListingFixture(t)

	resp, err := svc.Publish(context.Background(), owner, id)
	require.NoError(t, err)

	assert.Equal(t, model.ListingPublished, resp.Status)
	assert.NotNil(t, resp.PublishedAt)

	public, err := svc.BrowsePublished(context.Background(), dto.ListingFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, public.Total)
	_ = repo
}

func TestPublish_OnlyFromDraft(t *testing.T) {
	svc, _, owner, id := newListingFixture(t)

	_, err := svc.Publish(context.Background(), owner, id)
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), owner, id)
	assert.True(t, IsValidationError(err))
}

func TestMarkSold_OnlyFromPublished(t *testing.T) {
	svc, _, owner, id := newListingFixture(t)

	// Draft cannot be sold directly.
	_, err := svc.MarkSold(context.Background(), owner, id)
	assert.True(t, IsValidationError(err))

	_, err = svc.Publish(context.Background(), owner, id)
	require.NoError(t, err)

	resp, err := svc.MarkSold(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, model.ListingSold, resp.Status)
}

func TestDelete_OnlyDrafts(t *testing.T) {
	svc, repo, owner, id := newListingFixture(t)

	_, err := svc.Publish(context.Background(), owner, id)
	require.NoError(t, err)

	err = svc.DeleteListing(context.Background(), owner, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, repo.listings, id)
}

func TestBrowsePublished_ExcludesDraftsAndSold(t *testing.T) {
	svc, _, owner, id := newListingFixture(t)

	// Second listing stays draft.
	_, err := svc.CreateListing(context.Background(), owner, dto.CreateListingRequest{
		Title:    "Cassava",
		Category: "cassava",
		Price:    decimal.NewFromInt(12),
		Unit:     "kg",
		Quantity: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), owner, id)
	require.NoError(t, err)
	_, err = svc.MarkSold(context.Background(), owner, id)
	require.NoError(t, err)

	public, err := svc.BrowsePublished(context.Background(), dto.ListingFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, public.Total)
}

func TestUpdateListing_SoldLocked(t *testing.T) {
	svc, _, owner, id := newListingFixture(t)

	_, err := svc.Publish(context.Background(), owner, id)
	require.NoError(t, err)
	_, err = svc.MarkSold(context.Background(), owner, id)
	require.NoError(t, err)

	title := "changed"
	_, err = svc.UpdateListing(context.Background(), owner, id, dto.UpdateListingRequest{Title: &title})
	assert.True(t, IsValidationError(err))
}
