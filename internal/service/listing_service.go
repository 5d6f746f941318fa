package service

import (
	"context"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/infra"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ListingService interface {
	CreateListing(ctx context.Context, ownerID uuid.UUID, req dto.CreateListingRequest) (*dto.ListingResponse, error)
	GetListing(ctx context.Context, ownerID, id uuid.UUID) (*dto.ListingResponse, error)
	ListOwn(ctx context.Context, ownerID uuid.UUID, filter dto.ListingFilter) (*dto.ListingListResponse, error)
	UpdateListing(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateListingRequest) (*dto.ListingResponse, error)
	DeleteListing(ctx context.Context, ownerID, id uuid.UUID) error

	Publish(ctx context.Context, ownerID, id uuid.UUID) (*dto.ListingResponse, error)
	MarkSold(ctx context.Context, ownerID, id uuid.UUID) (*dto.ListingResponse, error)

	// BrowsePublished is the public marketplace view, no authentication.
	BrowsePublished(ctx context.Context, filter dto.ListingFilter) (*dto.ListingListResponse, error)
}

type listingService struct {
	listings repository.ListingRepository
	market   *infra.MarketFeedClient
	marketCB *infra.CircuitBreaker
}

func NewListingService(listings repository.ListingRepository, market *infra.MarketFeedClient, marketCB *infra.CircuitBreaker) ListingService {
	return &listingService{listings: listings, market: market, marketCB: marketCB}
}

func (s *listingService) CreateListing(ctx context.Context, ownerID uuid.UUID, req dto.CreateListingRequest) (*dto.ListingResponse, error) {
	if !req.Price.IsPositive() {
		return nil, invalid("price", "must be greater than zero")
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid("quantity", "must be greater than zero")
	}

	listing := model.Listing{
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		Status:       model.ListingDraft,
		ContactPhone: req.ContactPhone,
	}
	if err := s.listings.Create(ctx, &listing); err != nil {
		return nil, translateDBError(err)
	}
	return listingToResponse(&listing), nil
}

func (s *listingService) GetListing(ctx context.Context, ownerID, id uuid.UUID) (*dto.ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	return listingToResponse(listing), nil
}

func (s *listingService) ListOwn(ctx context.Context, ownerID uuid.UUID, filter dto.ListingFilter) (*dto.ListingListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	listings, total, err := s.listings.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, translateDBError(err)
	}
	return listingsToList(listings, total, filter), nil
}

func (s *listingService) UpdateListing(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	if listing.Status == model.ListingSold {
		return nil, invalid("status", "sold listings cannot be edited")
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, invalid("price", "must be greater than zero")
		}
		listing.Price = *req.Price
	}
	if req.Quantity != nil {
		if !req.Quantity.IsPositive() {
			return nil, invalid("quantity", "must be greater than zero")
		}
		listing.Quantity = *req.Quantity
	}
	if req.ContactPhone != nil {
		listing.ContactPhone = *req.ContactPhone
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, translateDBError(err)
	}
	return listingToResponse(listing), nil
}

// DeleteListing only removes drafts; published and sold listings stay for the
// record.
func (s *listingService) DeleteListing(ctx context.Context, ownerID, id uuid.UUID) error {
	return translateDBError(s.listings.Delete(ctx, ownerID, id))
}

// Publish moves a draft onto the public marketplace. A reference price is
// snapshotted from the external market feed through the circuit breaker;
// feed trouble never blocks publishing.
func (s *listingService) Publish(ctx context.Context, ownerID, id uuid.UUID) (*dto.ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	if listing.Status != model.ListingDraft {
		return nil, invalid("status", "only draft listings can be published")
	}

	if s.market != nil && s.marketCB != nil {
		var quote *infra.MarketQuote
		cbErr := s.marketCB.Execute(func() error {
			var qErr error
			quote, qErr = s.market.Quote(ctx, listing.Category)
			return qErr
		})
		if cbErr != nil {
			log.Warn().Err(cbErr).Str("category", listing.Category).Msg("market quote unavailable, publishing without reference price")
		} else if quote != nil {
			listing.ReferencePrice = &quote.Price
		}
	}

	now := time.Now().UTC()
	listing.Status = model.ListingPublished
	listing.PublishedAt = &now

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, translateDBError(err)
	}
	return listingToResponse(listing), nil
}

func (s *listingService) MarkSold(ctx context.Context, ownerID, id uuid.UUID) (*dto.ListingResponse, error) {
	listing, err := s.listings.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateDBError(err)
	}
	if listing.Status != model.ListingPublished {
		return nil, invalid("status", "only published listings can be marked sold")
	}
	listing.Status = model.ListingSold
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, translateDBError(err)
	}
	return listingToResponse(listing), nil
}

func (s *listingService) BrowsePublished(ctx context.Context, filter dto.ListingFilter) (*dto.ListingListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	filter.Status = "" // public view is always published-only
	listings, total, err := s.listings.ListPublished(ctx, filter)
	if err != nil {
		return nil, translateDBError(err)
	}
	return listingsToList(listings, total, filter), nil
}

func listingsToList(listings []model.Listing, total int64, filter dto.ListingFilter) *dto.ListingListResponse {
	data := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		data = append(data, *listingToResponse(&listings[i]))
	}
	return &dto.ListingListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}
}

func listingToResponse(l *model.Listing) *dto.ListingResponse {
	var publishedAt *string
	if l.PublishedAt != nil {
		s := l.PublishedAt.Format(time.RFC3339)
		publishedAt = &s
	}
	return &dto.ListingResponse{
		ID:             l.ID.String(),
		Title:          l.Title,
		Description:    l.Description,
		Category:       l.Category,
		Price:          l.Price,
		Unit:           l.Unit,
		Quantity:       l.Quantity,
		Status:         l.Status,
		ContactPhone:   l.ContactPhone,
		ReferencePrice: l.ReferencePrice,
		PublishedAt:    publishedAt,
	}
}
