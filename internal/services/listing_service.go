// internal/services/listing_service.go
package services

import (
	"context"
	"errors"

	"github.com/javajoker/listing-intake/internal/models"
	"github.com/javajoker/listing-intake/internal/repository"
)

// ListingService answers queries over published listings.
type ListingService struct {
	repo   repository.ListingRepository
	drafts *DraftService
}

func NewListingService(repo repository.ListingRepository, drafts *DraftService) *ListingService {
	return &ListingService{repo: repo, drafts: drafts}
}

func (s *ListingService) ListPublished(ctx context.Context) ([]models.PublishedListing, error) {
	listings, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, storageError(OpGetAll, err)
	}
	return listings, nil
}

func (s *ListingService) GetPublished(ctx context.Context, listingID string) (*models.PublishedListing, error) {
	listing, err := s.repo.FindPublished(ctx, listingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, storageError(OpGetFinal, err)
	}
	return listing, nil
}

// GetLatest finds the most recently published listing and returns its
// current draft state, not the published snapshot.
func (s *ListingService) GetLatest(ctx context.Context) (string, *models.ListingDraft, error) {
	latest, err := s.repo.LatestPublished(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrNoListings
	}
	if err != nil {
		return "", nil, storageError(OpGetLatest, err)
	}

	draft, err := s.drafts.loadDraft(ctx, latest.ListingID, OpGetLatest)
	if err != nil {
		return "", nil, err
	}
	return latest.ListingID, draft, nil
}

// Search matches query as a substring of city, area or price. An empty
// query lists everything, including rows where all three are NULL.
func (s *ListingService) Search(ctx context.Context, query string) ([]models.PublishedListing, error) {
	if query == "" {
		listings, err := s.repo.ListPublished(ctx)
		if err != nil {
			return nil, storageError(OpSearch, err)
		}
		return listings, nil
	}

	listings, err := s.repo.SearchPublished(ctx, query)
	if err != nil {
		return nil, storageError(OpSearch, err)
	}
	return listings, nil
}
