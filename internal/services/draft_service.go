// internal/services/draft_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/javajoker/listing-intake/internal/models"
	"github.com/javajoker/listing-intake/internal/repository"
	"github.com/javajoker/listing-intake/internal/utils"
)

// DraftService owns listing creation and the step 1-3 drafts.
type DraftService struct {
	repo repository.ListingRepository
	now  func() time.Time
}

func NewDraftService(repo repository.ListingRepository) *DraftService {
	return &DraftService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateListing mints an identifier and seeds empty rows in every draft
// table.
func (s *DraftService) CreateListing(ctx context.Context) (string, error) {
	listingID, err := utils.GenerateListingID(s.now())
	if err != nil {
		return "", storageError(OpCreateListing, fmt.Errorf("failed to generate listing id: %w", err))
	}

	if err := s.repo.CreateDraft(ctx, listingID); err != nil {
		return "", storageError(OpCreateListing, err)
	}
	return listingID, nil
}

func (s *DraftService) SaveBasicInfo(ctx context.Context, info *models.BasicInfo) error {
	if err := utils.ValidateStruct(info); err != nil {
		return invalidInput(err)
	}
	if err := s.repo.SaveBasicInfo(ctx, info); err != nil {
		return storageError(OpStep1, err)
	}
	return nil
}

func (s *DraftService) SaveAmenities(ctx context.Context, amenities *models.Amenities) error {
	if err := utils.ValidateStruct(amenities); err != nil {
		return invalidInput(err)
	}
	if err := s.repo.SaveAmenities(ctx, amenities); err != nil {
		return storageError(OpStep2, err)
	}
	return nil
}

func (s *DraftService) SaveLocation(ctx context.Context, location *models.Location) error {
	if err := utils.ValidateStruct(location); err != nil {
		return invalidInput(err)
	}
	if err := s.repo.SaveLocation(ctx, location); err != nil {
		return storageError(OpStep3, err)
	}
	return nil
}

// GetDraft loads the four draft rows concurrently. A missing row leaves its
// step nil; any other lookup failure fails the whole call.
func (s *DraftService) GetDraft(ctx context.Context, listingID string) (*models.ListingDraft, error) {
	if err := utils.ValidateListingID(listingID); err != nil {
		return nil, ErrListingIDRequired
	}
	return s.loadDraft(ctx, listingID, OpGetListing)
}

func (s *DraftService) loadDraft(ctx context.Context, listingID, op string) (*models.ListingDraft, error) {
	draft := &models.ListingDraft{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		step, err := s.repo.FindBasicInfo(gctx, listingID)
		draft.Step1 = step
		return missingOK(err)
	})
	g.Go(func() error {
		step, err := s.repo.FindAmenities(gctx, listingID)
		draft.Step2 = step
		return missingOK(err)
	})
	g.Go(func() error {
		step, err := s.repo.FindLocation(gctx, listingID)
		draft.Step3 = step
		return missingOK(err)
	})
	g.Go(func() error {
		media, err := s.repo.FindMedia(gctx, listingID)
		draft.Media = media
		return missingOK(err)
	})

	if err := g.Wait(); err != nil {
		return nil, storageError(op, err)
	}
	return draft, nil
}

func missingOK(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
