// internal/services/publish_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/listing-intake/internal/repository"
	"github.com/javajoker/listing-intake/internal/utils"
)

type PublishService struct {
	repo repository.ListingRepository
}

func NewPublishService(repo repository.ListingRepository) *PublishService {
	return &PublishService{repo: repo}
}

// Publish snapshots the drafts into the published table. It reports false,
// without an error, when a draft row is missing and nothing was written.
func (s *PublishService) Publish(ctx context.Context, listingID string) (bool, error) {
	if err := utils.ValidateListingID(listingID); err != nil {
		return false, ErrListingIDRequired
	}

	rows, err := s.repo.Publish(ctx, listingID)
	if err != nil {
		return false, storageError(OpPublish, err)
	}
	if rows == 0 {
		logrus.WithField("listing_id", listingID).Warn("Publish matched no complete draft")
		return false, nil
	}
	return true, nil
}
