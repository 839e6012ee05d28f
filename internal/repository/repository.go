// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/javajoker/listing-intake/internal/models"
)

var ErrNotFound = errors.New("record not found")

// ListingRepository persists the four draft steps and the published
// snapshots. Save methods are upserts that replace every column.
type ListingRepository interface {
	// CreateDraft seeds empty rows in all draft tables, leaving existing rows untouched.
	CreateDraft(ctx context.Context, listingID string) error

	SaveBasicInfo(ctx context.Context, info *models.BasicInfo) error
	SaveAmenities(ctx context.Context, amenities *models.Amenities) error
	SaveLocation(ctx context.Context, location *models.Location) error
	SaveMedia(ctx context.Context, media *models.Media) error

	FindBasicInfo(ctx context.Context, listingID string) (*models.BasicInfo, error)
	FindAmenities(ctx context.Context, listingID string) (*models.Amenities, error)
	FindLocation(ctx context.Context, listingID string) (*models.Location, error)
	FindMedia(ctx context.Context, listingID string) (*models.Media, error)

	// Publish snapshots the joined drafts into the published table and
	// returns the number of rows written. A listing missing any draft row
	// writes nothing.
	Publish(ctx context.Context, listingID string) (int64, error)

	ListPublished(ctx context.Context) ([]models.PublishedListing, error)
	FindPublished(ctx context.Context, listingID string) (*models.PublishedListing, error)
	LatestPublished(ctx context.Context) (*models.PublishedListing, error)
	SearchPublished(ctx context.Context, query string) ([]models.PublishedListing, error)
}
