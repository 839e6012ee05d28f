// internal/repository/gorm_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/listing-intake/internal/models"
)

type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

var upsertByListingID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "listing_id"}},
	UpdateAll: true,
}

func (r *GormListingRepository) CreateDraft(ctx context.Context, listingID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := []interface{}{
			&models.BasicInfo{ListingID: listingID},
			&models.Amenities{ListingID: listingID},
			&models.Location{ListingID: listingID},
			&models.Media{ListingID: listingID},
		}
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormListingRepository) SaveBasicInfo(ctx context.Context, info *models.BasicInfo) error {
	return r.upsert(ctx, info)
}

func (r *GormListingRepository) SaveAmenities(ctx context.Context, amenities *models.Amenities) error {
	return r.upsert(ctx, amenities)
}

func (r *GormListingRepository) SaveLocation(ctx context.Context, location *models.Location) error {
	return r.upsert(ctx, location)
}

func (r *GormListingRepository) SaveMedia(ctx context.Context, media *models.Media) error {
	return r.upsert(ctx, media)
}

func (r *GormListingRepository) upsert(ctx context.Context, row interface{}) error {
	return r.db.WithContext(ctx).Clauses(upsertByListingID).Create(row).Error
}

func (r *GormListingRepository) FindBasicInfo(ctx context.Context, listingID string) (*models.BasicInfo, error) {
	var info models.BasicInfo
	if err := r.findByListingID(ctx, listingID, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *GormListingRepository) FindAmenities(ctx context.Context, listingID string) (*models.Amenities, error) {
	var amenities models.Amenities
	if err := r.findByListingID(ctx, listingID, &amenities); err != nil {
		return nil, err
	}
	return &amenities, nil
}

func (r *GormListingRepository) FindLocation(ctx context.Context, listingID string) (*models.Location, error) {
	var location models.Location
	if err := r.findByListingID(ctx, listingID, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *GormListingRepository) FindMedia(ctx context.Context, listingID string) (*models.Media, error) {
	var media models.Media
	if err := r.findByListingID(ctx, listingID, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *GormListingRepository) findByListingID(ctx context.Context, listingID string, dest interface{}) error {
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingID).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// publishSQL joins the drafts and upserts the snapshot in one statement.
var publishSQL = buildPublishSQL()

func buildPublishSQL() string {
	cases := make([]string, len(models.AmenityFlags))
	for i, name := range models.AmenityFlags {
		cases[i] = fmt.Sprintf("CASE WHEN s2.%s = 1 THEN '%s' ELSE NULL END", name, name)
	}

	return `
		INSERT INTO step4 (
		  listing_id, property_title, description, property_type, bedrooms, bathrooms, total_area,
		  amenities, special_notes, price, city, area, image1, image2, image3, image4, video
		)
		SELECT
		  s1.listing_id,
		  s1.property_title, s1.description, s1.property_type,
		  s1.bedrooms, s1.bathrooms, s1.total_area,
		  CONCAT_WS(',',
		    ` + strings.Join(cases, ",\n\t\t    ") + `
		  ),
		  s2.special_notes,
		  s3.price, s3.city, s3.area,
		  u.image1, u.image2, u.image3, u.image4, u.video
		FROM step1 s1
		JOIN step2 s2 ON s1.listing_id = s2.listing_id
		JOIN step3 s3 ON s1.listing_id = s3.listing_id
		JOIN upload u ON s1.listing_id = u.listing_id
		WHERE s1.listing_id = ?
		ON CONFLICT (listing_id) DO UPDATE SET
		  property_title = EXCLUDED.property_title, description = EXCLUDED.description,
		  property_type = EXCLUDED.property_type, bedrooms = EXCLUDED.bedrooms,
		  bathrooms = EXCLUDED.bathrooms, total_area = EXCLUDED.total_area,
		  amenities = EXCLUDED.amenities, special_notes = EXCLUDED.special_notes,
		  price = EXCLUDED.price, city = EXCLUDED.city, area = EXCLUDED.area,
		  image1 = EXCLUDED.image1, image2 = EXCLUDED.image2, image3 = EXCLUDED.image3,
		  image4 = EXCLUDED.image4, video = EXCLUDED.video
	`
}

func (r *GormListingRepository) Publish(ctx context.Context, listingID string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(publishSQL, listingID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormListingRepository) ListPublished(ctx context.Context) ([]models.PublishedListing, error) {
	listings := []models.PublishedListing{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *GormListingRepository) FindPublished(ctx context.Context, listingID string) (*models.PublishedListing, error) {
	var listing models.PublishedListing
	if err := r.findByListingID(ctx, listingID, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *GormListingRepository) LatestPublished(ctx context.Context) (*models.PublishedListing, error) {
	var listing models.PublishedListing
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Take(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// SearchPublished matches query as a substring of city, area or price text.
// Case and wildcard handling are whatever LIKE does.
func (r *GormListingRepository) SearchPublished(ctx context.Context, query string) ([]models.PublishedListing, error) {
	like := "%" + query + "%"
	listings := []models.PublishedListing{}
	err := r.db.WithContext(ctx).
		Where("city LIKE ? OR area LIKE ? OR price::text LIKE ?", like, like, like).
		Order("id DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
