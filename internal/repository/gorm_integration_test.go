package repository

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/listing-intake/internal/config"
	"github.com/javajoker/listing-intake/internal/database"
	"github.com/javajoker/listing-intake/internal/models"
)

// startPostgres runs a throwaway postgres container and applies the
// migrations. The test is skipped when Docker is not reachable.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}
	pool.MaxWait = time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=listings",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=listings",
		},
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start postgres resource")
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge postgres resource: %v", err)
		}
	})
	require.NoError(t, resource.Expire(300))

	host, port, err := net.SplitHostPort(resource.GetHostPort("5432/tcp"))
	require.NoError(t, err)
	cfg := config.DatabaseConfig{
		Host:         host,
		Port:         port,
		User:         "listings",
		Password:     "secret",
		Database:     "listings",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 5,
		MaxLifetime:  60,
		LogLevel:     "silent",
	}

	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var errRetry error
		db, errRetry = database.Initialize(cfg)
		return errRetry
	}), "could not connect to postgres")
	t.Cleanup(func() { database.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(sqlDB, "up"))
	return db
}

func publishedIDs(listings []models.PublishedListing) []string {
	ids := []string{}
	for _, l := range listings {
		ids = append(ids, l.ListingID)
	}
	return ids
}

// The subtests share one database and run in order.
func TestGormRepositoryAgainstPostgres(t *testing.T) {
	r := NewGormListingRepository(startPostgres(t))
	ctx := context.Background()

	t.Run("nothing published", func(t *testing.T) {
		_, err := r.LatestPublished(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = r.FindPublished(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = r.FindBasicInfo(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := r.ListPublished(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.NotNil(t, all)
	})

	t.Run("create draft keeps existing rows", func(t *testing.T) {
		require.NoError(t, r.SaveLocation(ctx, &models.Location{ListingID: "keep", City: strPtr("Austin")}))
		require.NoError(t, r.CreateDraft(ctx, "keep"))
		require.NoError(t, r.CreateDraft(ctx, "keep"))

		loc, err := r.FindLocation(ctx, "keep")
		require.NoError(t, err)
		assert.Equal(t, "Austin", *loc.City)

		amenities, err := r.FindAmenities(ctx, "keep")
		require.NoError(t, err)
		assert.Equal(t, models.FlagOff, amenities.Wifi)
		assert.Empty(t, amenities.SpecialNotes)

		_, err = r.FindMedia(ctx, "keep")
		assert.NoError(t, err)
	})

	t.Run("upsert replaces whole row", func(t *testing.T) {
		require.NoError(t, r.SaveAmenities(ctx, &models.Amenities{ListingID: "replace", Wifi: models.FlagOn, SpecialNotes: "quiet"}))
		require.NoError(t, r.SaveAmenities(ctx, &models.Amenities{ListingID: "replace", TV: models.FlagOn}))

		got, err := r.FindAmenities(ctx, "replace")
		require.NoError(t, err)
		assert.Equal(t, models.FlagOff, got.Wifi)
		assert.Equal(t, models.FlagOn, got.TV)
		assert.Empty(t, got.SpecialNotes)

		require.NoError(t, r.SaveLocation(ctx, &models.Location{ListingID: "replace", City: strPtr("Austin"), Price: models.NewNullFloat(900)}))
		require.NoError(t, r.SaveLocation(ctx, &models.Location{ListingID: "replace", Area: strPtr("Downtown")}))

		loc, err := r.FindLocation(ctx, "replace")
		require.NoError(t, err)
		assert.Nil(t, loc.City)
		assert.False(t, loc.Price.Valid)
		assert.Equal(t, "Downtown", *loc.Area)
	})

	t.Run("publish requires every draft", func(t *testing.T) {
		require.NoError(t, r.SaveBasicInfo(ctx, &models.BasicInfo{ListingID: "partial", PropertyTitle: strPtr("Loft")}))
		require.NoError(t, r.SaveAmenities(ctx, &models.Amenities{ListingID: "partial", Wifi: models.FlagOn}))
		require.NoError(t, r.SaveMedia(ctx, &models.Media{ListingID: "partial"}))

		rows, err := r.Publish(ctx, "partial")
		require.NoError(t, err)
		assert.Zero(t, rows)

		_, err = r.FindPublished(ctx, "partial")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("publish derives amenities and overwrites in place", func(t *testing.T) {
		require.NoError(t, r.CreateDraft(ctx, "austin"))
		require.NoError(t, r.SaveBasicInfo(ctx, &models.BasicInfo{
			ListingID:     "austin",
			PropertyTitle: strPtr("Bungalow"),
			Bedrooms:      models.NewNullInt(3),
			Bathrooms:     models.NewNullFloat(1.5),
		}))
		require.NoError(t, r.SaveAmenities(ctx, &models.Amenities{
			ListingID:    "austin",
			Dryer:        models.FlagOn,
			AC:           models.FlagOn,
			Wifi:         models.FlagOn,
			SpecialNotes: "no pets",
		}))
		require.NoError(t, r.SaveLocation(ctx, &models.Location{ListingID: "austin", City: strPtr("Austin"), Price: models.NewNullFloat(1500)}))
		require.NoError(t, r.SaveMedia(ctx, &models.Media{ListingID: "austin", Image1: strPtr("austin/image1-1.jpg")}))

		rows, err := r.Publish(ctx, "austin")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		first, err := r.FindPublished(ctx, "austin")
		require.NoError(t, err)
		assert.Equal(t, "wifi,ac,dryer", first.Amenities)
		assert.Equal(t, "no pets", first.SpecialNotes)
		assert.Equal(t, "Bungalow", *first.PropertyTitle)
		assert.Equal(t, models.NewNullInt(3), first.Bedrooms)
		assert.Equal(t, models.NewNullFloat(1.5), first.Bathrooms)
		assert.Equal(t, models.NewNullFloat(1500), first.Price)
		assert.Equal(t, "austin/image1-1.jpg", *first.Image1)
		assert.Nil(t, first.Image2)
		assert.Nil(t, first.Video)
		assert.False(t, first.CreatedAt.IsZero())

		require.NoError(t, r.SaveLocation(ctx, &models.Location{ListingID: "austin", City: strPtr("North Austin"), Price: models.NewNullFloat(1500)}))
		rows, err = r.Publish(ctx, "austin")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		second, err := r.FindPublished(ctx, "austin")
		require.NoError(t, err)
		assert.Equal(t, "North Austin", *second.City)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	})

	t.Run("publish with no amenities", func(t *testing.T) {
		require.NoError(t, r.CreateDraft(ctx, "boston"))
		require.NoError(t, r.SaveLocation(ctx, &models.Location{ListingID: "boston", City: strPtr("Boston"), Price: models.NewNullFloat(2500)}))

		rows, err := r.Publish(ctx, "boston")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		got, err := r.FindPublished(ctx, "boston")
		require.NoError(t, err)
		assert.Equal(t, "", got.Amenities)
		assert.Nil(t, got.PropertyTitle)
	})

	t.Run("list and latest ordering", func(t *testing.T) {
		all, err := r.ListPublished(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"boston", "austin"}, publishedIDs(all))

		latest, err := r.LatestPublished(ctx)
		require.NoError(t, err)
		assert.Equal(t, "boston", latest.ListingID)
	})

	t.Run("search", func(t *testing.T) {
		tests := []struct {
			query string
			want  []string
		}{
			{"Austin", []string{"austin"}},
			{"austin", []string{}},
			{"500", []string{"boston", "austin"}},
			{"A_stin", []string{"austin"}},
			{"%", []string{"boston", "austin"}},
			{"Denver", []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				got, err := r.SearchPublished(ctx, tt.query)
				require.NoError(t, err)
				assert.Equal(t, tt.want, publishedIDs(got))
			})
		}
	})
}
